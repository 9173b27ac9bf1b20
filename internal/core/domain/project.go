package domain

// Operation names a command template a toolchain provides for a language.
type Operation string

const (
	// OpCompileObject compiles one source into an object file.
	OpCompileObject Operation = "COMPILE_OBJECT"
	// OpCreateStaticLibrary creates an archive in a single step.
	OpCreateStaticLibrary Operation = "CREATE_STATIC_LIBRARY"
	// OpArchiveCreate is the first step of a multi-step archive.
	OpArchiveCreate Operation = "ARCHIVE_CREATE"
	// OpArchiveFinish is the indexing step of a multi-step archive.
	OpArchiveFinish Operation = "ARCHIVE_FINISH"
	// OpCreateSharedLibrary links a shared object.
	OpCreateSharedLibrary Operation = "CREATE_SHARED_LIBRARY"
	// OpLinkExecutable links a program.
	OpLinkExecutable Operation = "LINK_EXECUTABLE"
)

// Language describes the toolchain settings for one compile language.
type Language struct {
	Name string

	// Extensions are the source suffixes (without dot) owned by the language.
	Extensions []string

	// Commands maps operations to raw command templates.
	Commands map[Operation]string

	// Flags are applied to every compile of the language.
	Flags string

	// SharedFlags are added when compiling objects for a shared library.
	SharedFlags string

	// LinkFlags are applied to every link driven by the language.
	LinkFlags string
}

// Project is the complete, read-only model handed to the generator.
type Project struct {
	Name string

	// SourceDir is the absolute top-level source directory.
	SourceDir string

	// BinaryDir is the absolute build directory the graph is written to.
	BinaryDir string

	// Graph holds the targets in declaration order.
	Graph *Graph

	// Toolchain maps language names to their settings.
	Toolchain map[string]Language

	// ListFiles are every project description file read while loading.
	ListFiles []string

	// StateFile is the persisted generator state the graph depends on.
	StateFile string

	// RegenerateCommand re-runs the generator for this build directory.
	RegenerateCommand string

	// ToolCommand invokes the generator's helper commands (symlink creation).
	ToolCommand string
}

// NewProject creates an empty project rooted at the given directories.
func NewProject(name, sourceDir, binaryDir string) *Project {
	return &Project{
		Name:      name,
		SourceDir: sourceDir,
		BinaryDir: binaryDir,
		Graph:     NewGraph(),
		Toolchain: make(map[string]Language),
	}
}
