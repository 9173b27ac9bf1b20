package domain

import (
	"path/filepath"
	"strings"
)

// TargetKind identifies how a target is lowered into build statements.
type TargetKind int

const (
	// KindExecutable is a linked program.
	KindExecutable TargetKind = iota
	// KindSharedLibrary is a shared object, possibly versioned.
	KindSharedLibrary
	// KindStaticLibrary is an archive of object files.
	KindStaticLibrary
	// KindUtility is a command-only target with no link step.
	KindUtility
	// KindGlobal is a tool-provided aggregate target (install, test, ...).
	KindGlobal
)

// String returns the upper-case name used in rule names and section headers.
func (k TargetKind) String() string {
	switch k {
	case KindExecutable:
		return "EXECUTABLE"
	case KindSharedLibrary:
		return "SHARED_LIBRARY"
	case KindStaticLibrary:
		return "STATIC_LIBRARY"
	case KindUtility:
		return "UTILITY"
	case KindGlobal:
		return "GLOBAL_TARGET"
	default:
		return "UNKNOWN"
	}
}

// VisibleName returns the human readable kind used in descriptions.
func (k TargetKind) VisibleName() string {
	switch k {
	case KindExecutable:
		return "executable"
	case KindSharedLibrary:
		return "shared library"
	case KindStaticLibrary:
		return "static library"
	case KindUtility:
		return "utility"
	case KindGlobal:
		return "global target"
	default:
		return "target"
	}
}

// IsLinkable reports whether targets of this kind produce a link or archive step.
func (k TargetKind) IsLinkable() bool {
	return k == KindExecutable || k == KindSharedLibrary || k == KindStaticLibrary
}

// ParseTargetKind converts a description-file spelling into a TargetKind.
func ParseTargetKind(s string) (TargetKind, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "executable", "exe":
		return KindExecutable, true
	case "shared_library", "shared":
		return KindSharedLibrary, true
	case "static_library", "static":
		return KindStaticLibrary, true
	case "utility", "custom":
		return KindUtility, true
	case "global", "global_target":
		return KindGlobal, true
	default:
		return 0, false
	}
}

// OutputNames holds the file names a target produces.
// Out is the logical name users reference, Real the on-disk artifact
// and SOName the shared-object name embedded by the linker.
type OutputNames struct {
	Out    string
	Real   string
	SOName string
}

// SourceFile is one entry of a target's source list.
type SourceFile struct {
	// Path is the normalized path of the file.
	Path string

	// Language is the compile language. Empty means the file is not compiled.
	Language string

	// Generated marks files produced during the build.
	Generated bool

	// HeaderOnly marks files that are never compiled on their own.
	HeaderOnly bool

	// ExternalObject marks prebuilt objects that feed the link step directly.
	ExternalObject bool

	// Command is the custom command producing this file, if any.
	Command *CustomCommand

	// ObjectDepends are extra order-only dependencies of the object built from this file.
	ObjectDepends []string
}

// Target is a buildable unit of the project model.
type Target struct {
	Name InternedString
	Kind TargetKind

	// Sources is the ordered source list.
	Sources []*SourceFile

	// LinkLanguage selects the linker rule.
	LinkLanguage string

	// Names are the output file names, relative to OutputDir.
	Names OutputNames

	// OutputDir is the directory holding the target artifacts.
	OutputDir string

	// ObjectDir overrides the directory holding the target's object files.
	ObjectDir string

	// Depends are target-level prerequisites.
	Depends []InternedString

	// LinkItems are the transitive link dependency paths, resolved by the model.
	LinkItems []string

	// ExternalLibraries are link inputs from outside the project (-lm, /usr/lib/libz.so).
	// They reach the link command line but are not build dependencies.
	ExternalLibraries []string

	// Defines, CompileFlags and LinkFlags are target-specific flag inputs.
	Defines      []string
	CompileFlags []string
	LinkFlags    []string

	// PreBuild, PreLink and PostBuild commands run around the target's main step.
	PreBuild  []*CustomCommand
	PreLink   []*CustomCommand
	PostBuild []*CustomCommand

	// ExcludeFromAll removes the target from the default "all" aggregate.
	ExcludeFromAll bool

	// Echo overrides the description of a utility target.
	Echo string

	// ListFile is the project description file that declared this target.
	ListFile string
}

// OutputPath returns the path of the logical output.
func (t *Target) OutputPath() string {
	return t.filePath(t.Names.Out)
}

// RealOutputPath returns the path of the real, possibly versioned, output.
func (t *Target) RealOutputPath() string {
	if t.Names.Real == "" {
		return t.OutputPath()
	}
	return t.filePath(t.Names.Real)
}

// SONamePath returns the path of the shared-object name, or "" when the target has none.
func (t *Target) SONamePath() string {
	if t.Names.SOName == "" {
		return ""
	}
	return t.filePath(t.Names.SOName)
}

// PrimaryOutput returns the node other targets depend on to order after this one.
func (t *Target) PrimaryOutput() string {
	if !t.Kind.IsLinkable() {
		return t.Name.String()
	}
	return t.RealOutputPath()
}

func (t *Target) filePath(name string) string {
	if name == "" {
		name = t.Name.String()
	}
	if t.OutputDir == "" || t.OutputDir == "." {
		return name
	}
	return filepath.ToSlash(filepath.Join(t.OutputDir, name))
}

// Languages returns the distinct compile languages used by the target, in source order.
func (t *Target) Languages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, src := range t.Sources {
		if src.Language == "" || src.HeaderOnly || src.ExternalObject || seen[src.Language] {
			continue
		}
		seen[src.Language] = true
		langs = append(langs, src.Language)
	}
	return langs
}
