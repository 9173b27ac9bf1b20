package ports

import "go.trai.ch/ngen/internal/core/domain"

// CommandResolver returns the raw command templates of a toolchain.
// Templates are already expanded to the edge-variable placeholders ($in, $out, $FLAGS, ...).
type CommandResolver interface {
	// Template returns the template for the given language and operation, if defined.
	Template(lang string, op domain.Operation) (string, bool)

	// RequiredTemplate returns the template or fails with domain.ErrMissingDefinition.
	RequiredTemplate(lang string, op domain.Operation) (string, error)
}

// FlagsResolver returns the expanded flag strings bound on build edges.
// The returned text is opaque to the generator.
type FlagsResolver interface {
	// CompileFlags returns the flags for compiling src as lang within target.
	CompileFlags(target *domain.Target, src *domain.SourceFile, lang string) string

	// Defines returns the preprocessor definitions for lang within target.
	Defines(target *domain.Target, lang string) string

	// LinkFlags returns the link flags for target linked by lang.
	LinkFlags(target *domain.Target, lang string) string

	// LinkLibraries returns the libraries appended to the link command line.
	LinkLibraries(target *domain.Target) string
}

// Toolchain combines command and flag resolution for one project.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	CommandResolver
	FlagsResolver
}

// ToolchainFactory builds the toolchain of a loaded project.
type ToolchainFactory interface {
	New(project *domain.Project) (Toolchain, error)
}
