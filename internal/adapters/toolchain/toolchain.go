// Package toolchain resolves command templates and flags from the languages
// declared in a project description.
package toolchain

import (
	"slices"
	"strings"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Toolchain        = (*Toolchain)(nil)
	_ ports.ToolchainFactory = (*Factory)(nil)
)

// placeholders maps description-file placeholders to edge variables.
var placeholders = strings.NewReplacer(
	"<SOURCE>", "$in",
	"<OBJECTS>", "$in",
	"<OBJECT>", "$out",
	"<TARGET>", "$out",
	"<FLAGS>", "$FLAGS",
	"<DEFINES>", "$DEFINES",
	"<LINK_FLAGS>", "$LINK_FLAGS",
	"<LINK_LIBRARIES>", "$LINK_LIBRARIES",
	"<SONAME>", "$SONAME",
	"<DEP_FILE>", "$DEP_FILE",
)

// Expand replaces description-file placeholders with edge variables.
func Expand(template string) string {
	return placeholders.Replace(template)
}

// Factory builds toolchains for loaded projects.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// New builds the toolchain of project.
func (f *Factory) New(project *domain.Project) (ports.Toolchain, error) {
	if project == nil {
		return nil, zerr.Wrap(domain.ErrInvalidProject, "build toolchain")
	}
	return New(project.Toolchain), nil
}

// Toolchain implements ports.Toolchain over a fixed set of languages.
type Toolchain struct {
	languages map[string]domain.Language
	commands  map[string]map[domain.Operation]string
}

// New creates a Toolchain. Command templates are expanded once up front.
func New(languages map[string]domain.Language) *Toolchain {
	commands := make(map[string]map[domain.Operation]string, len(languages))
	for name, lang := range languages {
		expanded := make(map[domain.Operation]string, len(lang.Commands))
		for op, tmpl := range lang.Commands {
			if tmpl = strings.TrimSpace(tmpl); tmpl != "" {
				expanded[op] = Expand(tmpl)
			}
		}
		commands[name] = expanded
	}
	return &Toolchain{languages: languages, commands: commands}
}

// Template returns the template for the given language and operation, if defined.
func (t *Toolchain) Template(lang string, op domain.Operation) (string, bool) {
	cmd, ok := t.commands[lang][op]
	return cmd, ok
}

// RequiredTemplate returns the template or fails with domain.ErrMissingDefinition.
func (t *Toolchain) RequiredTemplate(lang string, op domain.Operation) (string, error) {
	if cmd, ok := t.Template(lang, op); ok {
		return cmd, nil
	}
	err := zerr.With(zerr.Wrap(domain.ErrMissingDefinition, "resolve command template"), "language", lang)
	return "", zerr.With(err, "operation", string(op))
}

// CompileFlags returns the language flags, the shared-object flags for shared
// libraries, then the target's own compile flags.
func (t *Toolchain) CompileFlags(target *domain.Target, _ *domain.SourceFile, lang string) string {
	settings := t.languages[lang]
	parts := []string{settings.Flags}
	if target.Kind == domain.KindSharedLibrary {
		parts = append(parts, settings.SharedFlags)
	}
	parts = append(parts, target.CompileFlags...)
	return join(parts)
}

// Defines renders the target's definitions as -D flags.
func (t *Toolchain) Defines(target *domain.Target, _ string) string {
	parts := make([]string, 0, len(target.Defines))
	for _, def := range target.Defines {
		if def = strings.TrimSpace(def); def != "" {
			parts = append(parts, "-D"+def)
		}
	}
	return join(parts)
}

// LinkFlags returns the language link flags followed by the target's own.
func (t *Toolchain) LinkFlags(target *domain.Target, lang string) string {
	parts := append([]string{t.languages[lang].LinkFlags}, target.LinkFlags...)
	return join(parts)
}

// LinkLibraries returns the resolved link items in link order, then the
// external libraries.
func (t *Toolchain) LinkLibraries(target *domain.Target) string {
	return join(append(slices.Clone(target.LinkItems), target.ExternalLibraries...))
}

func join(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
