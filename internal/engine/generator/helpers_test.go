package generator_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/adapters/telemetry"
	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports/mocks"
	"go.trai.ch/ngen/internal/engine/generator"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var templates = map[string]map[domain.Operation]string{
	"C": {
		domain.OpCompileObject:       "cc $DEFINES $FLAGS -MD -MF $DEP_FILE -o $out -c $in",
		domain.OpLinkExecutable:      "cc $FLAGS $LINK_FLAGS $in -o $out $LINK_LIBRARIES",
		domain.OpCreateSharedLibrary: "cc $FLAGS -shared -Wl,-soname,$SONAME $LINK_FLAGS $in -o $out $LINK_LIBRARIES",
		domain.OpArchiveCreate:       "ar qc $out $in",
		domain.OpArchiveFinish:       "ranlib $out",
	},
	"CXX": {
		domain.OpCompileObject:       "c++ $DEFINES $FLAGS -o $out -c $in",
		domain.OpCreateStaticLibrary: "ar rcs $out $in",
	},
}

type harness struct {
	ctrl      *gomock.Controller
	logger    *mocks.MockLogger
	toolchain *mocks.MockToolchain
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	tc := mocks.NewMockToolchain(ctrl)
	tc.EXPECT().Template(gomock.Any(), gomock.Any()).DoAndReturn(func(lang string, op domain.Operation) (string, bool) {
		cmd, ok := templates[lang][op]
		return cmd, ok
	}).AnyTimes()
	tc.EXPECT().RequiredTemplate(gomock.Any(), gomock.Any()).DoAndReturn(func(lang string, op domain.Operation) (string, error) {
		cmd, ok := templates[lang][op]
		if !ok {
			err := zerr.With(zerr.Wrap(domain.ErrMissingDefinition, "resolve template"), "language", lang)
			return "", zerr.With(err, "operation", string(op))
		}
		return cmd, nil
	}).AnyTimes()
	tc.EXPECT().CompileFlags(gomock.Any(), gomock.Any(), gomock.Any()).Return("-O2").AnyTimes()
	tc.EXPECT().Defines(gomock.Any(), gomock.Any()).Return("").AnyTimes()
	tc.EXPECT().LinkFlags(gomock.Any(), gomock.Any()).Return("").AnyTimes()
	tc.EXPECT().LinkLibraries(gomock.Any()).DoAndReturn(func(target *domain.Target) string {
		return strings.Join(target.LinkItems, " ")
	}).AnyTimes()

	return &harness{ctrl: ctrl, logger: logger, toolchain: tc}
}

type output struct {
	rules  string
	build  string
	result generator.Result
	err    error
}

func (h *harness) generate(t *testing.T, p *domain.Project, opts generator.Options) output {
	t.Helper()
	require.NoError(t, p.Graph.Validate())

	var rules, build strings.Builder
	gen := generator.New(h.logger, telemetry.NewNoOpTracer())
	result, err := gen.Generate(context.Background(), p, h.toolchain, &rules, &build, opts)
	return output{rules: rules.String(), build: build.String(), result: result, err: err}
}

func newProject() *domain.Project {
	p := domain.NewProject("demo", "/src", "/src/build")
	p.ListFiles = []string{"/src/ngen.yaml"}
	p.StateFile = "ngen_state.json"
	p.RegenerateCommand = "ngen generate --regenerate --build-dir ."
	p.ToolCommand = "ngen"
	return p
}

func addTarget(t *testing.T, p *domain.Project, target *domain.Target) *domain.Target {
	t.Helper()
	require.NoError(t, p.Graph.AddTarget(target))
	return target
}

func cSources(paths ...string) []*domain.SourceFile {
	srcs := make([]*domain.SourceFile, len(paths))
	for i, path := range paths {
		srcs[i] = &domain.SourceFile{Path: path, Language: "C"}
	}
	return srcs
}

func executable(name string, srcs ...*domain.SourceFile) *domain.Target {
	return &domain.Target{
		Name:         domain.NewInternedString(name),
		Kind:         domain.KindExecutable,
		Sources:      srcs,
		LinkLanguage: "C",
		Names:        domain.OutputNames{Out: name, Real: name},
	}
}

func staticLibrary(name string, srcs ...*domain.SourceFile) *domain.Target {
	return &domain.Target{
		Name:         domain.NewInternedString(name),
		Kind:         domain.KindStaticLibrary,
		Sources:      srcs,
		LinkLanguage: "C",
		Names:        domain.OutputNames{Out: "lib" + name + ".a", Real: "lib" + name + ".a"},
	}
}

func utility(name string, cmds ...*domain.CustomCommand) *domain.Target {
	return &domain.Target{
		Name:      domain.NewInternedString(name),
		Kind:      domain.KindUtility,
		PostBuild: cmds,
	}
}

// statement is a parsed build statement.
type statement struct {
	outputs   []string
	rule      string
	explicit  []string
	implicit  []string
	orderOnly []string
	vars      map[string]string
}

// parseBuilds reads the build statements of a generated file. Paths in the
// fixtures never contain spaces or colons.
func parseBuilds(t *testing.T, text string) []statement {
	t.Helper()
	var stmts []statement
	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "build "):
			head, tail, ok := strings.Cut(strings.TrimPrefix(line, "build "), ":")
			require.True(t, ok, "malformed build line %q", line)
			fields := strings.Fields(tail)
			require.NotEmpty(t, fields, "build line without rule %q", line)

			stmt := statement{outputs: strings.Fields(head), rule: fields[0], vars: map[string]string{}}
			list := &stmt.explicit
			for _, f := range fields[1:] {
				switch f {
				case "|":
					list = &stmt.implicit
				case "||":
					list = &stmt.orderOnly
				default:
					*list = append(*list, f)
				}
			}
			stmts = append(stmts, stmt)
		case strings.HasPrefix(line, "    ") && len(stmts) > 0:
			key, value, ok := strings.Cut(strings.TrimPrefix(line, "    "), " = ")
			require.True(t, ok, "malformed variable line %q", line)
			stmts[len(stmts)-1].vars[key] = value
		}
	}
	return stmts
}

func findOutput(stmts []statement, out string) (statement, bool) {
	for _, s := range stmts {
		if slices.Contains(s.outputs, out) {
			return s, true
		}
	}
	return statement{}, false
}

func withRule(stmts []statement, rule string) []statement {
	var res []statement
	for _, s := range stmts {
		if s.rule == rule {
			res = append(res, s)
		}
	}
	return res
}

func countRuleBlocks(text, name string) int {
	count := 0
	for line := range strings.Lines(text) {
		if strings.TrimRight(line, "\n") == "rule "+name {
			count++
		}
	}
	return count
}
