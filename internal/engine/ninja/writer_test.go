package ninja_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports/mocks"
	"go.trai.ch/ngen/internal/engine/ninja"
	"go.uber.org/mock/gomock"
)

func newWriter(t *testing.T) (*ninja.Writer, *strings.Builder, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	var buf strings.Builder
	return ninja.NewWriter(&buf, logger), &buf, logger
}

type errorIs struct{ target error }

func (m errorIs) Matches(x any) bool {
	err, ok := x.(error)
	return ok && errors.Is(err, m.target)
}

func (m errorIs) String() string { return "is " + m.target.Error() }

func expectMalformed(logger *mocks.MockLogger) {
	logger.EXPECT().Error(errorIs{domain.ErrMalformedStatement})
}

func TestWriter_Rule(t *testing.T) {
	w, buf, _ := newWriter(t)

	err := w.Rule(ninja.Rule{
		Name:        "C_COMPILER",
		Command:     "cc $DEFINES $FLAGS -MD -MF $DEP_FILE -o $out -c $in",
		Comment:     "Rule for compiling C files.",
		Description: "Building C object $out",
		DepFile:     "$DEP_FILE",
		Restat:      true,
		Vars:        map[string]string{"pool": "console", "deps": "gcc", "empty": "  "},
	})
	require.NoError(t, err)

	want := `# Rule for compiling C files.
rule C_COMPILER
    depfile = $DEP_FILE
    command = cc $DEFINES $FLAGS -MD -MF $DEP_FILE -o $out -c $in
    description = Building C object $out
    restat = 1
    deps = gcc
    pool = console

`
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 1, w.Stats().Rules)
}

func TestWriter_Rule_Malformed(t *testing.T) {
	tests := []struct {
		name string
		rule ninja.Rule
	}{
		{"empty name", ninja.Rule{Command: "cc"}},
		{"empty command", ninja.Rule{Name: "C_COMPILER", Command: "  "}},
		{"line break in command", ninja.Rule{Name: "GEN", Command: "echo a\necho b"}},
		{"line break in description", ninja.Rule{Name: "GEN", Command: "gen", Description: "Generating\nfiles"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, buf, logger := newWriter(t)
			expectMalformed(logger)

			require.NoError(t, w.Rule(tt.rule))
			assert.Empty(t, buf.String())
			assert.Zero(t, w.Stats().Rules)
		})
	}
}

func TestWriter_Build(t *testing.T) {
	w, buf, _ := newWriter(t)

	err := w.Build(ninja.Build{
		Comment:   "Link the executable\nwith its libraries",
		Rule:      "C_EXECUTABLE_LINKER",
		Outputs:   []string{"bin/my app"},
		Explicit:  []string{"a.o", "b.o"},
		Implicit:  []string{"libcore.a"},
		OrderOnly: []string{"gen/config.h"},
		Vars: map[string]string{
			"LINK_FLAGS":     "-Wl,--as-needed",
			"LINK_LIBRARIES": "",
			"FLAGS":          "-O2",
		},
	})
	require.NoError(t, err)

	want := `# Link the executable
# with its libraries
build bin/my$ app: C_EXECUTABLE_LINKER a.o b.o | libcore.a || gen/config.h
    FLAGS = -O2
    LINK_FLAGS = -Wl,--as-needed

`
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 1, w.Stats().Builds)
}

func TestWriter_Build_NoDependencies(t *testing.T) {
	w, buf, _ := newWriter(t)

	require.NoError(t, w.Phony(ninja.Build{Outputs: []string{"ngen.yaml", "ngen_state.json"}}))

	assert.Equal(t, "build ngen.yaml ngen_state.json: phony\n\n", buf.String())
}

func TestWriter_Build_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		build ninja.Build
	}{
		{"empty outputs", ninja.Build{Rule: "phony", Explicit: []string{"a"}}},
		{"empty rule", ninja.Build{Outputs: []string{"a"}, Explicit: []string{"b"}}},
		{"line break in output", ninja.Build{Rule: "phony", Outputs: []string{"a\nb"}}},
		{"line break in order-only input", ninja.Build{Rule: "phony", Outputs: []string{"a"}, OrderOnly: []string{"gen\n"}}},
		{"line break in variable", ninja.Build{Rule: "CUSTOM", Outputs: []string{"a"}, Vars: map[string]string{"COMMAND": "echo a\necho b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, buf, logger := newWriter(t)
			expectMalformed(logger)

			require.NoError(t, w.Build(tt.build))
			assert.Zero(t, buf.Len(), "malformed statements must not reach the output")

			// Writing continues normally afterwards.
			require.NoError(t, w.Phony(ninja.Build{Outputs: []string{"all"}}))
			assert.Equal(t, "build all: phony\n\n", buf.String())
		})
	}
}

func TestWriter_Variable(t *testing.T) {
	t.Run("writes indented binding with comment", func(t *testing.T) {
		w, buf, _ := newWriter(t)

		require.NoError(t, w.Variable("ninja_required_version", "1.5", "Minimal version of Ninja required by this file", 0))
		require.NoError(t, w.Variable("FLAGS", "-g", "", 1))

		assert.Equal(t, "# Minimal version of Ninja required by this file\nninja_required_version = 1.5\n    FLAGS = -g\n", buf.String())
	})

	t.Run("suppresses empty values", func(t *testing.T) {
		for _, value := range []string{"", " ", "\t", " \n "} {
			w, buf, _ := newWriter(t)

			require.NoError(t, w.Variable("FLAGS", value, "comment", 1))
			assert.Empty(t, buf.String(), "value %q", value)
		}
	})

	t.Run("suppresses empty edge variables", func(t *testing.T) {
		w, buf, _ := newWriter(t)

		require.NoError(t, w.Build(ninja.Build{
			Rule:    "CUSTOM_COMMAND",
			Outputs: []string{"out"},
			Vars:    map[string]string{"COMMAND": "   ", "DESC": ""},
		}))
		assert.Equal(t, "build out: CUSTOM_COMMAND\n\n", buf.String())
	})

	t.Run("reports empty name", func(t *testing.T) {
		w, buf, logger := newWriter(t)
		expectMalformed(logger)

		require.NoError(t, w.Variable("", "value", "", 0))
		assert.Empty(t, buf.String())
	})
}

func TestWriter_Statements(t *testing.T) {
	w, buf, _ := newWriter(t)

	require.NoError(t, w.Banner("ngen", "1.2.3", "This file contains all the build statements."))
	require.NoError(t, w.Include("rules.ninja", "Include auxiliary files."))
	require.NoError(t, w.Section("Object build statements for EXECUTABLE target app"))
	require.NoError(t, w.Default("all"))

	want := "# ngen generated file: DO NOT EDIT!\n" +
		"# Generated by ngen version 1.2.3\n" +
		"# This file contains all the build statements.\n" +
		"\n" +
		"# Include auxiliary files.\n" +
		"include rules.ninja\n" +
		"\n" +
		"#" + strings.Repeat("=", 79) + "\n" +
		"# Object build statements for EXECUTABLE target app\n" +
		"default all\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_Comment(t *testing.T) {
	w, buf, _ := newWriter(t)

	require.NoError(t, w.Comment("first\n\n  indented  \nlast"))

	assert.Equal(t, "# first\n#\n#   indented\n# last\n", buf.String())
}

func TestWriter_LineBreaksAreRejected(t *testing.T) {
	w, buf, logger := newWriter(t)
	logger.EXPECT().Error(errorIs{domain.ErrMalformedStatement}).Times(3)

	require.NoError(t, w.Variable("FLAGS", "-O2\n-g", "", 0))
	require.NoError(t, w.Include("rules\n.ninja", ""))
	require.NoError(t, w.Default("all\n"))
	assert.Empty(t, buf.String())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a$ b$:c$$d", ninja.EscapePath("a b:c$d"))
	assert.Equal(t, "echo $$HOME", ninja.EscapeCommand("echo $HOME"))
	assert.Equal(t, "a\nb", ninja.EscapePath("a\nb"), "line breaks are left for the writer to reject")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_StreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := ninja.NewWriter(failingWriter{}, mocks.NewMockLogger(ctrl))

	err := w.Phony(ninja.Build{Outputs: []string{"all"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, w.Stats().Builds)
}
