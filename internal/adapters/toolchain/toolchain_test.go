package toolchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/adapters/toolchain"
	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/zerr"
)

func languages() map[string]domain.Language {
	return map[string]domain.Language{
		"C": {
			Name:       "C",
			Extensions: []string{"c"},
			Commands: map[domain.Operation]string{
				domain.OpCompileObject:  "cc <DEFINES> <FLAGS> -MD -MF <DEP_FILE> -c <SOURCE> -o <OBJECT>",
				domain.OpLinkExecutable: "cc <FLAGS> <LINK_FLAGS> <OBJECTS> -o <TARGET> <LINK_LIBRARIES>",
				domain.OpArchiveCreate:  "   ",
			},
			Flags:       "-O2",
			SharedFlags: "-fPIC",
			LinkFlags:   "-Wl,--as-needed",
		},
	}
}

func TestExpand(t *testing.T) {
	assert.Equal(t,
		"cc $FLAGS -shared -Wl,-soname,$SONAME $in -o $out $LINK_LIBRARIES",
		toolchain.Expand("cc <FLAGS> -shared -Wl,-soname,<SONAME> <OBJECTS> -o <TARGET> <LINK_LIBRARIES>"),
	)
}

func TestToolchain_Templates(t *testing.T) {
	tc := toolchain.New(languages())

	cmd, ok := tc.Template("C", domain.OpCompileObject)
	require.True(t, ok)
	assert.Equal(t, "cc $DEFINES $FLAGS -MD -MF $DEP_FILE -c $in -o $out", cmd)

	_, ok = tc.Template("C", domain.OpArchiveCreate)
	assert.False(t, ok, "blank templates count as undefined")

	_, ok = tc.Template("Fortran", domain.OpCompileObject)
	assert.False(t, ok)

	cmd, err := tc.RequiredTemplate("C", domain.OpLinkExecutable)
	require.NoError(t, err)
	assert.Equal(t, "cc $FLAGS $LINK_FLAGS $in -o $out $LINK_LIBRARIES", cmd)
}

func TestToolchain_RequiredTemplateMissing(t *testing.T) {
	tc := toolchain.New(languages())

	_, err := tc.RequiredTemplate("C", domain.OpCreateSharedLibrary)
	require.ErrorIs(t, err, domain.ErrMissingDefinition)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "C", zErr.Metadata()["language"])
	assert.Equal(t, "CREATE_SHARED_LIBRARY", zErr.Metadata()["operation"])
}

func TestToolchain_Flags(t *testing.T) {
	tc := toolchain.New(languages())

	exe := &domain.Target{
		Name:              domain.NewInternedString("app"),
		Kind:              domain.KindExecutable,
		CompileFlags:      []string{"-Wall", " "},
		LinkFlags:         []string{"-pthread"},
		Defines:           []string{"NDEBUG", "VERSION=2", ""},
		LinkItems:         []string{"libcore.a"},
		ExternalLibraries: []string{"-lm"},
	}
	assert.Equal(t, "-O2 -Wall", tc.CompileFlags(exe, nil, "C"))
	assert.Equal(t, "-DNDEBUG -DVERSION=2", tc.Defines(exe, "C"))
	assert.Equal(t, "-Wl,--as-needed -pthread", tc.LinkFlags(exe, "C"))
	assert.Equal(t, "libcore.a -lm", tc.LinkLibraries(exe))

	shared := &domain.Target{Name: domain.NewInternedString("core"), Kind: domain.KindSharedLibrary}
	assert.Equal(t, "-O2 -fPIC", tc.CompileFlags(shared, nil, "C"))

	assert.Empty(t, tc.CompileFlags(&domain.Target{Kind: domain.KindExecutable}, nil, "Fortran"))
	assert.Empty(t, tc.Defines(&domain.Target{}, "C"))
}

func TestFactory_New(t *testing.T) {
	project := domain.NewProject("demo", "/src", "/src/build")
	project.Toolchain = languages()

	tc, err := toolchain.NewFactory().New(project)
	require.NoError(t, err)
	_, ok := tc.Template("C", domain.OpCompileObject)
	assert.True(t, ok)

	_, err = toolchain.NewFactory().New(nil)
	require.ErrorIs(t, err, domain.ErrInvalidProject)
}
