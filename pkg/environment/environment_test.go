package environment

import (
	"testing"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestProbe_OSRelease(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, OSReleasePath, []byte("NAME=\"Guix System\"\nID=guix\nPRETTY_NAME=\"Guix System\"\n"), 0644))

	p := NewProber(fs).WithGetenv(fakeEnv(map[string]string{
		"USER":          "ana",
		"HOME":          "/home/ana",
		EnvSystemName:   "laptop",
	}))
	ctx, err := p.Probe(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "guix", ctx.OS)
	assert.Equal(t, "ana", ctx.User)
	assert.Equal(t, "/home/ana", ctx.Home)
	assert.Equal(t, "/", ctx.RootDir)
	require.Len(t, ctx.Managers, 1)
	assert.Equal(t, types.HomeManager{Kind: "guix", Scope: types.ScopeSystem, Name: "laptop"}, ctx.Managers[0])
}

func TestProbe_QuotedID(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, OSReleasePath, []byte("ID=\"nixos\"\n"), 0644))

	ctx, err := NewProber(fs).WithGetenv(fakeEnv(map[string]string{"HOME": "/h", "USER": "u"})).Probe(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "nixos", ctx.OS)
	_, ok := ctx.Manager(types.ManagerNix, types.ScopeSystem)
	assert.True(t, ok)
}

func TestProbe_HomeManagers(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/ana/.guix-home", 0755))
	require.NoError(t, fs.MkdirAll("/home/ana/.nix-profile", 0755))

	ctx, err := NewProber(fs).WithGetenv(fakeEnv(map[string]string{
		"HOME":      "/home/ana",
		"USER":      "ana",
		EnvHomeName: "work",
	})).Probe(Overrides{OS: "arch"})
	require.NoError(t, err)

	assert.Equal(t, "arch", ctx.OS)
	require.Len(t, ctx.Managers, 2)
	assert.Equal(t, types.HomeManager{Kind: "guix", Scope: types.ScopeHome, Name: "work"}, ctx.Managers[0])
	assert.Equal(t, types.HomeManager{Kind: "nix", Scope: types.ScopeHome, Name: "work"}, ctx.Managers[1])
}

func TestProbe_Overrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/ana/.guix-home", 0755))

	ctx, err := NewProber(fs).WithGetenv(fakeEnv(map[string]string{"HOME": "/home/ana", "USER": "ana"})).
		Probe(Overrides{OS: "debian", User: "bob", SystemName: "box", Managers: []string{"nix:system"}})
	require.NoError(t, err)

	assert.Equal(t, "bob", ctx.User)
	require.Len(t, ctx.Managers, 1)
	assert.Equal(t, types.HomeManager{Kind: "nix", Scope: types.ScopeSystem, Name: "box"}, ctx.Managers[0])
}

func TestProbe_EnvNameBeatsConfig(t *testing.T) {
	ctx, err := NewProber(afero.NewMemMapFs()).WithGetenv(fakeEnv(map[string]string{
		"HOME": "/h", "USER": "u", EnvHomeName: "from-env",
	})).Probe(Overrides{OS: "x", HomeName: "from-config", Managers: []string{"guix"}})
	require.NoError(t, err)
	assert.Equal(t, "from-env", ctx.Managers[0].Name)
}

func TestParseManagers(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []types.HomeManager
		wantErr bool
	}{
		{"kind only", []string{"guix"}, []types.HomeManager{{Kind: "guix", Scope: types.ScopeHome}}, false},
		{"with scope", []string{"NIX:system"}, []types.HomeManager{{Kind: "nix", Scope: types.ScopeSystem}}, false},
		{"unknown kind", []string{"brew"}, nil, true},
		{"unknown scope", []string{"guix:galaxy"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManagers(tt.input)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "guix:home", String(types.HomeManager{Kind: "guix", Scope: types.ScopeHome}))
	assert.Equal(t, "nix:system:box", String(types.HomeManager{Kind: "nix", Scope: types.ScopeSystem, Name: "box"}))
}
