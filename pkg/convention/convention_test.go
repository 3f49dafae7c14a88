package convention

import (
	"testing"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirs(prefixes []Prefix) []string {
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p.Dir
	}
	return out
}

func TestApplicablePrefixes(t *testing.T) {
	tests := []struct {
		name string
		ctx  types.RuntimeContext
		want []string
	}{
		{
			name: "bare context",
			ctx:  types.RuntimeContext{},
			want: []string{"root", "home"},
		},
		{
			name: "os and user",
			ctx:  types.RuntimeContext{OS: "arch", User: "ana"},
			want: []string{"root", "home", "os/arch/root", "os/arch/home", "user/ana/root", "user/ana/home"},
		},
		{
			name: "guix home without name",
			ctx: types.RuntimeContext{OS: "arch", Managers: []types.HomeManager{
				{Kind: "guix", Scope: types.ScopeHome},
			}},
			want: []string{"root", "home", "os/arch/root", "os/arch/home", "guix/root", "guix/home"},
		},
		{
			name: "guix home with name",
			ctx: types.RuntimeContext{Managers: []types.HomeManager{
				{Kind: "guix", Scope: types.ScopeHome, Name: "work"},
			}},
			want: []string{"root", "home", "guix/root", "guix/home", "guix/user/work/root", "guix/user/work/home"},
		},
		{
			name: "nix system without name adds nothing",
			ctx: types.RuntimeContext{Managers: []types.HomeManager{
				{Kind: "nix", Scope: types.ScopeSystem},
			}},
			want: []string{"root", "home"},
		},
		{
			name: "nix system with name",
			ctx: types.RuntimeContext{Managers: []types.HomeManager{
				{Kind: "nix", Scope: types.ScopeSystem, Name: "box"},
			}},
			want: []string{"root", "home", "nix/os/box/root", "nix/os/box/home"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dirs(ApplicablePrefixes(tt.ctx)))
		})
	}
}

func TestApplicablePrefixes_Leaves(t *testing.T) {
	for _, p := range ApplicablePrefixes(types.RuntimeContext{OS: "arch", User: "ana"}) {
		assert.Contains(t, []string{LeafRoot, LeafHome}, p.Leaf)
		assert.True(t, len(p.Dir) >= len(p.Leaf) && p.Dir[len(p.Dir)-len(p.Leaf):] == p.Leaf)
	}
}

func TestTargetRoot(t *testing.T) {
	ctx := types.RuntimeContext{Home: "/home/ana"}
	assert.Equal(t, "/home/ana", Prefix{Dir: "home", Leaf: LeafHome}.TargetRoot(ctx))
	assert.Equal(t, "/", Prefix{Dir: "root", Leaf: LeafRoot}.TargetRoot(ctx))

	ctx.RootDir = "/tmp/sysroot"
	assert.Equal(t, "/tmp/sysroot", Prefix{Dir: "root", Leaf: LeafRoot}.TargetRoot(ctx))
}

func TestNormalizeInclude(t *testing.T) {
	ctx := types.RuntimeContext{
		OS:   "arch",
		User: "ana",
		Managers: []types.HomeManager{
			{Kind: "guix", Scope: types.ScopeHome, Name: "work"},
			{Kind: "nix", Scope: types.ScopeSystem},
		},
	}

	tests := []struct {
		entry   string
		want    string
		wantErr bool
	}{
		{entry: "home/.bashrc", want: "home/.bashrc"},
		{entry: "./home/.config/", want: "home/.config"},
		{entry: "os/@/home", want: "os/arch/home"},
		{entry: "user/@", want: "user/ana"},
		{entry: "guix/user/@/home", want: "guix/user/work/home"},
		{entry: "nix/os/@", wantErr: true},
		{entry: "home/@", wantErr: true},
		{entry: "dotfiles/.bashrc", wantErr: true},
		{entry: "/etc/hosts", wantErr: true},
		{entry: "../home", wantErr: true},
		{entry: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got, err := NormalizeInclude(tt.entry, ctx)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidEntry))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeExclude(t *testing.T) {
	ctx := types.RuntimeContext{OS: "arch"}

	got, err := NormalizeExclude("extras/gitconfig", ctx)
	require.NoError(t, err)
	assert.Equal(t, "extras/gitconfig", got)

	got, err = NormalizeExclude("os/@/home/.cache", ctx)
	require.NoError(t, err)
	assert.Equal(t, "os/arch/home/.cache", got)

	_, err = NormalizeExclude("../outside", ctx)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidEntry))
}
