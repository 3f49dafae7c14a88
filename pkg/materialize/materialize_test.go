package materialize

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/testutil"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	t     *testing.T
	tree  testutil.FileTree
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url, dir string) error {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return f.err
	}
	testutil.CreateFileTree(f.t, dir, f.tree)
	return nil
}

func newMaterializer(env *testutil.TestEnvironment) *Local {
	return New(env.FS, filepath.Join(env.CacheDir, "repos"), "dev")
}

func TestMaterialize_PlainDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WithSourceTree(testutil.FileTree{"home/.bashrc": ""})

	tree, err := newMaterializer(env).Materialize(context.Background(), types.NewSourceSpec(env.SourceDir))
	require.NoError(t, err)
	assert.Equal(t, env.SourceDir, tree.Root)
	assert.False(t, tree.IsComposition())
}

func TestMaterialize_Missing(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := newMaterializer(env).Materialize(context.Background(), types.NewSourceSpec(filepath.Join(env.Root, "nope")))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}

func TestMaterialize_DirectoryWithComposition(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	shared := env.NewSource("shared", testutil.FileTree{"home/.vimrc": ""})
	env.WithSourceTree(testutil.FileTree{
		"dots.toml":    fmt.Sprintf("[[dotfiles]]\npath = %q\nreplace = false\n", shared),
		"home/.bashrc": "",
	})

	tree, err := newMaterializer(env).Materialize(context.Background(), types.NewSourceSpec(env.SourceDir))
	require.NoError(t, err)
	require.True(t, tree.IsComposition())
	require.Len(t, tree.Specs, 2)

	assert.Equal(t, env.SourceDir, tree.Specs[0].Path)
	assert.True(t, tree.Specs[0].Plain)
	assert.Equal(t, shared, tree.Specs[1].Path)
	assert.False(t, tree.Specs[1].Replace)
}

func TestMaterialize_PlainSpecIgnoresComposition(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WithSourceTree(testutil.FileTree{"dots.toml": "[[dotfiles]]\npath = \".\"\n"})

	spec := types.NewSourceSpec(env.SourceDir)
	spec.Plain = true
	tree, err := newMaterializer(env).Materialize(context.Background(), spec)
	require.NoError(t, err)
	assert.False(t, tree.IsComposition())
}

func TestMaterialize_CompositionFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WithSourceTree(testutil.FileTree{
		"profiles/work.yaml": "dotfiles:\n  - path: ..\n  - path: ../extra\n",
		"extra/":             "",
	})

	tree, err := newMaterializer(env).Materialize(context.Background(), types.NewSourceSpec(env.SourcePath("profiles/work.yaml")))
	require.NoError(t, err)
	require.True(t, tree.IsComposition())
	require.Len(t, tree.Specs, 2, "no implicit self entry for explicit files")
	assert.Equal(t, env.SourceDir, tree.Specs[0].Path)
	assert.False(t, tree.Specs[0].Plain)
	assert.Equal(t, env.SourcePath("extra"), tree.Specs[1].Path)
}

func TestMaterialize_InvalidComposition(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WithSourceTree(testutil.FileTree{"dots.toml": "[[dotfiles]]\nreplace = 1\n"})

	_, err := newMaterializer(env).Materialize(context.Background(), types.NewSourceSpec(env.SourceDir))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidEntry))
}

func TestMaterialize_NotACompositionFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WithSourceTree(testutil.FileTree{"notes.txt": ""})

	_, err := newMaterializer(env).Materialize(context.Background(), types.NewSourceSpec(env.SourcePath("notes.txt")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}

func TestMaterialize_Remote(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	fetcher := &fakeFetcher{t: t, tree: testutil.FileTree{"home/.gitconfig": ""}}
	m := newMaterializer(env).WithFetcher(fetcher)

	url := "https://example.org/me/dots.git"
	tree, err := m.Materialize(context.Background(), types.NewSourceSpec(url))
	require.NoError(t, err)

	assert.Equal(t, []string{url}, fetcher.calls)
	assert.Equal(t, m.CacheDir(url), tree.Root)
	assert.FileExists(t, filepath.Join(tree.Root, "home", ".gitconfig"))
	assert.Equal(t, m.CacheDir(url), m.CacheDir(url), "cache location is stable")
	assert.NotEqual(t, m.CacheDir(url), m.CacheDir(url+"x"))
}

func TestMaterialize_RemoteFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m := newMaterializer(env).WithFetcher(&fakeFetcher{t: t, err: fmt.Errorf("network down")})

	_, err := m.Materialize(context.Background(), types.NewSourceSpec("git@example.org:me/dots.git"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceUnavailable))
}

func TestGitFetcher_BadURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clone")
	err := NewGitFetcher().Fetch(context.Background(), "file:///definitely/not/a/repo", dir)
	assert.Error(t, err)
	assert.NoDirExists(t, dir)
}
