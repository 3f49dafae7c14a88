package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestEnvironment(t *testing.T) {
	env := NewTestEnvironment(t)

	assert.Equal(t, env.HomeDir, os.Getenv("HOME"))
	assert.Equal(t, env.HomeDir, env.Ctx.Home)
	assert.Equal(t, env.SysRoot, env.Ctx.RootDir)
	assert.DirExists(t, env.SourceDir)
	assert.Equal(t, filepath.Join(env.StateDir, "dots", "trackfile.toml"), env.TrackfilePath())
}

func TestFileTreeAndAssertions(t *testing.T) {
	env := NewTestEnvironment(t)
	env.WithSourceTree(FileTree{
		"home/.bashrc":  "export A=1",
		"home/.config/": "",
	})

	AssertFileContent(t, env.SourcePath("home/.bashrc"), "export A=1")
	assert.DirExists(t, env.SourcePath("home/.config"))

	link := env.HomePath(".bashrc")
	env.Symlink(env.SourcePath("home/.bashrc"), link)
	AssertSymlink(t, link, env.SourcePath("home/.bashrc"))

	require.NoError(t, os.Remove(link))
	AssertAbsent(t, link)
}
