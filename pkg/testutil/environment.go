// pkg/testutil/environment.go
// DEPENDENCIES: pkg/filesystem, pkg/types
// PURPOSE: Orchestrate isolated test environments

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/spf13/afero"
)

// TestEnvironment provides a complete isolated environment
type TestEnvironment struct {
	// Core paths
	Root      string
	SourceDir string
	HomeDir   string
	SysRoot   string
	StateDir  string
	CacheDir  string
	ConfigDir string

	// Core dependencies
	Afero afero.Fs
	FS    types.FS
	Ctx   types.RuntimeContext

	t *testing.T
}

// NewTestEnvironment creates a new isolated environment and points HOME
// and the XDG variables at it
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	// macOS temp dirs live behind a /var -> /private/var symlink
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	env := &TestEnvironment{
		Root:      root,
		SourceDir: filepath.Join(root, "dotfiles"),
		HomeDir:   filepath.Join(root, "home"),
		SysRoot:   filepath.Join(root, "sysroot"),
		StateDir:  filepath.Join(root, "state"),
		CacheDir:  filepath.Join(root, "cache"),
		ConfigDir: filepath.Join(root, "config"),
		Afero:     afero.NewOsFs(),
		t:         t,
	}
	env.FS = filesystem.NewAferoFS(env.Afero)

	for _, dir := range []string{env.SourceDir, env.HomeDir, env.SysRoot, env.StateDir, env.CacheDir, env.ConfigDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_STATE_HOME", env.StateDir)
	t.Setenv("XDG_CACHE_HOME", env.CacheDir)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigDir)
	t.Setenv("DOTS_STATE_DIR", filepath.Join(env.StateDir, "dots"))
	t.Setenv("DOTS_CACHE_DIR", filepath.Join(env.CacheDir, "dots"))
	t.Setenv("DOTS_CONFIG_DIR", filepath.Join(env.ConfigDir, "dots"))

	env.Ctx = types.RuntimeContext{
		OS:      "testos",
		User:    "tester",
		Home:    env.HomeDir,
		RootDir: env.SysRoot,
	}
	return env
}

// TrackfilePath returns the trackfile location inside the environment
func (env *TestEnvironment) TrackfilePath() string {
	return filepath.Join(env.StateDir, "dots", "trackfile.toml")
}

// SourcePath returns the absolute path of rel in the source tree
func (env *TestEnvironment) SourcePath(rel string) string {
	return filepath.Join(env.SourceDir, filepath.FromSlash(rel))
}

// HomePath returns the absolute path of rel in the home directory
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, filepath.FromSlash(rel))
}

// WithSourceTree creates files in the source tree
func (env *TestEnvironment) WithSourceTree(tree FileTree) {
	env.t.Helper()
	CreateFileTree(env.t, env.SourceDir, tree)
}

// NewSource creates a separate source tree named name under the root
func (env *TestEnvironment) NewSource(name string, tree FileTree) string {
	env.t.Helper()
	dir := filepath.Join(env.Root, name)
	CreateFileTree(env.t, dir, tree)
	return dir
}

// WriteFile writes content at an absolute path, creating parents
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// Symlink creates link pointing to dest, creating parents
func (env *TestEnvironment) Symlink(dest, link string) {
	env.t.Helper()
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", link, err)
	}
	if err := os.Symlink(dest, link); err != nil {
		env.t.Fatalf("Failed to create symlink %s: %v", link, err)
	}
}
