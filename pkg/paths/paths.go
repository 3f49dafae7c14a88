package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dots/pkg/errors"
)

// Environment variable names
const (
	EnvDotsConfigDir = "DOTS_CONFIG_DIR"
	EnvDotsStateDir  = "DOTS_STATE_DIR"
	EnvDotsCacheDir  = "DOTS_CACHE_DIR"
	EnvHome          = "HOME"
)

// Fixed names inside the XDG directories
const (
	DirName           = "dots"
	ConfigFileName    = "config.toml"
	TrackfileFileName = "trackfile.toml"
	ReposDirName      = "repos"
	LogFileName       = "dots.log"
)

// Paths provides the tool's directory layout
type Paths interface {
	ConfigDir() string
	StateDir() string
	CacheDir() string
	ConfigFilePath() string
	TrackfilePath() string
	LogFilePath() string
}

type paths struct {
	config string
	state  string
	cache  string
}

// New resolves the directory layout from the environment
func New() Paths {
	xdg.Reload()

	p := &paths{
		config: filepath.Join(xdg.ConfigHome, DirName),
		state:  filepath.Join(xdg.StateHome, DirName),
		cache:  filepath.Join(xdg.CacheHome, DirName),
	}
	if dir := os.Getenv(EnvDotsConfigDir); dir != "" {
		p.config = ExpandHome(dir)
	}
	if dir := os.Getenv(EnvDotsStateDir); dir != "" {
		p.state = ExpandHome(dir)
	}
	if dir := os.Getenv(EnvDotsCacheDir); dir != "" {
		p.cache = ExpandHome(dir)
	}
	return p
}

func (p *paths) ConfigDir() string      { return p.config }
func (p *paths) StateDir() string       { return p.state }
func (p *paths) CacheDir() string       { return p.cache }
func (p *paths) ConfigFilePath() string { return filepath.Join(p.config, ConfigFileName) }
func (p *paths) TrackfilePath() string  { return filepath.Join(p.state, TrackfileFileName) }
func (p *paths) LogFilePath() string    { return filepath.Join(p.state, LogFileName) }

// homeDir returns the user's home, preferring $HOME so tests can redirect it
func homeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// ExpandHome expands a leading ~ or ~/ to the home directory.
// ~user forms are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	home := homeDir()
	if home == "" {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ExpandPath expands ~ and $VAR references
func ExpandPath(path string) string {
	return os.ExpandEnv(ExpandHome(path))
}

// ExpandAbs expands path and makes it absolute relative to base.
// An empty base means the current working directory.
func ExpandAbs(path, base string) (string, error) {
	expanded := ExpandPath(path)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	if base == "" {
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
		}
		return abs, nil
	}
	return filepath.Join(base, expanded), nil
}

// IsWithin reports whether path equals root or lies below it.
// Both are compared in cleaned form.
func IsWithin(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
