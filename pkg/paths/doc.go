// Package paths provides centralized path handling for dots.
//
// It resolves the XDG base directories used by the tool and expands user
// supplied paths.
//
// # Environment Variables
//
//   - DOTS_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/dots)
//   - DOTS_STATE_DIR: Override XDG state directory (default: $XDG_STATE_HOME/dots)
//   - DOTS_CACHE_DIR: Override XDG cache directory (default: $XDG_CACHE_HOME/dots)
//
// The trackfile lives in the state directory; cloned repositories live in
// the cache directory under repos/.
package paths
