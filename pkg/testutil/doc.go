// Package testutil provides utilities for testing dots components.
//
// Key components:
//   - TestEnvironment: an isolated temp-directory layout with a source tree,
//     a home directory, a system root and XDG state/cache directories
//   - FileTree: declarative file creation
//   - Assertions for symlinks and file state on the real filesystem
//
// Symlinks need the OS filesystem, so environments live under t.TempDir()
// rather than in memory. Each test is isolated with no shared state.
package testutil
