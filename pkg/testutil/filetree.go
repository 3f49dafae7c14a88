package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FileTree maps slash-separated relative paths to file contents. A path
// ending in "/" creates an empty directory.
type FileTree map[string]string

// CreateFileTree materializes tree under root
func CreateFileTree(t *testing.T, root string, tree FileTree) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if len(rel) > 0 && rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", path, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", path, err)
		}
	}
}
