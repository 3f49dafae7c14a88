package testutil

import (
	"os"
	"testing"
)

// AssertSymlink checks that link is a symlink pointing at dest
func AssertSymlink(t *testing.T, link, dest string) {
	t.Helper()

	info, err := os.Lstat(link)
	if err != nil {
		t.Errorf("Expected symlink at %s: %v", link, err)
		return
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("Expected %s to be a symlink, got mode %v", link, info.Mode())
		return
	}
	got, err := os.Readlink(link)
	if err != nil {
		t.Errorf("Failed to read symlink %s: %v", link, err)
		return
	}
	if got != dest {
		t.Errorf("Symlink %s points to %q, expected %q", link, got, dest)
	}
}

// AssertAbsent checks that nothing, not even a dangling symlink, is at path
func AssertAbsent(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Errorf("Expected %s to be absent", path)
	} else if !os.IsNotExist(err) {
		t.Errorf("Unexpected error checking %s: %v", path, err)
	}
}

// AssertFileContent checks that path is a regular file holding content
func AssertFileContent(t *testing.T, path, content string) {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("Expected file at %s: %v", path, err)
		return
	}
	if !info.Mode().IsRegular() {
		t.Errorf("Expected %s to be a regular file, got mode %v", path, info.Mode())
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if string(data) != content {
		t.Errorf("File %s content = %q, expected %q", path, string(data), content)
	}
}
