package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dots/pkg/types"
)

// Exists reports whether anything, including a dangling symlink, is at path
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is a symlink
func IsSymlink(fsys types.FS, path string) bool {
	info, err := fsys.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// IsDir reports whether path is a directory, following symlinks
func IsDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// ReadSymlinkDestination returns the absolute destination of the symlink at
// path. Relative destinations are resolved against the link's directory.
func ReadSymlinkDestination(fsys types.FS, path string) (string, error) {
	dest, err := fsys.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return filepath.Clean(dest), nil
}

// CreateSymlink creates the parent directories of link and a symlink at
// link pointing to source
func CreateSymlink(fsys types.FS, source, link string) error {
	if err := fsys.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return err
	}
	return fsys.Symlink(source, link)
}

// ListFiles walks dir and returns the slash-separated paths of all
// non-directory entries below it, relative to dir, in lexical order.
// Symlinks are listed, not followed.
func ListFiles(fsys types.FS, dir string) ([]string, error) {
	var files []string
	var walk func(abs, rel string) error
	walk = func(abs, rel string) error {
		entries, err := fsys.ReadDir(abs)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			childAbs := filepath.Join(abs, entry.Name())
			childRel := entry.Name()
			if rel != "" {
				childRel = rel + "/" + entry.Name()
			}
			info, err := fsys.Lstat(childAbs)
			if err != nil {
				return err
			}
			if info.IsDir() {
				if err := walk(childAbs, childRel); err != nil {
					return err
				}
				continue
			}
			files = append(files, childRel)
		}
		return nil
	}
	if err := walk(dir, ""); err != nil {
		return nil, err
	}
	return files, nil
}
