package trackfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/spf13/afero"
)

// Lock holds the single-writer lock of a trackfile
type Lock struct {
	fs   afero.Fs
	path string
}

// LockPath returns the lock file used for the trackfile at path
func LockPath(path string) string {
	return path + ".lock"
}

// Acquire takes the lock for the trackfile at path. It fails with
// TrackfileLocked while another run holds it.
func Acquire(fs afero.Fs, path string) (*Lock, error) {
	lockPath := LockPath(path)
	if err := fs.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot create directory for %s", lockPath)
	}
	f, err := fs.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Newf(errors.ErrTrackfileLocked,
				"trackfile %s is in use by another dots run (remove %s if it is stale)", path, lockPath).
				WithDetail("lock", lockPath)
		}
		return nil, errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot create %s", lockPath)
	}
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	_ = f.Close()
	return &Lock{fs: fs, path: lockPath}, nil
}

// Release frees the lock
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.fs.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot remove %s", l.path)
	}
	return nil
}
