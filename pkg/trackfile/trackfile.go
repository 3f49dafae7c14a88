// Package trackfile persists the symlinks dots owns.
//
// The trackfile is TOML, written sorted by target so it diffs cleanly:
//
//	version = 1
//	origin = "/home/me/dotfiles"
//
//	[[link]]
//	target = "/home/me/.bashrc"
//	source = "/home/me/dotfiles/home/.bashrc"
//
// Saves write a temp file in the same directory and rename it over the
// trackfile, so readers see either the old or the new content.
package trackfile

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Version is the trackfile format version written by this build
const Version = 1

type document struct {
	Version int                `toml:"version"`
	Origin  string             `toml:"origin,omitempty"`
	Links   []types.TrackEntry `toml:"link"`
}

// Trackfile is the in-memory record of owned symlinks
type Trackfile struct {
	fs      afero.Fs
	path    string
	origin  string
	entries map[string]string
}

// Load reads the trackfile at path. A missing or blank file is an empty
// trackfile; anything unreadable or malformed is TrackfileCorrupt.
func Load(fs afero.Fs, path string) (*Trackfile, error) {
	t := &Trackfile{fs: fs, path: path, entries: make(map[string]string)}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		exists, statErr := afero.Exists(fs, path)
		if statErr == nil && !exists {
			return t, nil
		}
		return nil, errors.Wrapf(err, errors.ErrTrackfileCorrupt, "cannot read trackfile %s", path).
			WithDetail("path", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return t, nil
	}

	var doc document
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, corrupt(path, err, "cannot parse trackfile")
	}
	if doc.Version != Version {
		return nil, corrupt(path, nil, "unsupported trackfile version %d", doc.Version)
	}

	for i, link := range doc.Links {
		if link.Target == "" || link.Source == "" {
			return nil, corrupt(path, nil, "link %d is missing its target or source", i)
		}
		if !filepath.IsAbs(link.Target) {
			return nil, corrupt(path, nil, "link %d has a relative target %q", i, link.Target)
		}
		target := filepath.Clean(link.Target)
		if _, dup := t.entries[target]; dup {
			return nil, corrupt(path, nil, "duplicate target %q", link.Target)
		}
		t.entries[target] = link.Source
	}
	t.origin = doc.Origin

	logger := logging.GetLogger(logging.Trackfile)
	logger.Debug().
		Str("path", path).
		Int("entries", len(t.entries)).
		Msg("Trackfile loaded")
	return t, nil
}

func corrupt(path string, err error, format string, args ...interface{}) error {
	var e *errors.DotsError
	if err != nil {
		e = errors.Wrapf(err, errors.ErrTrackfileCorrupt, format, args...)
	} else {
		e = errors.Newf(errors.ErrTrackfileCorrupt, format, args...)
	}
	return e.WithDetail("path", path)
}

// Path returns the trackfile location
func (t *Trackfile) Path() string {
	return t.path
}

// Origin returns the target spec recorded by the last link
func (t *Trackfile) Origin() string {
	return t.origin
}

// SetOrigin records the target spec
func (t *Trackfile) SetOrigin(origin string) {
	t.origin = origin
}

// Lookup returns the tracked source for target
func (t *Trackfile) Lookup(target string) (string, bool) {
	source, ok := t.entries[filepath.Clean(target)]
	return source, ok
}

// Set records that target links to source
func (t *Trackfile) Set(target, source string) {
	t.entries[filepath.Clean(target)] = source
}

// Remove drops target
func (t *Trackfile) Remove(target string) {
	delete(t.entries, filepath.Clean(target))
}

// Len returns the number of entries
func (t *Trackfile) Len() int {
	return len(t.entries)
}

// Entries returns all entries sorted by target
func (t *Trackfile) Entries() []types.TrackEntry {
	entries := make([]types.TrackEntry, 0, len(t.entries))
	for target, source := range t.entries {
		entries = append(entries, types.TrackEntry{Target: target, Source: source})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Target < entries[j].Target })
	return entries
}

// Exists reports whether the trackfile is on disk
func (t *Trackfile) Exists() bool {
	exists, err := afero.Exists(t.fs, t.path)
	return err == nil && exists
}

// Save atomically writes the trackfile
func (t *Trackfile) Save() error {
	doc := document{Version: Version, Origin: t.origin, Links: t.Entries()}
	data, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode trackfile")
	}

	dir := filepath.Dir(t.path)
	if err := t.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot create %s", dir)
	}

	tmp, err := afero.TempFile(t.fs, dir, "."+filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = t.fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot close %s", tmpName)
	}
	if err := t.fs.Rename(tmpName, t.path); err != nil {
		cleanup()
		return errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot replace %s", t.path)
	}

	logger := logging.GetLogger(logging.Trackfile)
	logger.Trace().Str("path", t.path).Int("entries", len(t.entries)).Msg("Trackfile saved")
	return nil
}

// Delete clears the entries and removes the trackfile from disk. It
// reports whether a file was actually removed.
func (t *Trackfile) Delete() (bool, error) {
	existed := t.Exists()
	if err := t.fs.Remove(t.path); err != nil && t.Exists() {
		return false, errors.Wrapf(err, errors.ErrTrackfileWrite, "cannot delete %s", t.path)
	}
	t.entries = make(map[string]string)
	t.origin = ""
	return existed, nil
}

// String renders the entries one per line, for logs
func (t *Trackfile) String() string {
	var b strings.Builder
	for _, e := range t.Entries() {
		b.WriteString(e.Target)
		b.WriteString(" -> ")
		b.WriteString(e.Source)
		b.WriteString("\n")
	}
	return b.String()
}
