// Package materialize turns a source spec's path into something the
// resolver can read: a local tree, or the specs of a composition file.
//
// Local directories are used in place. Git URLs are cloned into the cache
// and pulled on later runs. A directory holding a composition file, or a
// path naming one, yields that file's nested specs.
package materialize

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/dots/pkg/composition"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/paths"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/google/uuid"
)

// Tree is a materialized source
type Tree struct {
	// Root is the local directory holding the source files
	Root string
	// Composition is the composition file the specs came from, empty for
	// plain trees
	Composition string
	// Specs are the nested specs of a composition, nil for plain trees
	Specs []types.SourceSpec
}

// IsComposition reports whether the tree expands to nested specs
func (t *Tree) IsComposition() bool {
	return t.Composition != ""
}

// Materializer resolves spec paths
type Materializer interface {
	Materialize(ctx context.Context, spec types.SourceSpec) (*Tree, error)
}

// Fetcher brings a remote repository up to date in dir
type Fetcher interface {
	Fetch(ctx context.Context, url, dir string) error
}

// Local is the default materializer
type Local struct {
	fs          types.FS
	reposDir    string
	fetcher     Fetcher
	toolVersion string
}

// New creates a materializer caching remote repositories under reposDir
func New(fs types.FS, reposDir, toolVersion string) *Local {
	return &Local{fs: fs, reposDir: reposDir, fetcher: NewGitFetcher(), toolVersion: toolVersion}
}

// WithFetcher replaces the remote fetcher
func (m *Local) WithFetcher(f Fetcher) *Local {
	m.fetcher = f
	return m
}

// CacheDir returns the clone directory for url
func (m *Local) CacheDir(url string) string {
	return filepath.Join(m.reposDir, uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String())
}

// Materialize resolves spec.Path
func (m *Local) Materialize(ctx context.Context, spec types.SourceSpec) (*Tree, error) {
	logger := logging.GetLogger(logging.Materialize)

	if composition.IsRemote(spec.Path) {
		dir := m.CacheDir(spec.Path)
		logger.Info().Str("url", spec.Path).Str("dir", dir).Msg("Fetching remote source")
		if err := m.fetcher.Fetch(ctx, spec.Path, dir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSourceUnavailable, "cannot fetch %s", spec.Path).
				WithDetail("path", spec.Path)
		}
		return m.directory(dir, spec.Plain)
	}

	path, err := paths.ExpandAbs(spec.Path, "")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable, "invalid source path %s", spec.Path).
			WithDetail("path", spec.Path)
	}
	info, err := m.fs.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable, "source %s is not available", spec.Path).
			WithDetail("path", spec.Path)
	}
	if info.IsDir() {
		return m.directory(path, spec.Plain)
	}
	if !composition.IsCompositionFile(path) {
		return nil, errors.Newf(errors.ErrSourceUnavailable, "source %s is neither a directory nor a composition file", spec.Path).
			WithDetail("path", spec.Path)
	}
	return m.composition(path, false)
}

func (m *Local) directory(dir string, plain bool) (*Tree, error) {
	if !plain {
		if file, ok := composition.FindInDir(m.fs, dir); ok {
			return m.composition(file, true)
		}
	}
	return &Tree{Root: dir}, nil
}

func (m *Local) composition(file string, implicitSelf bool) (*Tree, error) {
	doc, err := composition.Load(m.fs, file, m.toolVersion)
	if err != nil {
		return nil, err
	}
	specs, err := doc.Specs(implicitSelf)
	if err != nil {
		return nil, err
	}
	return &Tree{Root: doc.Dir(), Composition: doc.Path, Specs: specs}, nil
}
