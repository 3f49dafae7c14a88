// Package commands holds the entry points behind the dots CLI.
//
// Open wires one run: configuration, the runtime environment, the
// filesystem, the source-set resolver, the trackfile and its lock, and the
// reconciliation engine. The Runtime methods then map one CLI command each
// onto the engine.
package commands

import (
	"github.com/arthur-debert/dots/pkg/config"
	"github.com/arthur-debert/dots/pkg/environment"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/materialize"
	"github.com/arthur-debert/dots/pkg/reconcile"
	"github.com/arthur-debert/dots/pkg/resolver"
	"github.com/arthur-debert/dots/pkg/trackfile"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/spf13/afero"
)

// OpenOptions controls how a Runtime is assembled. Zero values select the
// real system.
type OpenOptions struct {
	// Config is loaded with config.Load when nil
	Config *config.Config
	// Afero is the filesystem, afero.NewOsFs() when nil
	Afero afero.Fs
	// RootDir is where root/ leaves are linked, "/" when empty
	RootDir string
	// Prompter answers interactive prompts; nil skips them
	Prompter reconcile.Prompter
	// Fetcher replaces the git fetcher for remote sources
	Fetcher materialize.Fetcher
	// ToolVersion is checked against composition "requires"
	ToolVersion string
	// Lock takes the trackfile lock for the lifetime of the runtime
	Lock bool
}

// Runtime is everything one command needs
type Runtime struct {
	Config    *config.Config
	Env       types.RuntimeContext
	FS        types.FS
	Trackfile *trackfile.Trackfile
	Engine    *reconcile.Engine

	lock *trackfile.Lock
}

// Open assembles a Runtime. Callers must Close it.
func Open(opts OpenOptions) (*Runtime, error) {
	logger := logging.GetLogger(logging.Commands)

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(config.LoadOptions{})
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	afs := opts.Afero
	if afs == nil {
		afs = afero.NewOsFs()
	}
	fsys := filesystem.NewAferoFS(afs)

	prober := environment.NewProber(afs)
	if opts.RootDir != "" {
		prober = prober.WithRootDir(opts.RootDir)
	}
	env, err := prober.Probe(environment.Overrides{
		OS:         cfg.Env.OS,
		User:       cfg.Env.User,
		SystemName: cfg.Env.SystemName,
		HomeName:   cfg.Env.HomeName,
		Managers:   cfg.Env.Managers,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg, Env: env, FS: fsys}

	if opts.Lock {
		lock, err := trackfile.Acquire(afs, cfg.Trackfile)
		if err != nil {
			return nil, err
		}
		rt.lock = lock
	}

	tf, err := trackfile.Load(afs, cfg.Trackfile)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Trackfile = tf

	m := materialize.New(fsys, cfg.ReposDir(), opts.ToolVersion)
	if opts.Fetcher != nil {
		m = m.WithFetcher(opts.Fetcher)
	}
	res := resolver.New(fsys, m, env, cfg.MaxDepth)
	rt.Engine = reconcile.New(fsys, res, tf, opts.Prompter)

	logger.Debug().
		Str("trackfile", cfg.Trackfile).
		Int("entries", tf.Len()).
		Str("os", env.OS).
		Str("user", env.User).
		Bool("locked", opts.Lock).
		Msg("Runtime opened")

	return rt, nil
}

// Close releases the trackfile lock
func (r *Runtime) Close() error {
	if r == nil || r.lock == nil {
		return nil
	}
	err := r.lock.Release()
	r.lock = nil
	return err
}

// DefaultTarget returns the target used when none is given: the target
// config key, then the origin of the last link
func (r *Runtime) DefaultTarget() (string, error) {
	if r.Config.Target != "" {
		return r.Config.Target, nil
	}
	if origin := r.Trackfile.Origin(); origin != "" {
		return origin, nil
	}
	return "", errors.New(errors.ErrInvalidInput,
		"no target given, no default target configured and no previous link recorded")
}

// TargetSpec builds the top-level spec for target, falling back to the
// default target when it is empty
func (r *Runtime) TargetSpec(target string, opts types.Options) (types.SourceSpec, error) {
	if target == "" {
		t, err := r.DefaultTarget()
		if err != nil {
			return types.SourceSpec{}, err
		}
		target = t
	}
	return resolver.TopLevelSpec(target, opts)
}
