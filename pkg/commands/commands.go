package commands

import (
	"context"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/reconcile"
	"github.com/arthur-debert/dots/pkg/types"
)

// LinkOptions holds the arguments of link
type LinkOptions struct {
	Target  string
	Options types.Options
}

// UnlinkOptions holds the arguments of unlink and relink
type UnlinkOptions struct {
	Target  string
	Hard    bool
	Options types.Options
}

// Link links the target's dotfiles
func (r *Runtime) Link(ctx context.Context, opts LinkOptions) (*reconcile.Report, error) {
	spec, err := r.TargetSpec(opts.Target, opts.Options)
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger(logging.Commands)
	logger.Info().
		Str("target", spec.Path).
		Bool("dryRun", opts.Options.DryRun).
		Str("force", opts.Options.Force.String()).
		Msg("Linking")
	return r.Engine.Link(ctx, spec, opts.Options)
}

// Unlink removes the target's links, or with Hard every tracked link
func (r *Runtime) Unlink(ctx context.Context, opts UnlinkOptions) (*reconcile.Report, error) {
	logger := logging.GetLogger(logging.Commands)
	if opts.Hard {
		if opts.Target != "" {
			return nil, errors.New(errors.ErrInvalidInput, "unlink --hard takes no target")
		}
		logger.Info().Bool("dryRun", opts.Options.DryRun).Msg("Unlinking every tracked link")
		return r.Engine.UnlinkHard(ctx, opts.Options)
	}

	spec, err := r.TargetSpec(opts.Target, opts.Options)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("target", spec.Path).
		Bool("dryRun", opts.Options.DryRun).
		Msg("Unlinking")
	return r.Engine.Unlink(ctx, spec, opts.Options)
}

// Relink unlinks and links again. The target is resolved before the
// unlink runs, so a hard relink can still use the recorded origin.
func (r *Runtime) Relink(ctx context.Context, opts UnlinkOptions) ([]*reconcile.Report, error) {
	spec, err := r.TargetSpec(opts.Target, opts.Options)
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger(logging.Commands)
	logger.Info().
		Str("target", spec.Path).
		Bool("hard", opts.Hard).
		Bool("dryRun", opts.Options.DryRun).
		Msg("Relinking")
	return r.Engine.Relink(ctx, spec, opts.Options, opts.Hard)
}

// Status reports the state of tracked links, or of the target's links
// when a target is given
func (r *Runtime) Status(ctx context.Context, target string, opts types.Options) (*reconcile.Report, error) {
	if target == "" && len(opts.Includes) == 0 && len(opts.Excludes) == 0 {
		return r.Engine.Status(ctx, nil)
	}
	spec, err := r.TargetSpec(target, opts)
	if err != nil {
		return nil, err
	}
	return r.Engine.Status(ctx, &spec)
}

// Clean removes dangling tracked links and forgets absent ones
func (r *Runtime) Clean(ctx context.Context, opts types.Options) (*reconcile.Report, error) {
	return r.Engine.Clean(ctx, opts)
}
