// Package reconcile drives link, unlink and relink.
//
// For every target the engine classifies the current state, asks the
// policy what to do, optionally asks the user, and performs the filesystem
// change. The trackfile is saved after each changed target, symlink first
// and entry second, so an interrupted run leaves at most the in-flight
// target inconsistent. Nothing is rolled back on abort.
package reconcile

import (
	"context"
	"fmt"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/policy"
	"github.com/arthur-debert/dots/pkg/trackfile"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/rs/zerolog"
)

// Resolver turns specs into a target -> source mapping
type Resolver interface {
	Resolve(ctx context.Context, specs []types.SourceSpec) (*types.Mapping, error)
}

// Prompter asks the user to confirm a forced action. category is the
// force level the action needs.
type Prompter interface {
	Confirm(category types.ForceLevel, message string) (bool, error)
}

// Engine reconciles targets against the trackfile
type Engine struct {
	fs       types.FS
	resolver Resolver
	tf       *trackfile.Trackfile
	prompter Prompter
	logger   zerolog.Logger
}

// New creates an engine. prompter may be nil when runs are never
// interactive.
func New(fs types.FS, resolver Resolver, tf *trackfile.Trackfile, prompter Prompter) *Engine {
	return &Engine{
		fs:       fs,
		resolver: resolver,
		tf:       tf,
		prompter: prompter,
		logger:   logging.GetLogger(logging.Reconcile),
	}
}

// Trackfile returns the trackfile the engine maintains
func (e *Engine) Trackfile() *trackfile.Trackfile {
	return e.tf
}

func (e *Engine) resolve(ctx context.Context, spec types.SourceSpec) (*types.Mapping, error) {
	return e.resolver.Resolve(ctx, []types.SourceSpec{spec})
}

// decide runs the policy and resolves prompts
func (e *Engine) decide(cmd types.Command, state types.LinkState, opts types.Options, message string) (types.Decision, error) {
	d := policy.Decide(cmd, state, opts)
	if d.Action != types.ActionPrompt {
		return d, nil
	}
	if e.prompter == nil {
		d.Action = types.ActionSkip
		d.Reason = "no prompt available"
		return d, nil
	}
	ok, err := e.prompter.Confirm(d.Required, message)
	if err != nil {
		return d, err
	}
	if ok {
		d.Action = types.ActionProceed
		d.Reason = "confirmed"
	} else {
		d.Action = types.ActionSkip
		d.Reason = "declined"
	}
	return d, nil
}

// remove clears whatever occupies target
func (e *Engine) remove(target string, state types.LinkState, opts types.Options) error {
	switch state {
	case types.StateAbsent:
		return nil
	case types.StatePlainFile:
		if opts.Force == types.ForceDangerously {
			return e.fs.RemoveAll(target)
		}
		return e.fs.Remove(target)
	default:
		if !filesystem.IsSymlink(e.fs, target) {
			return errors.Newf(errors.ErrSymlinkRemove, "%s is no longer a symlink", target)
		}
		return e.fs.Remove(target)
	}
}

func (e *Engine) save() error {
	return e.tf.Save()
}

func (e *Engine) abort(report *Report, item Item, reason string) error {
	item.Outcome = OutcomeAborted
	item.Reason = reason
	report.add(item)
	report.Aborted = true
	report.AbortReason = reason
	e.logger.Warn().Str("target", item.Target).Str("reason", reason).Msg("Run aborted")
	return errors.Newf(errors.ErrConflictAbort, "aborted at %s: %s", item.Target, reason).
		WithDetail("target", item.Target)
}

func (e *Engine) quit(report *Report, item Item, err error) error {
	item.Outcome = OutcomeAborted
	item.Reason = "quit"
	report.add(item)
	report.Aborted = true
	report.AbortReason = "quit"
	return err
}

func (e *Engine) cancelled(ctx context.Context, report *Report) error {
	if err := ctx.Err(); err != nil {
		report.Aborted = true
		report.AbortReason = "cancelled"
		return err
	}
	return nil
}

func describe(cmd types.Command, target, source string, state types.LinkState) string {
	if cmd == types.CommandUnlink {
		return fmt.Sprintf("Remove %s (%s)?", target, state.Description())
	}
	return fmt.Sprintf("Replace %s (%s) with a link to %s?", target, state.Description(), source)
}
