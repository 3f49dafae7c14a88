package reconcile

import (
	"context"

	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/linkstate"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/types"
)

// Link resolves spec and links every resolved target. Skips are collected
// in the report; an abort returns the partial report with the error.
func (e *Engine) Link(ctx context.Context, spec types.SourceSpec, opts types.Options) (*Report, error) {
	return e.link(ctx, spec, opts, nil)
}

// link classifies targets in cleared as absent
func (e *Engine) link(ctx context.Context, spec types.SourceSpec, opts types.Options, cleared map[string]bool) (*Report, error) {
	done := logging.LogOperationStart(e.logger, "link")
	defer done()

	mapping, err := e.resolve(ctx, spec)
	if err != nil {
		return nil, err
	}

	report := newReport(types.CommandLink.String(), spec.Path, opts.DryRun)
	for _, entry := range mapping.Entries() {
		if err := e.cancelled(ctx, report); err != nil {
			return report, err
		}
		if err := e.linkOne(report, entry.Target, entry.Source, opts, cleared[entry.Target]); err != nil {
			return report, err
		}
	}

	if !opts.DryRun && e.tf.Len() > 0 && e.tf.Origin() != spec.Path {
		e.tf.SetOrigin(spec.Path)
		if err := e.save(); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (e *Engine) linkOne(report *Report, target, source string, opts types.Options, cleared bool) error {
	state := linkstate.Classify(e.fs, target, source, e.tf)
	if cleared {
		state = types.StateAbsent
	}
	item := Item{Target: target, Source: source, State: state}

	d, err := e.decide(types.CommandLink, state, opts, describe(types.CommandLink, target, source, state))
	item.Action = d.Action.String()
	item.Reason = d.Reason
	if err != nil {
		return e.quit(report, item, err)
	}

	switch d.Action {
	case types.ActionAbort:
		return e.abort(report, item, d.Reason)
	case types.ActionSkip:
		item.Outcome = OutcomeSkipped
		report.add(item)
		e.logger.Info().Str("target", target).Str("state", state.String()).Msg("Skipped")
		return nil
	}

	if _, err := e.fs.Stat(source); err != nil {
		item.Outcome = OutcomeFailed
		item.Error = "source does not exist"
		report.add(item)
		return nil
	}

	if state == types.StateIntended {
		item.Outcome = OutcomeUnchanged
		report.add(item)
		if tracked, _ := e.tf.Lookup(target); tracked != source && !opts.DryRun {
			e.tf.Set(target, source)
			return e.save()
		}
		return nil
	}

	if opts.DryRun {
		item.Outcome = OutcomePlanned
		report.add(item)
		e.logger.Info().Str("target", target).Str("source", source).Msg("[DRY RUN] link")
		return nil
	}

	if err := e.remove(target, state, opts); err != nil {
		item.Outcome = OutcomeFailed
		item.Error = err.Error()
		report.add(item)
		return nil
	}
	if err := filesystem.CreateSymlink(e.fs, source, target); err != nil {
		item.Outcome = OutcomeFailed
		item.Error = err.Error()
		report.add(item)
		// the old link is gone, so its entry must go too
		if _, tracked := e.tf.Lookup(target); tracked {
			e.tf.Remove(target)
			return e.save()
		}
		return nil
	}

	e.tf.Set(target, source)
	if err := e.save(); err != nil {
		item.Outcome = OutcomeFailed
		item.Error = err.Error()
		report.add(item)
		return err
	}

	item.Outcome = OutcomeLinked
	report.add(item)
	e.logger.Info().Str("target", target).Str("source", source).Msg("Linked")
	return nil
}
