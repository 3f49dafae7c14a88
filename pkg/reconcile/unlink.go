package reconcile

import (
	"context"

	"github.com/arthur-debert/dots/pkg/linkstate"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/types"
)

// Unlink resolves spec and removes the links of every resolved target
func (e *Engine) Unlink(ctx context.Context, spec types.SourceSpec, opts types.Options) (*Report, error) {
	done := logging.LogOperationStart(e.logger, "unlink")
	defer done()

	mapping, err := e.resolve(ctx, spec)
	if err != nil {
		return nil, err
	}

	report := newReport(types.CommandUnlink.String(), spec.Path, opts.DryRun)
	for _, entry := range mapping.Entries() {
		if err := e.cancelled(ctx, report); err != nil {
			return report, err
		}
		if err := e.unlinkOne(report, entry.Target, entry.Source, opts); err != nil {
			return report, err
		}
	}
	return report, nil
}

// UnlinkHard removes every tracked link with at least force-correct-symlink
// and deletes the trackfile when every entry was resolved. Entries that
// were skipped stay in the trackfile.
func (e *Engine) UnlinkHard(ctx context.Context, opts types.Options) (*Report, error) {
	done := logging.LogOperationStart(e.logger, "unlink --hard")
	defer done()

	opts.Force = types.MaxForce(opts.Force, types.ForceCorrectSymlink)
	report := newReport(types.CommandUnlink.String(), "", opts.DryRun)

	for _, entry := range e.tf.Entries() {
		if err := e.cancelled(ctx, report); err != nil {
			return report, err
		}
		if err := e.unlinkOne(report, entry.Target, "", opts); err != nil {
			return report, err
		}
	}

	if opts.DryRun || !report.Complete() {
		return report, nil
	}
	removed, err := e.tf.Delete()
	if err != nil {
		return report, err
	}
	if removed {
		report.TrackfileDeleted = true
		e.logger.Info().Str("path", e.tf.Path()).Msg("Trackfile deleted")
	}
	return report, nil
}

func (e *Engine) unlinkOne(report *Report, target, intended string, opts types.Options) error {
	state := linkstate.Classify(e.fs, target, intended, e.tf)
	tracked, isTracked := e.tf.Lookup(target)
	source := intended
	if source == "" {
		source = tracked
	}
	item := Item{Target: target, Source: source, State: state}

	d, err := e.decide(types.CommandUnlink, state, opts, describe(types.CommandUnlink, target, source, state))
	item.Action = d.Action.String()
	item.Reason = d.Reason
	if err != nil {
		return e.quit(report, item, err)
	}

	if state == types.StateAbsent {
		// nothing on disk: only a stale entry can be reclaimed
		if !isTracked {
			item.Outcome = OutcomeUnchanged
			report.add(item)
			return nil
		}
		item.Outcome = OutcomeDropped
		report.add(item)
		if opts.DryRun {
			return nil
		}
		e.tf.Remove(target)
		return e.save()
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

	if opts.DryRun {
		item.Outcome = OutcomePlanned
		report.add(item)
		e.logger.Info().Str("target", target).Msg("[DRY RUN] unlink")
		return nil
	}

	if err := e.remove(target, state, opts); err != nil {
		item.Outcome = OutcomeFailed
		item.Error = err.Error()
		report.add(item)
		return nil
	}
	item.Outcome = OutcomeUnlinked
	report.add(item)
	e.logger.Info().Str("target", target).Msg("Unlinked")

	if isTracked {
		e.tf.Remove(target)
		return e.save()
	}
	return nil
}

// Relink unlinks then links spec. With hard, the unlink covers the whole
// trackfile. The link phase is skipped when the unlink phase aborts. On a
// dry run the link phase sees the targets the unlink phase would clear as
// absent.
func (e *Engine) Relink(ctx context.Context, spec types.SourceSpec, opts types.Options, hard bool) ([]*Report, error) {
	var unlinkReport *Report
	var err error
	if hard {
		unlinkReport, err = e.UnlinkHard(ctx, opts)
	} else {
		unlinkReport, err = e.Unlink(ctx, spec, opts)
	}
	var reports []*Report
	if unlinkReport != nil {
		reports = append(reports, unlinkReport)
	}
	if err != nil {
		return reports, err
	}

	var cleared map[string]bool
	if opts.DryRun {
		cleared = unlinkReport.planned()
	}
	linkReport, err := e.link(ctx, spec, opts, cleared)
	if linkReport != nil {
		reports = append(reports, linkReport)
	}
	return reports, err
}
