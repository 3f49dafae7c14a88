package reconcile

import (
	"context"

	"github.com/arthur-debert/dots/pkg/linkstate"
	"github.com/arthur-debert/dots/pkg/types"
)

// Status classifies targets without changing anything. With a nil spec it
// reports every trackfile entry, otherwise every target spec resolves to.
func (e *Engine) Status(ctx context.Context, spec *types.SourceSpec) (*Report, error) {
	var entries []types.TrackEntry
	target := ""
	if spec == nil {
		entries = e.tf.Entries()
	} else {
		mapping, err := e.resolve(ctx, *spec)
		if err != nil {
			return nil, err
		}
		entries = mapping.Entries()
		target = spec.Path
	}

	report := newReport("status", target, false)
	for _, entry := range entries {
		if err := e.cancelled(ctx, report); err != nil {
			return report, err
		}
		intended := ""
		if spec != nil {
			intended = entry.Source
		}
		state := linkstate.Classify(e.fs, entry.Target, intended, e.tf)
		report.add(Item{
			Target:  entry.Target,
			Source:  entry.Source,
			State:   state,
			Outcome: OutcomeReported,
			Reason:  state.Description(),
		})
	}
	return report, nil
}

// Clean removes dangling tracked symlinks and drops entries whose target
// is gone. Other entries are left alone.
func (e *Engine) Clean(ctx context.Context, opts types.Options) (*Report, error) {
	report := newReport("clean", "", opts.DryRun)

	for _, entry := range e.tf.Entries() {
		if err := e.cancelled(ctx, report); err != nil {
			return report, err
		}
		state := linkstate.Classify(e.fs, entry.Target, "", e.tf)
		item := Item{Target: entry.Target, Source: entry.Source, State: state}

		switch state {
		case types.StateDangling:
			item.Action = types.ActionProceed.String()
			if opts.DryRun {
				item.Outcome = OutcomePlanned
				break
			}
			if err := e.remove(entry.Target, state, opts); err != nil {
				item.Outcome = OutcomeFailed
				item.Error = err.Error()
				break
			}
			e.tf.Remove(entry.Target)
			if err := e.save(); err != nil {
				return report, err
			}
			item.Outcome = OutcomeUnlinked
		case types.StateAbsent:
			item.Action = types.ActionProceed.String()
			if opts.DryRun {
				item.Outcome = OutcomePlanned
				break
			}
			e.tf.Remove(entry.Target)
			if err := e.save(); err != nil {
				return report, err
			}
			item.Outcome = OutcomeDropped
		default:
			item.Outcome = OutcomeUnchanged
		}
		report.add(item)
	}
	return report, nil
}
