package reconcile

import (
	"github.com/arthur-debert/dots/pkg/types"
)

// Outcome is what happened to one target
type Outcome string

const (
	OutcomeLinked    Outcome = "linked"
	OutcomeUnlinked  Outcome = "unlinked"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomePlanned   Outcome = "planned"
	OutcomeDropped   Outcome = "dropped"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
	OutcomeAborted   Outcome = "aborted"
	OutcomeReported  Outcome = "reported"
)

// Item is the report line for one target
type Item struct {
	Target  string          `json:"target" yaml:"target"`
	Source  string          `json:"source,omitempty" yaml:"source,omitempty"`
	State   types.LinkState `json:"state" yaml:"state"`
	Action  string          `json:"action,omitempty" yaml:"action,omitempty"`
	Outcome Outcome         `json:"outcome" yaml:"outcome"`
	Reason  string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the result of one engine command
type Report struct {
	Command          string `json:"command" yaml:"command"`
	Target           string `json:"target,omitempty" yaml:"target,omitempty"`
	DryRun           bool   `json:"dry_run" yaml:"dry_run"`
	Items            []Item `json:"items" yaml:"items"`
	Aborted          bool   `json:"aborted" yaml:"aborted"`
	AbortReason      string `json:"abort_reason,omitempty" yaml:"abort_reason,omitempty"`
	TrackfileDeleted bool   `json:"trackfile_deleted,omitempty" yaml:"trackfile_deleted,omitempty"`
}

func newReport(command, target string, dryRun bool) *Report {
	return &Report{Command: command, Target: target, DryRun: dryRun, Items: []Item{}}
}

func (r *Report) add(item Item) {
	r.Items = append(r.Items, item)
}

// Counts returns the number of items per outcome
func (r *Report) Counts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, item := range r.Items {
		counts[item.Outcome]++
	}
	return counts
}

// Failed returns the number of items whose change failed
func (r *Report) Failed() int {
	if r == nil {
		return 0
	}
	return r.Counts()[OutcomeFailed]
}

// Complete reports whether every item was resolved: nothing skipped,
// failed or aborted
func (r *Report) Complete() bool {
	if r.Aborted {
		return false
	}
	for _, item := range r.Items {
		switch item.Outcome {
		case OutcomeSkipped, OutcomeFailed, OutcomeAborted:
			return false
		}
	}
	return true
}

// planned returns the targets a dry run would have cleared
func (r *Report) planned() map[string]bool {
	if r == nil {
		return nil
	}
	out := make(map[string]bool)
	for _, item := range r.Items {
		if item.Outcome == OutcomePlanned || item.Outcome == OutcomeDropped {
			out[item.Target] = true
		}
	}
	return out
}

// Item returns the item for target
func (r *Report) Item(target string) (Item, bool) {
	for _, item := range r.Items {
		if item.Target == target {
			return item, true
		}
	}
	return Item{}, false
}
