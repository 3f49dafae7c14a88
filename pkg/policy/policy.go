// Package policy decides what to do with one target given its state and
// the run options.
package policy

import (
	"fmt"

	"github.com/arthur-debert/dots/pkg/types"
)

// rule is the force level a state needs before a command may touch it.
// proceed marks states that are always safe.
type rule struct {
	proceed  bool
	required types.ForceLevel
	skip     bool // nothing to do, never escalates to abort
}

var linkRules = map[types.LinkState]rule{
	types.StateAbsent:    {proceed: true},
	types.StateDangling:  {proceed: true},
	types.StateIntended:  {proceed: true},
	types.StateCorrect:   {proceed: true},
	types.StateForeign:   {required: types.ForceSymlink},
	types.StatePlainFile: {required: types.ForceFile},
}

var unlinkRules = map[types.LinkState]rule{
	types.StateIntended:  {proceed: true},
	types.StateDangling:  {proceed: true},
	types.StateCorrect:   {required: types.ForceCorrectSymlink},
	types.StateForeign:   {required: types.ForceSymlink},
	types.StatePlainFile: {required: types.ForceFile},
	types.StateAbsent:    {skip: true},
}

// Decide returns the action for a target in state. Dry runs are decided
// like real ones; the engine suppresses the mutation.
func Decide(cmd types.Command, state types.LinkState, opts types.Options) types.Decision {
	rules := linkRules
	if cmd == types.CommandUnlink {
		rules = unlinkRules
	}
	r, ok := rules[state]
	if !ok {
		return types.Decision{Action: types.ActionSkip, Reason: fmt.Sprintf("unknown state %s", state)}
	}

	if opts.Force == types.ForceDangerously {
		return types.Decision{Action: types.ActionProceed, Required: r.required, Reason: "forced with " + types.ForceDangerously.Flag()}
	}

	switch {
	case r.proceed:
		return types.Decision{Action: types.ActionProceed, Reason: state.Description()}
	case r.skip:
		return types.Decision{Action: types.ActionSkip, Reason: state.Description()}
	case opts.Force.AtLeast(r.required):
		return types.Decision{Action: types.ActionProceed, Required: r.required, Reason: "forced with " + opts.Force.Flag()}
	case opts.Interactive:
		return types.Decision{Action: types.ActionPrompt, Required: r.required, Reason: state.Description()}
	case opts.Bail:
		return types.Decision{Action: types.ActionAbort, Required: r.required, Reason: state.Description()}
	default:
		return types.Decision{
			Action:   types.ActionSkip,
			Required: r.required,
			Reason:   fmt.Sprintf("%s (use %s)", state.Description(), r.required.Flag()),
		}
	}
}
