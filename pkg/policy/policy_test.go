package policy

import (
	"testing"

	"github.com/arthur-debert/dots/pkg/types"
	"github.com/stretchr/testify/assert"
)

var allStates = []types.LinkState{
	types.StateAbsent, types.StateCorrect, types.StateIntended,
	types.StateDangling, types.StateForeign, types.StatePlainFile,
}

var allLevels = []types.ForceLevel{
	types.ForceNone, types.ForceCorrectSymlink, types.ForceSymlink, types.ForceFile, types.ForceDangerously,
}

func TestDecide_Link(t *testing.T) {
	tests := []struct {
		state types.LinkState
		opts  types.Options
		want  types.Action
	}{
		{types.StateAbsent, types.Options{}, types.ActionProceed},
		{types.StateDangling, types.Options{}, types.ActionProceed},
		{types.StateIntended, types.Options{}, types.ActionProceed},
		{types.StateCorrect, types.Options{}, types.ActionProceed},
		{types.StateForeign, types.Options{}, types.ActionSkip},
		{types.StateForeign, types.Options{Interactive: true}, types.ActionPrompt},
		{types.StateForeign, types.Options{Force: types.ForceCorrectSymlink}, types.ActionSkip},
		{types.StateForeign, types.Options{Force: types.ForceSymlink}, types.ActionProceed},
		{types.StateForeign, types.Options{Bail: true}, types.ActionAbort},
		{types.StatePlainFile, types.Options{}, types.ActionSkip},
		{types.StatePlainFile, types.Options{Force: types.ForceSymlink}, types.ActionSkip},
		{types.StatePlainFile, types.Options{Force: types.ForceFile}, types.ActionProceed},
		{types.StatePlainFile, types.Options{Bail: true}, types.ActionAbort},
		{types.StatePlainFile, types.Options{Bail: true, Interactive: true}, types.ActionPrompt},
		{types.StatePlainFile, types.Options{Force: types.ForceFile, Interactive: true}, types.ActionProceed},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(types.CommandLink, tt.state, tt.opts).Action, "%+v", tt.opts)
		})
	}
}

func TestDecide_Unlink(t *testing.T) {
	tests := []struct {
		state types.LinkState
		opts  types.Options
		want  types.Action
	}{
		{types.StateIntended, types.Options{}, types.ActionProceed},
		{types.StateDangling, types.Options{}, types.ActionProceed},
		{types.StateCorrect, types.Options{}, types.ActionSkip},
		{types.StateCorrect, types.Options{Force: types.ForceCorrectSymlink}, types.ActionProceed},
		{types.StateCorrect, types.Options{Interactive: true}, types.ActionPrompt},
		{types.StateForeign, types.Options{Force: types.ForceCorrectSymlink}, types.ActionSkip},
		{types.StateForeign, types.Options{Force: types.ForceSymlink}, types.ActionProceed},
		{types.StatePlainFile, types.Options{Force: types.ForceSymlink}, types.ActionSkip},
		{types.StatePlainFile, types.Options{Force: types.ForceFile}, types.ActionProceed},
		{types.StatePlainFile, types.Options{Bail: true}, types.ActionAbort},
		{types.StateAbsent, types.Options{}, types.ActionSkip},
		{types.StateAbsent, types.Options{Bail: true}, types.ActionSkip},
		{types.StateAbsent, types.Options{Force: types.ForceDangerously}, types.ActionProceed},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(types.CommandUnlink, tt.state, tt.opts).Action, "%+v", tt.opts)
		})
	}
}

func TestDecide_RequiredLevel(t *testing.T) {
	d := Decide(types.CommandLink, types.StatePlainFile, types.Options{})
	assert.Equal(t, types.ForceFile, d.Required)
	assert.Contains(t, d.Reason, "-ff")

	d = Decide(types.CommandUnlink, types.StateCorrect, types.Options{})
	assert.Equal(t, types.ForceCorrectSymlink, d.Required)
	assert.Contains(t, d.Reason, "-fc")
}

func TestDecide_ForceDangerouslyAlwaysProceeds(t *testing.T) {
	opts := types.Options{Force: types.ForceDangerously, Bail: true, Interactive: true}
	for _, cmd := range []types.Command{types.CommandLink, types.CommandUnlink} {
		for _, state := range allStates {
			assert.Equal(t, types.ActionProceed, Decide(cmd, state, opts).Action, "%s %s", cmd, state)
		}
	}
}

func TestDecide_ForceMonotonicity(t *testing.T) {
	for _, cmd := range []types.Command{types.CommandLink, types.CommandUnlink} {
		for _, state := range allStates {
			permitted := false
			for _, level := range allLevels {
				action := Decide(cmd, state, types.Options{Force: level}).Action
				if permitted {
					assert.Equal(t, types.ActionProceed, action, "%s %s at %s", cmd, state, level)
				}
				if action == types.ActionProceed {
					permitted = true
				}
			}
		}
	}
}
