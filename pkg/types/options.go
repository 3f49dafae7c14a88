package types

import "fmt"

// ForceLevel is a totally ordered permission tier. A higher level permits
// everything a lower level permits.
type ForceLevel int

const (
	ForceNone ForceLevel = iota
	ForceCorrectSymlink
	ForceSymlink
	ForceFile
	ForceDangerously
)

func (f ForceLevel) String() string {
	switch f {
	case ForceNone:
		return "none"
	case ForceCorrectSymlink:
		return "force-correct-symlink"
	case ForceSymlink:
		return "force-symlink"
	case ForceFile:
		return "force-file"
	case ForceDangerously:
		return "force-dangerously"
	default:
		return fmt.Sprintf("force(%d)", int(f))
	}
}

// Flag returns the CLI flag that grants this level
func (f ForceLevel) Flag() string {
	switch f {
	case ForceCorrectSymlink:
		return "-fc"
	case ForceSymlink:
		return "-fs"
	case ForceFile:
		return "-ff"
	case ForceDangerously:
		return "--force-dangerously"
	default:
		return ""
	}
}

// AtLeast reports whether f permits what level permits
func (f ForceLevel) AtLeast(level ForceLevel) bool {
	return f >= level
}

// MaxForce returns the higher of two levels
func MaxForce(a, b ForceLevel) ForceLevel {
	if a > b {
		return a
	}
	return b
}

// Options are the per-run switches shared by link, unlink and relink
type Options struct {
	Includes    []string
	Excludes    []string
	Verbose     bool
	DryRun      bool
	Bail        bool
	Interactive bool
	Force       ForceLevel
}

// Command is the reconciliation direction
type Command int

const (
	CommandLink Command = iota
	CommandUnlink
)

func (c Command) String() string {
	if c == CommandUnlink {
		return "unlink"
	}
	return "link"
}

// Action is what the policy engine decided for one target
type Action int

const (
	ActionProceed Action = iota
	ActionSkip
	ActionPrompt
	ActionAbort
)

func (a Action) String() string {
	switch a {
	case ActionProceed:
		return "proceed"
	case ActionSkip:
		return "skip"
	case ActionPrompt:
		return "prompt"
	case ActionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// MarshalText renders the action by name in json/yaml reports
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Decision is the policy outcome for one target. Required is the force
// level that would have permitted the action, ForceNone when no flag
// applies.
type Decision struct {
	Action   Action
	Required ForceLevel
	Reason   string
}
