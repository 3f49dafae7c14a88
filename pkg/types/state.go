package types

// LinkState is the derived state of one target path
type LinkState int

const (
	// StateAbsent means nothing exists at the target
	StateAbsent LinkState = iota
	// StateCorrect means a tracked symlink points at the tracked source
	StateCorrect
	// StateIntended means a tracked symlink already points at the intended source
	StateIntended
	// StateDangling means a tracked symlink points at something that no longer exists
	StateDangling
	// StateForeign means a symlink dots does not own, or an unrecognized tracked one
	StateForeign
	// StatePlainFile means a non-symlink occupies the target
	StatePlainFile
)

var linkStateNames = map[LinkState]string{
	StateAbsent:    "absent",
	StateCorrect:   "correct",
	StateIntended:  "intended",
	StateDangling:  "dangling",
	StateForeign:   "foreign",
	StatePlainFile: "plain-file",
}

func (s LinkState) String() string {
	if name, ok := linkStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the state by name in json/yaml reports
func (s LinkState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Description explains the state in the words used by reports and prompts
func (s LinkState) Description() string {
	switch s {
	case StateAbsent:
		return "destination not found"
	case StateCorrect:
		return "destination is a tracked symlink pointing to the previously linked source"
	case StateIntended:
		return "destination is a symlink that points to the intended source"
	case StateDangling:
		return "destination is a dangling symlink"
	case StateForeign:
		return "destination is a symlink not owned by dots"
	case StatePlainFile:
		return "destination is not a symlink"
	default:
		return "unknown state"
	}
}
