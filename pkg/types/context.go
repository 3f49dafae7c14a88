package types

// Scope is where a home manager is active
type Scope string

const (
	ScopeHome   Scope = "home"
	ScopeSystem Scope = "system"
)

// Home manager kinds recognized as top-level source directories
const (
	ManagerGuix = "guix"
	ManagerNix  = "nix"
)

// HomeManager is one active declarative environment activation
type HomeManager struct {
	Kind  string `json:"kind" yaml:"kind"`
	Scope Scope  `json:"scope" yaml:"scope"`
	// Name is the system name (system scope) or the home-environment name
	// (home scope); empty when not supplied
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// RuntimeContext classifies the environment of one run. It is computed once
// and read-only afterwards.
type RuntimeContext struct {
	OS       string        `json:"os" yaml:"os"`
	User     string        `json:"user" yaml:"user"`
	Home     string        `json:"home" yaml:"home"`
	Managers []HomeManager `json:"managers,omitempty" yaml:"managers,omitempty"`

	// RootDir is the target root for root/ leaves, "/" outside of tests
	RootDir string `json:"root_dir" yaml:"root_dir"`
}

// Manager returns the active manager of kind in scope
func (c RuntimeContext) Manager(kind string, scope Scope) (HomeManager, bool) {
	for _, m := range c.Managers {
		if m.Kind == kind && m.Scope == scope {
			return m, true
		}
	}
	return HomeManager{}, false
}
