package environment

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// Environment variables consumed verbatim as manager names
const (
	EnvSystemName = "DOTS_SYSTEM_NAME"
	EnvHomeName   = "DOTS_HOME_NAME"
)

// OSReleasePath is where the OS id is read from
const OSReleasePath = "/etc/os-release"

// Overrides replace detected values when non-empty
type Overrides struct {
	OS         string
	User       string
	Home       string
	SystemName string
	HomeName   string
	// Managers are "kind:scope" pairs; when set detection is skipped
	Managers []string
}

// Prober detects the runtime context
type Prober struct {
	fs      afero.Fs
	getenv  func(string) string
	rootDir string
}

// NewProber creates a prober reading from fs
func NewProber(fs afero.Fs) *Prober {
	return &Prober{fs: fs, getenv: os.Getenv, rootDir: "/"}
}

// WithGetenv replaces the environment lookup
func (p *Prober) WithGetenv(getenv func(string) string) *Prober {
	p.getenv = getenv
	return p
}

// WithRootDir sets the directory root/ leaves are linked under
func (p *Prober) WithRootDir(dir string) *Prober {
	p.rootDir = dir
	return p
}

// Probe builds the runtime context
func (p *Prober) Probe(o Overrides) (types.RuntimeContext, error) {
	logger := logging.GetLogger(logging.Environment)

	ctx := types.RuntimeContext{RootDir: p.rootDir}

	osID := o.OS
	if osID == "" {
		osID = p.osReleaseID()
	}
	if osID == "" {
		osID = runtime.GOOS
	}
	ctx.OS = osID

	ctx.User = o.User
	if ctx.User == "" {
		ctx.User = p.getenv("USER")
	}
	if ctx.User == "" {
		if u, err := user.Current(); err == nil {
			ctx.User = u.Username
		}
	}

	ctx.Home = o.Home
	if ctx.Home == "" {
		ctx.Home = p.getenv("HOME")
	}
	if ctx.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ctx, errors.Wrap(err, errors.ErrInternal, "cannot determine home directory")
		}
		ctx.Home = home
	}
	ctx.Home = filepath.Clean(ctx.Home)

	systemName := firstNonEmpty(p.getenv(EnvSystemName), o.SystemName)
	homeName := firstNonEmpty(p.getenv(EnvHomeName), o.HomeName)

	var managers []types.HomeManager
	if len(o.Managers) > 0 {
		parsed, err := ParseManagers(o.Managers)
		if err != nil {
			return ctx, err
		}
		managers = parsed
	} else {
		managers = p.detectManagers(ctx)
	}
	for i := range managers {
		if managers[i].Scope == types.ScopeSystem {
			managers[i].Name = systemName
		} else {
			managers[i].Name = homeName
		}
	}
	ctx.Managers = managers

	logger.Debug().
		Str("os", ctx.OS).
		Str("user", ctx.User).
		Str("home", ctx.Home).
		Int("managers", len(ctx.Managers)).
		Msg("Runtime context detected")

	return ctx, nil
}

// osReleaseID returns the ID field of /etc/os-release, or ""
func (p *Prober) osReleaseID() string {
	data, err := afero.ReadFile(p.fs, OSReleasePath)
	if err != nil {
		return ""
	}
	cfg, err := ini.Load(data)
	if err != nil {
		logger := logging.GetLogger(logging.Environment)
		logger.Debug().Err(err).Msg("Unreadable os-release")
		return ""
	}
	return strings.ToLower(strings.TrimSpace(cfg.Section("").Key("ID").String()))
}

func (p *Prober) detectManagers(ctx types.RuntimeContext) []types.HomeManager {
	var managers []types.HomeManager

	switch ctx.OS {
	case "guix":
		managers = append(managers, types.HomeManager{Kind: types.ManagerGuix, Scope: types.ScopeSystem})
	case "nixos":
		managers = append(managers, types.HomeManager{Kind: types.ManagerNix, Scope: types.ScopeSystem})
	}

	if p.anyExists(filepath.Join(ctx.Home, ".guix-home")) {
		managers = append(managers, types.HomeManager{Kind: types.ManagerGuix, Scope: types.ScopeHome})
	}
	if p.anyExists(
		filepath.Join(ctx.Home, ".nix-profile"),
		filepath.Join(ctx.Home, ".local", "state", "nix", "profiles", "home-manager"),
	) {
		managers = append(managers, types.HomeManager{Kind: types.ManagerNix, Scope: types.ScopeHome})
	}
	return managers
}

func (p *Prober) anyExists(paths ...string) bool {
	for _, path := range paths {
		if _, err := p.fs.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// ParseManagers parses "kind:scope" pairs. Scope defaults to home.
func ParseManagers(values []string) ([]types.HomeManager, error) {
	var managers []types.HomeManager
	for _, value := range values {
		kind, scope, _ := strings.Cut(strings.TrimSpace(value), ":")
		kind = strings.ToLower(kind)
		if kind != types.ManagerGuix && kind != types.ManagerNix {
			return nil, errors.Newf(errors.ErrInvalidInput, "unknown home manager %q", value)
		}
		m := types.HomeManager{Kind: kind, Scope: types.ScopeHome}
		switch strings.ToLower(scope) {
		case "", string(types.ScopeHome):
		case string(types.ScopeSystem):
			m.Scope = types.ScopeSystem
		default:
			return nil, errors.Newf(errors.ErrInvalidInput, "unknown home manager scope in %q", value)
		}
		managers = append(managers, m)
	}
	return managers, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// String renders a manager as "kind:scope[:name]"
func String(m types.HomeManager) string {
	if m.Name == "" {
		return fmt.Sprintf("%s:%s", m.Kind, m.Scope)
	}
	return fmt.Sprintf("%s:%s:%s", m.Kind, m.Scope, m.Name)
}
