package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvConfigFile points at an alternative config file
const EnvConfigFile = "DOTS_CONFIG"

// Output formats accepted by the output key
var validOutputs = map[string]bool{"text": true, "json": true, "yaml": true}

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "raw bytes provider does not support Read")
}

// Config is the resolved tool configuration
type Config struct {
	Trackfile string    `koanf:"trackfile"`
	CacheDir  string    `koanf:"cache_dir"`
	Target    string    `koanf:"target"`
	MaxDepth  int       `koanf:"max_depth"`
	Output    string    `koanf:"output"`
	Env       EnvConfig `koanf:"env"`
}

// ReposDir is where remote sources are cloned
func (c *Config) ReposDir() string {
	return filepath.Join(c.CacheDir, paths.ReposDirName)
}

// EnvConfig overrides parts of the detected runtime environment
type EnvConfig struct {
	OS         string   `koanf:"os"`
	User       string   `koanf:"user"`
	SystemName string   `koanf:"system_name"`
	HomeName   string   `koanf:"home_name"`
	Managers   []string `koanf:"managers"`
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// Paths supplies the default locations; paths.New() when nil
	Paths paths.Paths
	// ConfigFile overrides the config file location
	ConfigFile string
}

// Load builds the configuration from all layers
func Load(opts LoadOptions) (*Config, error) {
	p := opts.Paths
	if p == nil {
		p = paths.New()
	}

	k := koanf.New(".")

	// 1. Path-derived defaults
	base := map[string]interface{}{
		"trackfile": p.TrackfilePath(),
		"cache_dir": p.CacheDir(),
	}
	if err := k.Load(confmap.Provider(base, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load path defaults")
	}

	// 2. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 3. User config file
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = os.Getenv(EnvConfigFile)
	}
	if configFile == "" {
		configFile = p.ConfigFilePath()
	}
	configFile = paths.ExpandHome(configFile)
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configFile)
		}
	} else if opts.ConfigFile != "" {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", configFile)
	}

	// 4. Environment
	if err := k.Load(env.Provider("DOTS_", ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps DOTS_* variable names onto config keys
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "DOTS_"))
	switch {
	case strings.HasPrefix(key, "env_"):
		return "env." + strings.TrimPrefix(key, "env_")
	case key == "system_name" || key == "home_name":
		return "env." + key
	default:
		return key
	}
}

func postProcess(cfg *Config) error {
	cfg.Trackfile = paths.ExpandPath(cfg.Trackfile)
	cfg.CacheDir = paths.ExpandPath(cfg.CacheDir)
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	if cfg.Output == "" {
		cfg.Output = "text"
	}
	if !validOutputs[cfg.Output] {
		return errors.Newf(errors.ErrConfigParse, "invalid output format %q (want text, json or yaml)", cfg.Output)
	}
	if cfg.MaxDepth < 0 {
		return errors.Newf(errors.ErrConfigParse, "max_depth must not be negative, got %d", cfg.MaxDepth)
	}
	if cfg.Trackfile == "" {
		return errors.New(errors.ErrConfigParse, "trackfile path must not be empty")
	}

	managers := cfg.Env.Managers[:0]
	for _, m := range cfg.Env.Managers {
		if m = strings.TrimSpace(m); m != "" {
			managers = append(managers, m)
		}
	}
	cfg.Env.Managers = managers
	return nil
}
