// Package config loads the dots tool configuration.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. path-derived defaults (trackfile and cache locations from pkg/paths)
//  2. the embedded defaults.toml
//  3. the user config file ($XDG_CONFIG_HOME/dots/config.toml or DOTS_CONFIG)
//  4. DOTS_* environment variables
//
// DOTS_MAX_DEPTH maps to max_depth, DOTS_ENV_OS to env.os, and
// DOTS_SYSTEM_NAME / DOTS_HOME_NAME to env.system_name / env.home_name.
package config
