// Package convention maps a runtime context onto the directory layout of a
// dotfile source tree.
//
// A source tree is organized by top-level directories:
//
//	root/                       linked under /
//	home/                       linked under $HOME
//	os/<os>/{root,home}/        only on that OS
//	user/<user>/{root,home}/    only for that user
//	<mgr>/{root,home}/          when the manager is active in home scope
//	<mgr>/os/<system>/...       when a system name is supplied
//	<mgr>/user/<name>/...       when a home-environment name is supplied
//
// where <mgr> is guix or nix. Every applicable prefix ends in a root/ or
// home/ leaf that selects the target root.
package convention

import (
	"path"
	"strings"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/types"
)

// Leaf names
const (
	LeafRoot = "root"
	LeafHome = "home"
)

// Placeholder expands to the matching context value in include paths
const Placeholder = "@"

// Prefix is one applicable subtree of a source
type Prefix struct {
	// Dir is the slash-separated path relative to the source root
	Dir string
	// Leaf is LeafRoot or LeafHome
	Leaf string
}

// TargetRoot returns the directory files below the prefix are linked into
func (p Prefix) TargetRoot(ctx types.RuntimeContext) string {
	if p.Leaf == LeafHome {
		return ctx.Home
	}
	if ctx.RootDir == "" {
		return "/"
	}
	return ctx.RootDir
}

// topLevel are the recognized top-level directory names
var topLevel = map[string]bool{
	LeafRoot:          true,
	LeafHome:          true,
	"os":              true,
	"user":            true,
	types.ManagerGuix: true,
	types.ManagerNix:  true,
}

// IsTopLevel reports whether name is a recognized top-level directory
func IsTopLevel(name string) bool {
	return topLevel[name]
}

func leaves(dir string) []Prefix {
	return []Prefix{
		{Dir: path.Join(dir, LeafRoot), Leaf: LeafRoot},
		{Dir: path.Join(dir, LeafHome), Leaf: LeafHome},
	}
}

// ApplicablePrefixes returns the prefixes that apply to ctx, in precedence
// order: later prefixes override earlier ones for the same target.
func ApplicablePrefixes(ctx types.RuntimeContext) []Prefix {
	prefixes := leaves("")
	if ctx.OS != "" {
		prefixes = append(prefixes, leaves(path.Join("os", ctx.OS))...)
	}
	if ctx.User != "" {
		prefixes = append(prefixes, leaves(path.Join("user", ctx.User))...)
	}
	for _, m := range ctx.Managers {
		switch m.Scope {
		case types.ScopeHome:
			prefixes = append(prefixes, leaves(m.Kind)...)
			if m.Name != "" {
				prefixes = append(prefixes, leaves(path.Join(m.Kind, "user", m.Name))...)
			}
		case types.ScopeSystem:
			if m.Name != "" {
				prefixes = append(prefixes, leaves(path.Join(m.Kind, "os", m.Name))...)
			}
		}
	}
	return dedupe(prefixes)
}

func dedupe(prefixes []Prefix) []Prefix {
	seen := make(map[string]bool, len(prefixes))
	out := prefixes[:0]
	for _, p := range prefixes {
		if seen[p.Dir] {
			continue
		}
		seen[p.Dir] = true
		out = append(out, p)
	}
	return out
}

// NormalizeInclude cleans an include path, checks that it starts at a
// recognized top-level directory and expands @ placeholders.
func NormalizeInclude(entry string, ctx types.RuntimeContext) (string, error) {
	return normalize(entry, ctx, true)
}

// NormalizeExclude cleans an exclude path and expands @ placeholders.
// Excludes may also name manually mapped paths outside the convention.
func NormalizeExclude(entry string, ctx types.RuntimeContext) (string, error) {
	return normalize(entry, ctx, false)
}

// CleanRelative cleans a slash-separated path relative to a source root.
// Absolute paths and paths escaping the root are InvalidEntry.
func CleanRelative(entry string) (string, error) {
	cleaned := path.Clean(strings.TrimSpace(strings.ReplaceAll(entry, "\\", "/")))
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "." || cleaned == "" || strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Newf(errors.ErrInvalidEntry, "entry %q must be a path relative to the source root", entry).
			WithDetail("entry", entry)
	}
	return cleaned, nil
}

func normalize(entry string, ctx types.RuntimeContext, requireTopLevel bool) (string, error) {
	cleaned, err := CleanRelative(entry)
	if err != nil {
		return "", err
	}

	parts := strings.Split(cleaned, "/")
	if requireTopLevel && !IsTopLevel(parts[0]) {
		return "", errors.Newf(errors.ErrInvalidEntry,
			"entry %q is outside the recognized top-level directories (root, home, os, user, guix, nix)", entry).
			WithDetail("entry", entry)
	}

	for i, part := range parts {
		if part != Placeholder {
			continue
		}
		value, err := placeholderValue(parts[:i], ctx)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidEntry, "cannot expand %q in %q", Placeholder, entry).
				WithDetail("entry", entry)
		}
		parts[i] = value
	}
	return strings.Join(parts, "/"), nil
}

func placeholderValue(before []string, ctx types.RuntimeContext) (string, error) {
	key := strings.Join(before, "/")
	var value string
	switch key {
	case "os":
		value = ctx.OS
	case "user":
		value = ctx.User
	case "guix/os", "nix/os":
		if m, ok := ctx.Manager(before[0], types.ScopeSystem); ok {
			value = m.Name
		}
	case "guix/user", "nix/user":
		if m, ok := ctx.Manager(before[0], types.ScopeHome); ok {
			value = m.Name
		}
	default:
		return "", errors.Newf(errors.ErrInvalidEntry, "placeholder not allowed after %q", key)
	}
	if value == "" {
		return "", errors.Newf(errors.ErrInvalidEntry, "no value available for %s/%s", key, Placeholder)
	}
	return value, nil
}
