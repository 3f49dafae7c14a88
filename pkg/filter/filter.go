// Package filter selects the files of one source tree and maps them to
// their targets.
//
// Selection precedence:
//  1. with includes, only paths equal to or below an include are candidates,
//     otherwise every file under an applicable convention prefix is;
//  2. paths equal to or below an exclude are dropped, excludes always win;
//  3. map entries are added regardless of includes, files below a mapped
//     directory still honor excludes, and an exclude equal to a map key
//     drops that mapping.
//
// Prefixes are visited in convention order and later prefixes override
// earlier ones for the same target; map entries are applied last.
package filter

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dots/pkg/convention"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/types"
)

// Rules are the per-source filters
type Rules struct {
	Includes []string
	Excludes []string
	Map      map[string]string
}

// RulesFor extracts the filters of spec
func RulesFor(spec types.SourceSpec) Rules {
	return Rules{Includes: spec.Includes, Excludes: spec.Excludes, Map: spec.Map}
}

// Select maps the files of the source tree at root to their targets
func Select(fsys types.FS, root string, ctx types.RuntimeContext, rules Rules) (*types.Mapping, error) {
	logger := logging.GetLogger(logging.Filter)

	includes, err := normalizeAll(rules.Includes, ctx, convention.NormalizeInclude)
	if err != nil {
		return nil, err
	}
	excludes, err := normalizeAll(rules.Excludes, ctx, convention.NormalizeExclude)
	if err != nil {
		return nil, err
	}

	result := types.NewMapping()

	for _, prefix := range convention.ApplicablePrefixes(ctx) {
		dir := filepath.Join(root, filepath.FromSlash(prefix.Dir))
		if !filesystem.IsDir(fsys, dir) {
			continue
		}
		files, err := filesystem.ListFiles(fsys, dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
		}
		targetRoot := prefix.TargetRoot(ctx)
		for _, file := range files {
			rel := path.Join(prefix.Dir, file)
			if len(includes) > 0 && !withinAny(rel, includes) {
				continue
			}
			if withinAny(rel, excludes) {
				logger.Trace().Str("path", rel).Msg("Excluded")
				continue
			}
			result.Set(filepath.Join(targetRoot, filepath.FromSlash(file)), filepath.Join(root, filepath.FromSlash(rel)))
		}
	}

	if err := applyMap(fsys, root, ctx, rules.Map, excludes, result); err != nil {
		return nil, err
	}

	logger.Debug().Str("root", root).Int("targets", result.Len()).Msg("Source selected")
	return result, nil
}

func applyMap(fsys types.FS, root string, ctx types.RuntimeContext, manual map[string]string, excludes []string, result *types.Mapping) error {
	keys := make([]string, 0, len(manual))
	for key := range manual {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		rel, err := convention.CleanRelative(key)
		if err != nil {
			return err
		}
		target, err := MapTarget(manual[key], ctx)
		if err != nil {
			return err
		}
		if contains(excludes, rel) {
			continue
		}

		source := filepath.Join(root, filepath.FromSlash(rel))
		if !filesystem.Exists(fsys, source) {
			return errors.Newf(errors.ErrInvalidEntry, "mapped path %q does not exist in %s", key, root).
				WithDetail("entry", key)
		}

		if !filesystem.IsDir(fsys, source) {
			result.Set(target, source)
			continue
		}

		files, err := filesystem.ListFiles(fsys, source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", source)
		}
		for _, file := range files {
			if withinAny(path.Join(rel, file), excludes) {
				continue
			}
			result.Set(filepath.Join(target, filepath.FromSlash(file)), filepath.Join(source, filepath.FromSlash(file)))
		}
	}
	return nil
}

// Narrow keeps the entries of m whose source lies at or below one of
// includes and below none of excludes, both relative to root. It applies
// the relative filters of an enclosing composition to one of its trees.
func Narrow(m *types.Mapping, root string, ctx types.RuntimeContext, includes, excludes []string) (*types.Mapping, error) {
	inc, err := normalizeAll(includes, ctx, convention.NormalizeInclude)
	if err != nil {
		return nil, err
	}
	exc, err := normalizeAll(excludes, ctx, convention.NormalizeExclude)
	if err != nil {
		return nil, err
	}

	out := types.NewMapping()
	for _, entry := range m.Entries() {
		rel, err := filepath.Rel(root, entry.Source)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if len(inc) > 0 && !withinAny(rel, inc) {
			continue
		}
		if withinAny(rel, exc) {
			continue
		}
		out.Set(entry.Target, entry.Source)
	}
	return out, nil
}

// IsTargetPath reports whether a filter entry names an absolute target
// path (/ or ~ rooted) rather than a source-relative one
func IsTargetPath(entry string) bool {
	entry = strings.TrimSpace(entry)
	return entry == "~" || strings.HasPrefix(entry, "~/") || filepath.IsAbs(entry)
}

// MapTarget expands a map value and checks it is absolute
func MapTarget(value string, ctx types.RuntimeContext) (string, error) {
	expanded := strings.TrimSpace(value)
	if expanded == "~" {
		expanded = ctx.Home
	} else if strings.HasPrefix(expanded, "~/") {
		expanded = filepath.Join(ctx.Home, expanded[2:])
	}
	if !filepath.IsAbs(expanded) {
		return "", errors.Newf(errors.ErrInvalidEntry, "map target %q must be an absolute path", value).
			WithDetail("entry", value)
	}
	return filepath.Clean(expanded), nil
}

func normalizeAll(entries []string, ctx types.RuntimeContext, normalize func(string, types.RuntimeContext) (string, error)) ([]string, error) {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		n, err := normalize(entry, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// withinAny reports whether rel equals or descends from one of roots
func withinAny(rel string, roots []string) bool {
	for _, root := range roots {
		if rel == root || strings.HasPrefix(rel, root+"/") {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
