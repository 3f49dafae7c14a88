// Package resolver turns an ordered list of source specs into one
// target -> source mapping.
//
// Specs are resolved strictly in order. Each is materialized, filtered
// through the directory convention and merged into the running result:
// new targets are inserted, existing targets are overwritten only when the
// spec has replace set. Composition specs recurse into their nested specs.
// Any spec that cannot be materialized fails the whole resolution.
//
// Filters on a composition spec come in two shapes. Absolute (/ or ~
// rooted) entries match resolved target paths. Relative entries are source
// paths and narrow every plain tree the composition resolves, at any depth.
package resolver

import (
	"context"
	"strings"

	"github.com/arthur-debert/dots/pkg/composition"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/filter"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/materialize"
	"github.com/arthur-debert/dots/pkg/paths"
	"github.com/arthur-debert/dots/pkg/types"
)

// Resolver resolves source specs into a mapping
type Resolver struct {
	fs           types.FS
	materializer materialize.Materializer
	env          types.RuntimeContext
	maxDepth     int
}

// New creates a resolver. maxDepth bounds composition nesting; 0 disables
// the guard.
func New(fs types.FS, m materialize.Materializer, env types.RuntimeContext, maxDepth int) *Resolver {
	return &Resolver{fs: fs, materializer: m, env: env, maxDepth: maxDepth}
}

// Resolve resolves specs in order and merges their mappings
func (r *Resolver) Resolve(ctx context.Context, specs []types.SourceSpec) (*types.Mapping, error) {
	logger := logging.GetLogger(logging.Resolver)
	done := logging.LogOperationStart(logger, "resolve")
	defer done()

	result, err := r.resolveAll(ctx, specs, 0, nil)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("targets", result.Len()).Msg("Source set resolved")
	return result, nil
}

// sourceFilters are relative filters inherited from an enclosing
// composition spec
type sourceFilters struct {
	includes []string
	excludes []string
}

func (r *Resolver) resolveAll(ctx context.Context, specs []types.SourceSpec, depth int, outer []sourceFilters) (*types.Mapping, error) {
	result := types.NewMapping()
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mapping, err := r.resolveSpec(ctx, spec, depth, outer)
		if err != nil {
			return nil, err
		}
		result.Merge(mapping, spec.Replace)
	}
	return result, nil
}

func (r *Resolver) resolveSpec(ctx context.Context, spec types.SourceSpec, depth int, outer []sourceFilters) (*types.Mapping, error) {
	logger := logging.GetLogger(logging.Resolver)

	tree, err := r.materializer.Materialize(ctx, spec)
	if err != nil {
		return nil, err
	}

	if !tree.IsComposition() {
		mapping, err := filter.Select(r.fs, tree.Root, r.env, filter.RulesFor(spec))
		if err != nil {
			return nil, err
		}
		for _, f := range outer {
			mapping, err = filter.Narrow(mapping, tree.Root, r.env, f.includes, f.excludes)
			if err != nil {
				return nil, err
			}
		}
		logger.Debug().
			Str("source", spec.Path).
			Bool("replace", spec.Replace).
			Int("targets", mapping.Len()).
			Msg("Source resolved")
		return mapping, nil
	}

	if len(spec.Map) > 0 {
		return nil, errors.Newf(errors.ErrInvalidEntry, "map is not allowed on composition source %s", spec.Path).
			WithDetail("path", spec.Path)
	}
	if r.maxDepth > 0 && depth >= r.maxDepth {
		return nil, errors.Newf(errors.ErrInvalidEntry,
			"composition nesting deeper than %d at %s (is there a cycle?)", r.maxDepth, tree.Composition).
			WithDetail("path", tree.Composition)
	}

	targetIncludes, relIncludes := splitFilters(spec.Includes)
	targetExcludes, relExcludes := splitFilters(spec.Excludes)
	if len(relIncludes) > 0 || len(relExcludes) > 0 {
		outer = append(outer[:len(outer):len(outer)], sourceFilters{includes: relIncludes, excludes: relExcludes})
	}

	logger.Debug().Str("composition", tree.Composition).Int("depth", depth).Msg("Resolving composition")
	nested, err := r.resolveAll(ctx, tree.Specs, depth+1, outer)
	if err != nil {
		return nil, err
	}
	return r.filterTargets(nested, targetIncludes, targetExcludes)
}

// splitFilters separates absolute target paths from source-relative paths
func splitFilters(entries []string) (targets, relative []string) {
	for _, entry := range entries {
		if filter.IsTargetPath(entry) {
			targets = append(targets, entry)
		} else {
			relative = append(relative, entry)
		}
	}
	return targets, relative
}

// filterTargets applies a composition spec's absolute includes and
// excludes to the resolved target paths
func (r *Resolver) filterTargets(m *types.Mapping, includeEntries, excludeEntries []string) (*types.Mapping, error) {
	if len(includeEntries) == 0 && len(excludeEntries) == 0 {
		return m, nil
	}
	includes, err := r.targetPaths(includeEntries)
	if err != nil {
		return nil, err
	}
	excludes, err := r.targetPaths(excludeEntries)
	if err != nil {
		return nil, err
	}

	out := types.NewMapping()
	for _, entry := range m.Entries() {
		if len(includes) > 0 && !withinAny(entry.Target, includes) {
			continue
		}
		if withinAny(entry.Target, excludes) {
			continue
		}
		out.Set(entry.Target, entry.Source)
	}
	return out, nil
}

func (r *Resolver) targetPaths(entries []string) ([]string, error) {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		target, err := filter.MapTarget(entry, r.env)
		if err != nil {
			return nil, err
		}
		out = append(out, target)
	}
	return out, nil
}

func withinAny(target string, roots []string) bool {
	for _, root := range roots {
		if paths.IsWithin(target, root) {
			return true
		}
	}
	return false
}

// TopLevelSpec builds the spec for the target named on the command line.
// CLI includes and excludes are appended to its filters.
func TopLevelSpec(target string, opts types.Options) (types.SourceSpec, error) {
	spec := types.NewSourceSpec(strings.TrimSpace(target))
	if !composition.IsRemote(spec.Path) {
		abs, err := paths.ExpandAbs(spec.Path, "")
		if err != nil {
			return spec, errors.Wrapf(err, errors.ErrInvalidInput, "invalid target %s", target)
		}
		spec.Path = abs
	}
	spec.Includes = append(spec.Includes, opts.Includes...)
	spec.Excludes = append(spec.Excludes, opts.Excludes...)
	return spec, nil
}
