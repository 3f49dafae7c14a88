// Package types defines the data model shared by the resolver and the
// reconciliation engine: source specs, resolved mappings, track entries,
// link states, force levels and the runtime context.
package types
