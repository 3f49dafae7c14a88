package types

// SourceSpec declares one dotfile source. Order in a sequence of specs is
// significant: later specs are merged after earlier ones.
type SourceSpec struct {
	// Path is a local directory, a remote repository URL or a composition file
	Path string `json:"path" yaml:"path" toml:"path"`

	// Replace controls merging: when true this spec's targets overwrite
	// targets already claimed by earlier specs
	Replace bool `json:"replace" yaml:"replace" toml:"replace"`

	// Includes are source-relative paths; when non-empty only paths equal to
	// or below one of them are candidates
	Includes []string `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty"`

	// Excludes are source-relative paths that are never selected
	Excludes []string `json:"excludes,omitempty" yaml:"excludes,omitempty" toml:"excludes,omitempty"`

	// Map routes a source-relative path to an explicit absolute target
	Map map[string]string `json:"map,omitempty" yaml:"map,omitempty" toml:"map,omitempty"`

	// Plain forces the path to be read as a bare source tree even when it
	// contains a composition file
	Plain bool `json:"-" yaml:"-" toml:"-"`
}

// NewSourceSpec returns a spec for path with the default replace=true.
func NewSourceSpec(path string) SourceSpec {
	return SourceSpec{Path: path, Replace: true}
}

// Mapping is an insertion-ordered map from absolute target path to absolute
// source path. Keys are unique; overwriting a key keeps its position.
type Mapping struct {
	order   []string
	sources map[string]string
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{sources: make(map[string]string)}
}

// Set inserts or overwrites target
func (m *Mapping) Set(target, source string) {
	if m.sources == nil {
		m.sources = make(map[string]string)
	}
	if _, ok := m.sources[target]; !ok {
		m.order = append(m.order, target)
	}
	m.sources[target] = source
}

// Get returns the source for target
func (m *Mapping) Get(target string) (string, bool) {
	if m == nil {
		return "", false
	}
	source, ok := m.sources[target]
	return source, ok
}

// Has reports whether target is mapped
func (m *Mapping) Has(target string) bool {
	_, ok := m.Get(target)
	return ok
}

// Delete removes target
func (m *Mapping) Delete(target string) {
	if _, ok := m.sources[target]; !ok {
		return
	}
	delete(m.sources, target)
	for i, t := range m.order {
		if t == target {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Targets returns the targets in insertion order
func (m *Mapping) Targets() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of targets
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Entries returns the mapping as track entries in insertion order
func (m *Mapping) Entries() []TrackEntry {
	if m == nil {
		return nil
	}
	entries := make([]TrackEntry, 0, len(m.order))
	for _, target := range m.order {
		entries = append(entries, TrackEntry{Target: target, Source: m.sources[target]})
	}
	return entries
}

// Merge folds other into m. New targets are inserted; existing targets are
// overwritten only when replace is true.
func (m *Mapping) Merge(other *Mapping, replace bool) {
	for _, target := range other.Targets() {
		source, _ := other.Get(target)
		if m.Has(target) && !replace {
			continue
		}
		m.Set(target, source)
	}
}

// TrackEntry records one symlink owned by dots
type TrackEntry struct {
	Target string `json:"target" yaml:"target" toml:"target"`
	Source string `json:"source" yaml:"source" toml:"source"`
}
