// Package composition reads composition files: ordered lists of dotfile
// sources written in TOML or YAML.
//
//	requires = ">= 0.2.0"
//
//	[[dotfiles]]
//	path = "~/src/dotfiles"
//	excludes = ["home/.cache"]
//
//	[[dotfiles]]
//	path = "https://example.org/team/dotfiles.git"
//	replace = false
//
// Files are validated against an embedded JSON Schema. Relative paths are
// resolved against the directory holding the file.
package composition

import (
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/paths"
	"github.com/arthur-debert/dots/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileNames mark a directory as a composition, in lookup order
var FileNames = []string{"dots.toml", ".dots.toml", "dots.yaml", "dots.yml"}

// SelfPath names the directory holding the composition file
const SelfPath = "."

// Document is a parsed composition file
type Document struct {
	// Path is the absolute path of the file
	Path     string  `toml:"-" yaml:"-"`
	Requires string  `toml:"requires" yaml:"requires"`
	Dotfiles []Entry `toml:"dotfiles" yaml:"dotfiles"`
}

// Entry is one [[dotfiles]] table
type Entry struct {
	Path     string            `toml:"path" yaml:"path"`
	Replace  *bool             `toml:"replace" yaml:"replace"`
	Includes []string          `toml:"includes" yaml:"includes"`
	Excludes []string          `toml:"excludes" yaml:"excludes"`
	Map      map[string]string `toml:"map" yaml:"map"`
}

// Dir returns the directory relative entries resolve against
func (d *Document) Dir() string {
	return filepath.Dir(d.Path)
}

// IsCompositionFile reports whether path names a composition file by its
// extension
func IsCompositionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// FindInDir returns the composition file inside dir, if any
func FindInDir(fsys types.FS, dir string) (string, bool) {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if info, err := fsys.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Load reads, validates and parses the composition file at path.
// toolVersion is checked against the file's requires constraint.
func Load(fsys types.FS, path, toolVersion string) (*Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable, "cannot read composition file %s", path).
			WithDetail("path", path)
	}
	doc, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := CheckRequires(doc, toolVersion); err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse decodes and validates data read from path
func Parse(path string, data []byte) (*Document, error) {
	logger := logging.GetLogger(logging.Composition)

	yamlSyntax := isYAML(path)

	var raw interface{}
	if yamlSyntax {
		err := yaml.Unmarshal(data, &raw)
		if err != nil {
			return nil, invalid(path, err, "invalid YAML")
		}
	} else {
		var table map[string]interface{}
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, invalid(path, err, "invalid TOML")
		}
		raw = table
	}

	if raw == nil {
		raw = map[string]interface{}{}
	}
	if issues, err := validate(raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "cannot validate %s", path)
	} else if len(issues) > 0 {
		return nil, errors.Newf(errors.ErrInvalidEntry, "composition file %s is invalid: %s", path, issues[0]).
			WithDetail("path", path).
			WithDetail("issues", issues)
	}

	doc := &Document{}
	var err error
	if yamlSyntax {
		err = yaml.Unmarshal(data, doc)
	} else {
		err = toml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, invalid(path, err, "cannot decode composition file")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}
	doc.Path = abs

	logger.Debug().Str("path", abs).Int("entries", len(doc.Dotfiles)).Msg("Composition file parsed")
	return doc, nil
}

// CheckRequires verifies the tool version against the requires constraint.
// Development builds skip the check.
func CheckRequires(doc *Document, toolVersion string) error {
	if doc.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(doc.Requires)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidEntry, "invalid requires constraint %q in %s", doc.Requires, doc.Path).
			WithDetail("path", doc.Path)
	}
	version, err := semver.NewVersion(toolVersion)
	if err != nil {
		logger := logging.GetLogger(logging.Composition)
		logger.Debug().
			Str("version", toolVersion).
			Msg("Skipping requires check for development build")
		return nil
	}
	if !constraint.Check(version) {
		return errors.Newf(errors.ErrInvalidEntry, "%s requires dots %s, this is %s", doc.Path, doc.Requires, toolVersion).
			WithDetail("path", doc.Path)
	}
	return nil
}

// Specs converts the document into source specs. Paths are expanded and
// resolved against the file's directory; an entry naming that directory
// is read as a plain source tree. With implicitSelf, a plain entry for
// the directory is prepended unless one is already listed.
func (d *Document) Specs(implicitSelf bool) ([]types.SourceSpec, error) {
	dir := d.Dir()
	specs := make([]types.SourceSpec, 0, len(d.Dotfiles)+1)
	hasSelf := false

	for i, entry := range d.Dotfiles {
		spec := types.SourceSpec{
			Path:     entry.Path,
			Replace:  entry.Replace == nil || *entry.Replace,
			Includes: entry.Includes,
			Excludes: entry.Excludes,
			Map:      entry.Map,
		}
		if !IsRemote(entry.Path) {
			abs, err := paths.ExpandAbs(entry.Path, dir)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInvalidEntry, "dotfiles[%d] in %s has an invalid path", i, d.Path)
			}
			spec.Path = abs
			if abs == dir {
				spec.Plain = true
				hasSelf = true
			}
		}
		specs = append(specs, spec)
	}

	if implicitSelf && !hasSelf {
		self := types.NewSourceSpec(dir)
		self.Plain = true
		specs = append([]types.SourceSpec{self}, specs...)
	}
	return specs, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func invalid(path string, err error, message string) error {
	return errors.Wrapf(err, errors.ErrInvalidEntry, "%s: %s", message, path).WithDetail("path", path)
}
