// Package linkstate classifies what currently occupies a target path.
package linkstate

import (
	"path/filepath"

	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/types"
)

// Tracker looks up the source recorded for a target
type Tracker interface {
	Lookup(target string) (string, bool)
}

// Classify returns the state of target. intended is the source the current
// run wants to link, empty when there is none (unlink, status).
//
//	nothing at target                         -> Absent
//	not a symlink                             -> PlainFile
//	symlink, untracked                        -> Foreign
//	tracked, destination missing              -> Dangling
//	tracked, points at intended               -> Intended
//	tracked, points at the tracked source     -> Correct
//	tracked, points elsewhere                 -> Foreign
func Classify(fsys types.FS, target, intended string, tracker Tracker) types.LinkState {
	if !filesystem.Exists(fsys, target) {
		return types.StateAbsent
	}
	if !filesystem.IsSymlink(fsys, target) {
		return types.StatePlainFile
	}

	tracked, ok := tracker.Lookup(target)
	if !ok {
		return types.StateForeign
	}

	dest, err := filesystem.ReadSymlinkDestination(fsys, target)
	if err != nil {
		return types.StateForeign
	}
	if _, err := fsys.Stat(dest); err != nil {
		return types.StateDangling
	}
	if intended != "" && dest == filepath.Clean(intended) {
		return types.StateIntended
	}
	if dest == filepath.Clean(tracked) {
		return types.StateCorrect
	}
	return types.StateForeign
}
