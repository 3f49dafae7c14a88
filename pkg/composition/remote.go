package composition

import (
	"regexp"
	"strings"
)

var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9._-]+:[^/]`)

var remoteSchemes = []string{"http://", "https://", "ssh://", "git://", "file://", "git+ssh://"}

// IsRemote reports whether path is a git repository URL rather than a
// local path
func IsRemote(path string) bool {
	lower := strings.ToLower(path)
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return scpLike.MatchString(path)
}
