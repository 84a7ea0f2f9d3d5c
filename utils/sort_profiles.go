package utils

import (
	"strings"

	"github.com/cjsliuj/mppf/profile"
)

// ByName orders profiles by name, case-insensitively.
// Names equal when folded fall back to the exact name, then to the file path.
type ByName []profile.Profile

// Len ..
func (s ByName) Len() int {
	return len(s)
}

// Swap ...
func (s ByName) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Less ...
func (s ByName) Less(i, j int) bool {
	a, b := strings.ToLower(s[i].Name), strings.ToLower(s[j].Name)
	if a != b {
		return a < b
	}
	if s[i].Name != s[j].Name {
		return s[i].Name < s[j].Name
	}
	return s[i].FilePath < s[j].FilePath
}
