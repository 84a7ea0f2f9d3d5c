// Package selection decides which provisioning profiles a clean run removes.
//
// Every function is pure: the input slice is never modified and the same input
// always yields the same output, independent of the input's order.
package selection

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cjsliuj/mppf/profile"
)

// DuplicatePolicy tells Select which members of a duplicate group to remove.
type DuplicatePolicy int

const (
	// KeepLatest removes every member of a group but the most recently created one.
	KeepLatest DuplicatePolicy = iota
	// RemoveAll removes the whole group.
	RemoveAll
)

// Criteria ...
type Criteria struct {
	Expired bool
	Now     time.Time

	// Pattern is disabled when empty.
	Pattern string

	Duplicates      bool
	DuplicatePolicy DuplicatePolicy
}

// Group is a set of profiles sharing the same Name, ordered by CreationDate.
type Group struct {
	Name     string
	Profiles []profile.Profile
}

// Latest returns the most recently created member.
func (g Group) Latest() profile.Profile {
	return g.Profiles[len(g.Profiles)-1]
}

// Older returns every member but the latest.
func (g Group) Older() []profile.Profile {
	return g.Profiles[:len(g.Profiles)-1]
}

// Result holds the profiles selected by each criterion. A profile appears in at
// most one of Expired, Matched and Duplicates.
type Result struct {
	Expired    []profile.Profile
	Matched    []profile.Profile
	Duplicates []Group

	// RemovedDuplicates are the duplicate group members to delete under the policy,
	// Retained the ones kept.
	RemovedDuplicates []profile.Profile
	Retained          []profile.Profile
}

// ToDelete returns every selected profile once, in category order.
func (r Result) ToDelete() []profile.Profile {
	var profiles []profile.Profile
	profiles = append(profiles, r.Expired...)
	profiles = append(profiles, r.Matched...)
	profiles = append(profiles, r.RemovedDuplicates...)
	return profiles
}

// Count ...
func (r Result) Count() int {
	return len(r.Expired) + len(r.Matched) + len(r.RemovedDuplicates)
}

// Select applies the enabled criteria in a fixed order: expiry, pattern, duplicates.
// Each step only sees the profiles earlier steps left unselected.
func Select(profiles []profile.Profile, criteria Criteria) Result {
	var result Result

	remaining := make([]int, len(profiles))
	for i := range profiles {
		remaining[i] = i
	}

	if criteria.Expired {
		var selected []int
		selected, remaining = partition(remaining, func(i int) bool {
			return profiles[i].IsExpired(criteria.Now)
		})
		result.Expired = pick(profiles, selected)
	}

	if criteria.Pattern != "" {
		matcher := newPatternMatcher(criteria.Pattern)

		var selected []int
		selected, remaining = partition(remaining, func(i int) bool {
			return matcher.match(profiles[i].Name)
		})
		result.Matched = pick(profiles, selected)
	}

	if criteria.Duplicates {
		result.Duplicates = DuplicateGroups(pick(profiles, remaining))

		for _, group := range result.Duplicates {
			switch criteria.DuplicatePolicy {
			case RemoveAll:
				result.RemovedDuplicates = append(result.RemovedDuplicates, group.Profiles...)
			default:
				result.RemovedDuplicates = append(result.RemovedDuplicates, group.Older()...)
				result.Retained = append(result.Retained, group.Latest())
			}
		}
	}

	return result
}

// Expired returns the profiles whose expiration date is strictly before now.
func Expired(profiles []profile.Profile, now time.Time) []profile.Profile {
	var expired []profile.Profile
	for _, p := range profiles {
		if p.IsExpired(now) {
			expired = append(expired, p)
		}
	}
	return expired
}

// MatchPattern returns the profiles whose name starts with a match of pattern as a
// regular expression, or contains pattern literally.
// An invalid regular expression falls back to the literal test alone.
func MatchPattern(profiles []profile.Profile, pattern string) []profile.Profile {
	matcher := newPatternMatcher(pattern)

	var matched []profile.Profile
	for _, p := range profiles {
		if matcher.match(p.Name) {
			matched = append(matched, p)
		}
	}
	return matched
}

// DuplicateGroups groups profiles by exact name and returns the groups with more
// than one member, ordered by name. Members are ordered by creation date;
// equal dates are ordered by file path, then UUID.
func DuplicateGroups(profiles []profile.Profile) []Group {
	byName := map[string][]profile.Profile{}
	for _, p := range profiles {
		byName[p.Name] = append(byName[p.Name], p)
	}

	var groups []Group
	for name, members := range byName {
		if len(members) <= 1 {
			continue
		}

		sorted := append([]profile.Profile(nil), members...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return createdBefore(sorted[i], sorted[j])
		})
		groups = append(groups, Group{Name: name, Profiles: sorted})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})

	return groups
}

func createdBefore(a, b profile.Profile) bool {
	if !a.CreationDate.Equal(b.CreationDate) {
		return a.CreationDate.Before(b.CreationDate)
	}
	if a.FilePath != b.FilePath {
		return a.FilePath < b.FilePath
	}
	return a.UUID < b.UUID
}

type patternMatcher struct {
	literal string
	prefix  *regexp.Regexp
}

func newPatternMatcher(pattern string) patternMatcher {
	matcher := patternMatcher{literal: pattern}
	if _, err := regexp.Compile(pattern); err != nil {
		return matcher
	}
	// Wrapping adds a nesting level, so it can fail even when the bare pattern compiles.
	if prefix, err := regexp.Compile(`^(?:` + pattern + `)`); err == nil {
		matcher.prefix = prefix
	}
	return matcher
}

func (m patternMatcher) match(name string) bool {
	if m.prefix != nil && m.prefix.MatchString(name) {
		return true
	}
	return strings.Contains(name, m.literal)
}

func partition(indices []int, selected func(int) bool) ([]int, []int) {
	var in, out []int
	for _, i := range indices {
		if selected(i) {
			in = append(in, i)
		} else {
			out = append(out, i)
		}
	}
	return in, out
}

func pick(profiles []profile.Profile, indices []int) []profile.Profile {
	var picked []profile.Profile
	for _, i := range indices {
		picked = append(picked, profiles[i])
	}
	return picked
}
