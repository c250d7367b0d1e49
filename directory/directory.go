// Package directory holds the pure view-model rules applied to profile
// listings: canonical ordering, free-text search and category filtering.
package directory

import (
	"sort"
	"strings"

	"github.com/Harshan-Nayak/xlist/pkg/types"
)

// Sort returns a copy of profiles in directory order: follower count
// descending (missing counts rank as 0), then creation time descending.
// Full ties keep their input order.
func Sort(profiles []types.Profile) []types.Profile {
	out := make([]types.Profile, len(profiles))
	copy(out, profiles)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Less reports whether a ranks ahead of b in directory order.
func Less(a, b types.Profile) bool {
	if fa, fb := a.Followers(), b.Followers(); fa != fb {
		return fa > fb
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Search returns the profiles whose username, handle, category, bio or
// location contains query, compared case-insensitively. Input order is kept.
// A blank query returns profiles unchanged.
func Search(profiles []types.Profile, query string) []types.Profile {
	if strings.TrimSpace(query) == "" {
		return profiles
	}
	needle := strings.ToLower(query)
	out := make([]types.Profile, 0, len(profiles))
	for _, p := range profiles {
		if Matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether one of the searchable fields contains the already
// lower-cased needle.
func Matches(p types.Profile, needle string) bool {
	for _, field := range []string{p.Username, p.XHandle, p.Category, p.Bio, p.Location} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FilterByCategory keeps profiles in category. "" and "All" keep everything.
func FilterByCategory(profiles []types.Profile, category string) []types.Profile {
	if types.SelectsAll(category) {
		return profiles
	}
	category = strings.TrimSpace(category)
	out := make([]types.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
