package types

import "strings"

// CategoryAll selects every category in directory listings.
const CategoryAll = "All"

// Categories is the fixed set profiles self-classify into, in display order.
var Categories = []string{
	"Technology",
	"Design",
	"Marketing",
	"Business",
	"Content Creator",
	"Developer",
	"Entrepreneur",
	"Artist",
	"Writer",
	"Journalist",
	"Photographer",
	"Musician",
	"Gamer",
	"Sports",
	"Fashion",
	"Food",
	"Travel",
	"Fitness",
	"Education",
	"Science",
	"Healthcare",
	"Finance",
	"Real Estate",
	"Crypto",
	"AI",
	"Startup",
	"Consulting",
	"Legal",
	"Nonprofit",
	"Government",
	"Other",
}

var categorySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		set[c] = struct{}{}
	}
	return set
}()

// ValidCategory reports whether value is a member of the category set. The
// match is exact; "All" is a filter value, not a category.
func ValidCategory(value string) bool {
	_, ok := categorySet[value]
	return ok
}

// SelectsAll reports whether a category filter should return every profile.
func SelectsAll(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || category == CategoryAll
}
