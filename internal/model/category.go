package model

import "strings"

// Category classifies a vocabulary term.
type Category string

const (
	CategoryPerson       Category = "person"
	CategoryPlace        Category = "place"
	CategoryMedical      Category = "medical"
	CategoryOrganization Category = "organization"
	CategoryTechnical    Category = "technical"
	CategoryUnknown      Category = "unknown"
)

// categoryRank maps categories to precedence ranks for conflict resolution.
// Lower rank wins: a Person suggestion beats a Technical one for the same term.
var categoryRank = map[Category]int{
	CategoryPerson:       0,
	CategoryPlace:        1,
	CategoryMedical:      2,
	CategoryOrganization: 3,
	CategoryTechnical:    4,
	CategoryUnknown:      5,
}

// Rank returns the category's precedence rank. Unrecognized categories rank
// below Unknown so they never win a conflict.
func (c Category) Rank() int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return len(categoryRank)
}

// IsProperNoun reports whether the category names people, places, or
// organizations. Proper nouns are exempt from frequency filtering and skip
// definition lookup.
func (c Category) IsProperNoun() bool {
	switch c {
	case CategoryPerson, CategoryPlace, CategoryOrganization:
		return true
	}
	return false
}

// ParseCategory normalizes a free-form category tag. Unrecognized or empty
// input maps to CategoryUnknown rather than failing.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryRank[c]; ok {
		return c
	}
	return CategoryUnknown
}

// KnownCategories returns all categories in precedence order. The order is
// stable; the meta-learner relies on it for one-hot feature layout.
func KnownCategories() []Category {
	return []Category{
		CategoryPerson, CategoryPlace, CategoryMedical,
		CategoryOrganization, CategoryTechnical, CategoryUnknown,
	}
}
