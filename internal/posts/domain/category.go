package domain

import "strings"

// Category is one of a fixed set of topics. The zero value means "no category".
type Category string

const (
	CategoryNone  Category = ""
	CategoryGame  Category = "game"
	CategoryStudy Category = "study"
	CategoryDev   Category = "dev"
)

// IsValid reports whether c is a known, non-empty category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGame, CategoryStudy, CategoryDev:
		return true
	default:
		return false
	}
}

// NormalizeCategory trims and lower-cases raw and maps it onto the enumeration.
// Unknown values collapse to CategoryNone instead of being rejected.
func NormalizeCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c.IsValid() {
		return c
	}
	return CategoryNone
}
