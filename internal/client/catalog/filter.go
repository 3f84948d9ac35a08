// Package catalog narrows an already-fetched product list for display.
package catalog

import "github.com/aurawell/storefront/internal/client/apiclient"

// Option is a filter value with its display label.
type Option struct {
	Value string
	Label string
}

// Categories lists the category filter choices; the empty value means all.
var Categories = []Option{
	{"", "All Products"},
	{"vitamins", "Vitamins"},
	{"supplements", "Supplements"},
	{"aromatherapy", "Aromatherapy"},
}

// AgeGroups lists the age group filter choices; the empty value means all.
var AgeGroups = []Option{
	{"", "All Ages"},
	{"toddler", "Toddler"},
	{"child", "Children"},
	{"teen", "Teens"},
	{"adult", "Adults"},
	{"elderly", "Seniors"},
	{"all", "Universal"},
}

// UniversalAgeGroup marks products suitable for every age group.
const UniversalAgeGroup = "all"

// Criteria selects products. Empty fields match everything.
type Criteria struct {
	Category string
	AgeGroup string
}

// Match reports whether p satisfies c. Universal products match any age group.
func (c Criteria) Match(p apiclient.Product) bool {
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.AgeGroup != "" && p.AgeGroup != c.AgeGroup && p.AgeGroup != UniversalAgeGroup {
		return false
	}
	return true
}

// Filter returns the products matching c, preserving order.
func Filter(products []apiclient.Product, c Criteria) []apiclient.Product {
	out := make([]apiclient.Product, 0, len(products))
	for _, p := range products {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Label returns the display label for value in opts, or value itself.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Valid reports whether value is one of opts.
func Valid(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
