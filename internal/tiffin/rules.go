// Package tiffin holds the cart engine for weekly tiffin orders: the cart line
// store, the selection rules for mains and addons, the day/plan grouping and
// the category completeness check. Everything here is pure; callers own the
// state and serialize writes.
package tiffin

import (
	"slices"

	"github.com/ikkim/tiffin-backend/internal/app/model"
)

var defaultCategories = []string{"PROTEIN", "VEGGIES", "SIDES", "PROBIOTICS"}

// Rules carries the category lists used by grouping and validation.
type Rules struct {
	// RequiredCategories must all be present for a day to be complete.
	RequiredCategories []string
	// CategoryRank orders items inside a tiffin plan.
	CategoryRank []string
}

func DefaultRules() Rules {
	return Rules{
		RequiredCategories: slices.Clone(defaultCategories),
		CategoryRank:       slices.Clone(defaultCategories),
	}
}

// NewRules normalizes the given lists. An empty list falls back to the
// default PROTEIN, VEGGIES, SIDES, PROBIOTICS order.
func NewRules(required, rank []string) Rules {
	rules := DefaultRules()
	if n := normalizeAll(required); len(n) > 0 {
		rules.RequiredCategories = n
	}
	if n := normalizeAll(rank); len(n) > 0 {
		rules.CategoryRank = n
	}
	return rules
}

func normalizeAll(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = model.NormalizeCategory(c)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r Rules) rank(category string) int {
	if i := slices.Index(r.CategoryRank, model.NormalizeCategory(category)); i >= 0 {
		return i
	}
	return len(r.CategoryRank)
}
