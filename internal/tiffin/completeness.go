package tiffin

import (
	"github.com/ikkim/tiffin-backend/internal/app/model"
)

// DayStatus reports the categories a day still lacks.
type DayStatus struct {
	Day     string   `json:"day"`
	Missing []string `json:"missing"`
}

// MissingCategories returns the required categories absent from lines, in
// the required order. Mains and addons both count towards a category.
func MissingCategories(lines []model.CartLine, rules Rules) []string {
	present := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		present[model.NormalizeCategory(line.Category)] = struct{}{}
	}

	missing := []string{}
	for _, category := range rules.RequiredCategories {
		category = model.NormalizeCategory(category)
		if _, ok := present[category]; !ok {
			missing = append(missing, category)
		}
	}
	return missing
}

func (g DayGroup) Missing(rules Rules) []string {
	return MissingCategories(g.Lines(), rules)
}

// IncompleteDays lists the groups that still miss a required category.
func IncompleteDays(groups []DayGroup, rules Rules) []DayStatus {
	out := []DayStatus{}
	for _, g := range groups {
		if missing := g.Missing(rules); len(missing) > 0 {
			out = append(out, DayStatus{Day: g.Day, Missing: missing})
		}
	}
	return out
}
