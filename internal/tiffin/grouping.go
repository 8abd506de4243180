package tiffin

import (
	"sort"

	"github.com/ikkim/tiffin-backend/internal/app/model"
)

// PlanGroup is one tiffin box of a day.
type PlanGroup struct {
	Plan  int              `json:"plan"`
	Items []model.CartLine `json:"items"`
}

// DayGroup is the per-day projection of the cart used for display and checkout.
type DayGroup struct {
	Day         string           `json:"day"`
	Mains       []model.CartLine `json:"mains"`
	TiffinPlans []PlanGroup      `json:"tiffin_plans"`
	Addons      []model.CartLine `json:"addons"`
}

// Lines returns the day's mains followed by its addons.
func (g DayGroup) Lines() []model.CartLine {
	out := make([]model.CartLine, 0, len(g.Mains)+len(g.Addons))
	out = append(out, g.Mains...)
	return append(out, g.Addons...)
}

// GroupByDay projects lines into days, in order of first appearance. Days
// without lines never show up. Mains are bucketed by tiffin plan (ascending)
// and each bucket is ordered by the category rank, unranked categories last
// in input order.
func GroupByDay(lines []model.CartLine, rules Rules) []DayGroup {
	groups := []DayGroup{}
	byDay := make(map[string]int)

	for _, line := range lines {
		i, ok := byDay[line.Day]
		if !ok {
			i = len(groups)
			byDay[line.Day] = i
			groups = append(groups, DayGroup{
				Day:         line.Day,
				Mains:       []model.CartLine{},
				TiffinPlans: []PlanGroup{},
				Addons:      []model.CartLine{},
			})
		}
		switch line.Type {
		case model.LineTypeMain:
			groups[i].Mains = append(groups[i].Mains, line)
		case model.LineTypeAddon:
			groups[i].Addons = append(groups[i].Addons, line)
		}
	}

	for i := range groups {
		groups[i].TiffinPlans = groupByPlan(groups[i].Mains, rules)
	}
	return groups
}

func groupByPlan(mains []model.CartLine, rules Rules) []PlanGroup {
	buckets := make(map[int][]model.CartLine)
	var plans []int
	for _, line := range mains {
		plan := line.Plan()
		if _, ok := buckets[plan]; !ok {
			plans = append(plans, plan)
		}
		buckets[plan] = append(buckets[plan], line)
	}
	sort.Ints(plans)

	out := make([]PlanGroup, 0, len(plans))
	for _, plan := range plans {
		items := buckets[plan]
		sort.SliceStable(items, func(a, b int) bool {
			return rules.rank(items[a].Category) < rules.rank(items[b].Category)
		})
		out = append(out, PlanGroup{Plan: plan, Items: items})
	}
	return out
}
