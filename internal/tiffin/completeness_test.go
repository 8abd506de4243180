package tiffin

import (
	"testing"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingCategories_KeepsRequiredOrder(t *testing.T) {
	lines := []model.CartLine{
		mainLine("p1", "Monday", "PROTEIN"),
		mainLine("v1", "Monday", "VEGGIES"),
	}

	assert.Equal(t, []string{"SIDES", "PROBIOTICS"}, MissingCategories(lines, DefaultRules()))
}

func TestMissingCategories_CaseInsensitive(t *testing.T) {
	lines := []model.CartLine{mainLine("v1", "Monday", "veggies")}

	missing := MissingCategories(lines, DefaultRules())

	assert.NotContains(t, missing, "VEGGIES")
	assert.Equal(t, []string{"PROTEIN", "SIDES", "PROBIOTICS"}, missing)
}

func TestMissingCategories_AddonsCount(t *testing.T) {
	lines := []model.CartLine{
		mainLine("p1", "Monday", "PROTEIN"),
		mainLine("v1", "Monday", "VEGGIES"),
		mainLine("s1", "Monday", "SIDES"),
		addonLine("a1", "Monday", "probiotics", 1),
	}

	assert.Empty(t, MissingCategories(lines, DefaultRules()))
}

func TestMissingCategories_EmptyLines(t *testing.T) {
	assert.Equal(t, []string{"PROTEIN", "VEGGIES", "SIDES", "PROBIOTICS"}, MissingCategories(nil, DefaultRules()))
}

func TestMissingCategories_CustomRules(t *testing.T) {
	rules := NewRules([]string{"protein", "dessert"}, nil)
	lines := []model.CartLine{mainLine("p1", "Monday", "Protein")}

	assert.Equal(t, []string{"DESSERT"}, MissingCategories(lines, rules))
}

func TestIncompleteDays(t *testing.T) {
	state := NewCartState()
	for _, c := range []string{"PROTEIN", "VEGGIES", "SIDES", "PROBIOTICS"} {
		state = TapMain(state, mainLine("m-"+c, "Monday", c))
	}
	state = TapMain(state, mainLine("p1", "Tuesday", "PROTEIN"))
	state = TapMain(state, mainLine("v1", "Tuesday", "VEGGIES"))

	statuses := IncompleteDays(GroupByDay(state.Lines, DefaultRules()), DefaultRules())

	require.Len(t, statuses, 1)
	assert.Equal(t, "Tuesday", statuses[0].Day)
	assert.Equal(t, []string{"SIDES", "PROBIOTICS"}, statuses[0].Missing)
}
