package tiffin

import (
	"testing"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mainsFor(state CartState, day, category string) []model.CartLine {
	var out []model.CartLine
	for _, l := range state.Lines {
		if l.Type == model.LineTypeMain && l.Day == day && l.Category == model.NormalizeCategory(category) {
			out = append(out, l)
		}
	}
	return out
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("Increment")
	require.NoError(t, err)
	assert.Equal(t, ActionIncrement, a)

	a, err = ParseAction("")
	require.NoError(t, err)
	assert.Equal(t, ActionTap, a)

	_, err = ParseAction("swipe")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestTapMain_SelectsAndDeselects(t *testing.T) {
	line := mainLine("m1", "Monday", "protein")

	state := TapMain(NewCartState(), line)
	require.Len(t, mainsFor(state, "Monday", "PROTEIN"), 1)

	state = TapMain(state, line)
	assert.Empty(t, mainsFor(state, "Monday", "PROTEIN"))
}

func TestTapMain_SecondMainEvictsFirst(t *testing.T) {
	state := TapMain(NewCartState(), mainLine("m1", "Monday", "PROTEIN"))
	state = TapMain(state, mainLine("m2", "Monday", "protein"))

	mains := mainsFor(state, "Monday", "PROTEIN")
	require.Len(t, mains, 1)
	assert.Equal(t, "m2", mains[0].ID)
}

func TestTapMain_OtherSlotsUntouched(t *testing.T) {
	state := TapMain(NewCartState(), mainLine("m1", "Monday", "PROTEIN"))
	state = TapMain(state, mainLine("v1", "Monday", "VEGGIES"))
	state = TapMain(state, mainLine("m1", "Tuesday", "PROTEIN"))
	state = state.AddLine(addonLine("a1", "Monday", "PROTEIN", 2))

	state = TapMain(state, mainLine("m2", "Monday", "PROTEIN"))

	assert.Equal(t, 4, state.Len())
	assert.Len(t, mainsFor(state, "Tuesday", "PROTEIN"), 1)
	assert.Len(t, mainsFor(state, "Monday", "VEGGIES"), 1)
	_, ok := state.Find(addonLine("a1", "Monday", "PROTEIN", 0).Key())
	assert.True(t, ok)
}

func TestTapMain_AlwaysQtyOne(t *testing.T) {
	line := mainLine("m1", "Monday", "PROTEIN")
	line.Qty = 4

	state := TapMain(NewCartState(), line)

	require.Equal(t, 1, state.Len())
	assert.Equal(t, 1, state.Lines[0].Qty)
}

func TestTapAddon_Toggles(t *testing.T) {
	line := addonLine("a1", "Monday", "SIDES", 0)

	state := TapAddon(NewCartState(), line)
	require.Equal(t, 1, state.Len())
	assert.Equal(t, 1, state.Lines[0].Qty)

	state = TapAddon(state, line)
	assert.Equal(t, 0, state.Len())
}

func TestAddons_CoexistInSameSlot(t *testing.T) {
	state := TapAddon(NewCartState(), addonLine("a1", "Monday", "SIDES", 0))
	state = TapAddon(state, addonLine("a2", "Monday", "SIDES", 0))
	state = IncrementAddon(state, addonLine("a2", "Monday", "SIDES", 0))

	require.Equal(t, 2, state.Len())
	a2, _ := state.Find(addonLine("a2", "Monday", "SIDES", 0).Key())
	assert.Equal(t, 2, a2.Qty)
}

func TestIncrementDecrementAddon(t *testing.T) {
	line := addonLine("a1", "Monday", "SIDES", 0)
	key := line.Key()

	state := IncrementAddon(NewCartState(), line)
	state = IncrementAddon(state, line)
	state = IncrementAddon(state, line)
	got, _ := state.Find(key)
	assert.Equal(t, 3, got.Qty)

	state = DecrementAddon(state, line)
	got, _ = state.Find(key)
	assert.Equal(t, 2, got.Qty)

	state = DecrementAddon(state, line)
	state = DecrementAddon(state, line)
	assert.Equal(t, 0, state.Len())

	// Decrement on an absent addon is a no-op
	assert.Equal(t, state, DecrementAddon(state, line))
}

func TestIncrementAddon_KeepsInsertionDate(t *testing.T) {
	line := addonLine("a1", "Monday", "SIDES", 0)
	line.Date = "Mon, 05 Jan 2026"
	state := IncrementAddon(NewCartState(), line)

	line.Date = "Mon, 12 Jan 2026"
	state = IncrementAddon(state, line)

	require.Equal(t, 1, state.Len())
	assert.Equal(t, "Mon, 05 Jan 2026", state.Lines[0].Date)
	assert.Equal(t, 2, state.Lines[0].Qty)
}

func TestSelect_Dispatch(t *testing.T) {
	state := Select(NewCartState(), ActionTap, mainLine("m1", "Monday", "PROTEIN"))
	assert.Equal(t, 1, state.Len())

	// Mains ignore +/- buttons
	assert.Equal(t, state, Select(state, ActionIncrement, mainLine("m2", "Monday", "PROTEIN")))

	state = Select(state, ActionIncrement, addonLine("a1", "Monday", "SIDES", 0))
	state = Select(state, ActionIncrement, addonLine("a1", "Monday", "SIDES", 0))
	a1, _ := state.Find(addonLine("a1", "Monday", "SIDES", 0).Key())
	assert.Equal(t, 2, a1.Qty)
}

func TestFavorites_Toggle(t *testing.T) {
	key := model.FavoriteKey{ID: "m1", VariantID: "m1-v1", Category: "protein", Day: "Monday"}

	var favs Favorites
	favs = favs.Toggle(key)
	assert.True(t, favs.Contains(key))
	assert.Equal(t, "PROTEIN", favs[0].Category)

	removed := favs.Toggle(model.FavoriteKey{ID: "m1", VariantID: "m1-v1", Category: "PROTEIN", Day: "Monday"})
	assert.False(t, removed.Contains(key))
	// Original set is untouched
	assert.True(t, favs.Contains(key))
}
