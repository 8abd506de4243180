package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	name, day, err := ParseWeekday("  wednesday ")
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", name)
	assert.Equal(t, time.Wednesday, day)

	_, _, err = ParseWeekday("Wed")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestParseLineType(t *testing.T) {
	lineType, err := ParseLineType("ADDON")
	require.NoError(t, err)
	assert.Equal(t, LineTypeAddon, lineType)

	_, err = ParseLineType("")
	assert.ErrorIs(t, err, ErrInvalidLineType)
}

func TestPrice_UnmarshalJSON(t *testing.T) {
	var line CartLine
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","price":12.50}`), &line))
	assert.Equal(t, Price("12.50"), line.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","price":" 7.5 "}`), &line))
	assert.Equal(t, Price("7.5"), line.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","price":null}`), &line))
	assert.Equal(t, Price(""), line.Price)
}

func TestCartLine_KeyAndPlan(t *testing.T) {
	plan := 2
	line := CartLine{ID: "1", VariantID: "9", Day: "Monday", Category: " protein", Type: LineTypeMain}
	assert.Equal(t, LineKey{ID: "1", VariantID: "9", Day: "Monday", Category: "PROTEIN", Type: LineTypeMain}, line.Key())
	assert.Equal(t, 1, line.Plan())

	line.TiffinPlan = &plan
	assert.Equal(t, 2, line.Plan())
}
