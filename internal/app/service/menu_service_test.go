package service

import (
	"context"
	"testing"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/app/repository"
	"github.com/ikkim/tiffin-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMenuServiceTest(t *testing.T) MenuService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	thresholdRepo := repository.NewThresholdRepository(testDB)
	require.NoError(t, thresholdRepo.Upsert([]model.PriceThreshold{
		{Key: "protein_price_threshold", Value: "2"},
		{Key: "veggies_price_threshold", Value: "10"},
	}))
	thresholds := NewThresholdService(thresholdRepo, nil)
	require.NoError(t, thresholds.Refresh(context.Background()))

	svc := NewMenuService(repository.NewMenuRepository(testDB), thresholds, nil)
	require.NoError(t, svc.ImportItems([]model.MenuItem{
		{ID: "101", VariantID: "1", Title: "Paneer Tikka", Category: "main_tiffin_proteins", Type: model.LineTypeMain, Price: "12.50", Tags: `["Vegetarian","Gluten Free"]`},
		{ID: "102", VariantID: "1", Title: "Chicken Curry", Category: "main_tiffin_proteins", Type: model.LineTypeMain, Price: "14", Tags: `["Halal"]`},
		{ID: "201", VariantID: "1", Title: "Aloo Gobi", Category: "main_tiffin_veggies", Type: model.LineTypeMain, Price: "8.00", Tags: "not json"},
		{ID: "501", VariantID: "1", Title: "Gulab Jamun", Category: "addon_sides", Type: model.LineTypeAddon, Price: "2.5"},
	}))
	return svc
}

func TestMenuService_ListMenuAdjustsPrices(t *testing.T) {
	svc := setupMenuServiceTest(t)

	items, err := svc.ListMenu(MenuQuery{})
	require.NoError(t, err)
	require.Len(t, items, 4)

	prices := map[string]model.Price{}
	for _, item := range items {
		prices[item.ID] = item.Price
	}
	assert.Equal(t, model.Price("10.50"), prices["101"])
	assert.Equal(t, model.Price("12"), prices["102"])
	assert.Equal(t, model.Price("0.00"), prices["201"])
	assert.Equal(t, model.Price("2.5"), prices["501"])
}

func TestMenuService_ListMenuFiltersByTags(t *testing.T) {
	svc := setupMenuServiceTest(t)

	tests := []struct {
		name    string
		query   MenuQuery
		wantIDs []string
	}{
		{name: "No tags", query: MenuQuery{Category: "main_tiffin_proteins"}, wantIDs: []string{"102", "101"}},
		{name: "Substring match", query: MenuQuery{Tags: []string{"vegetarian"}}, wantIDs: []string{"101"}},
		{name: "Any tag matches", query: MenuQuery{Tags: []string{"gluten", "HALAL"}}, wantIDs: []string{"102", "101"}},
		{name: "Untagged never matches", query: MenuQuery{Type: model.LineTypeAddon, Tags: []string{"vegan"}}, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.ListMenu(tt.query)
			require.NoError(t, err)
			ids := []string{}
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestMenuService_FindItem(t *testing.T) {
	svc := setupMenuServiceTest(t)

	item, err := svc.FindItem("101", "1")
	require.NoError(t, err)
	assert.Equal(t, model.Price("10.50"), item.Price)

	_, err = svc.FindItem("101", "9")
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}
