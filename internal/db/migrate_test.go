package db

import (
	"testing"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedThresholds(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		CleanupTestDB(testDB)
	})

	require.NoError(t, seedThresholds(testDB))

	var rows []model.PriceThreshold
	require.NoError(t, testDB.Order("config_key").Find(&rows).Error)
	require.Len(t, rows, 4)
	assert.Equal(t, "probiotics_price_threshold", rows[0].Key)

	// Second run leaves edited values alone
	require.NoError(t, testDB.Model(&model.PriceThreshold{}).
		Where("config_key = ?", "protein_price_threshold").
		Update("config_value", "2").Error)
	require.NoError(t, seedThresholds(testDB))

	var protein model.PriceThreshold
	require.NoError(t, testDB.First(&protein, "config_key = ?", "protein_price_threshold").Error)
	assert.Equal(t, "2", protein.Value)
}

func TestTruncateAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		CleanupTestDB(testDB)
	})

	require.NoError(t, testDB.Create(&model.MenuItem{ID: "1", VariantID: "1", Title: "Dal", Price: "4"}).Error)
	require.NoError(t, TruncateAllTables(testDB))

	var count int64
	testDB.Model(&model.MenuItem{}).Count(&count)
	assert.Zero(t, count)
}
