package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/app/repository"
	"github.com/ikkim/tiffin-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryThresholdCache struct {
	rows    []model.PriceThreshold
	loadErr error
	saves   int
}

func (c *memoryThresholdCache) Save(_ context.Context, rows []model.PriceThreshold) error {
	c.rows = append([]model.PriceThreshold(nil), rows...)
	c.saves++
	return nil
}

func (c *memoryThresholdCache) Load(_ context.Context) ([]model.PriceThreshold, error) {
	return c.rows, c.loadErr
}

type failingThresholdRepository struct{}

func (failingThresholdRepository) FindAll() ([]model.PriceThreshold, error) {
	return nil, errors.New("connection refused")
}

func (failingThresholdRepository) Upsert([]model.PriceThreshold) error {
	return errors.New("connection refused")
}

func TestThresholdService_RefreshFromDatabase(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := repository.NewThresholdRepository(testDB)
	require.NoError(t, repo.Upsert([]model.PriceThreshold{
		{Key: "protein_price_threshold", Value: "2.25"},
		{Key: "shipping_fee", Value: "5"},
		{Key: "veggies_price_threshold", Value: "n/a"},
	}))

	cache := &memoryThresholdCache{}
	svc := NewThresholdService(repo, cache)
	assert.Empty(t, svc.Current())

	require.NoError(t, svc.Refresh(context.Background()))
	current := svc.Current()
	require.Len(t, current, 1)
	assert.True(t, decimal.RequireFromString("2.25").Equal(current["protein"]))
	assert.Equal(t, 1, cache.saves)
	assert.Len(t, cache.rows, 3)

	require.NoError(t, svc.Update(context.Background(), []model.PriceThreshold{
		{Key: "sides_price_threshold", Value: "1"},
	}))
	assert.Len(t, svc.Current(), 2)
}

func TestThresholdService_FallsBackToCache(t *testing.T) {
	cache := &memoryThresholdCache{rows: []model.PriceThreshold{
		{Key: "probiotics_price_threshold", Value: "0.5"},
	}}
	svc := NewThresholdService(failingThresholdRepository{}, cache)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.True(t, decimal.RequireFromString("0.5").Equal(svc.Current()["probiotics"]))
}

func TestThresholdService_KeepsPreviousWhenAllSourcesFail(t *testing.T) {
	cache := &memoryThresholdCache{rows: []model.PriceThreshold{
		{Key: "protein_price_threshold", Value: "3"},
	}}
	svc := NewThresholdService(failingThresholdRepository{}, cache)
	require.NoError(t, svc.Refresh(context.Background()))

	cache.rows = nil
	cache.loadErr = errors.New("redis down")
	err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrThresholdsUnavailable)
	assert.True(t, decimal.NewFromInt(3).Equal(svc.Current()["protein"]))

	noCache := NewThresholdService(failingThresholdRepository{}, nil)
	assert.ErrorIs(t, noCache.Refresh(context.Background()), ErrThresholdsUnavailable)
	assert.Empty(t, noCache.Current())
}
