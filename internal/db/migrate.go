package db

import (
	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models returns every table the service owns
func Models() []interface{} {
	return []interface{}{
		&model.MenuItem{},
		&model.PriceThreshold{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedThresholds(DB)
}

// seedThresholds inserts a zero threshold per default category so merchandisers
// only have to edit values. Existing rows are left alone.
func seedThresholds(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.PriceThreshold{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Price thresholds already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	rows := []model.PriceThreshold{
		{Key: "protein" + model.ThresholdKeySuffix, Value: "0"},
		{Key: "veggies" + model.ThresholdKeySuffix, Value: "0"},
		{Key: "sides" + model.ThresholdKeySuffix, Value: "0"},
		{Key: "probiotics" + model.ThresholdKeySuffix, Value: "0"},
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		logger.Error("Failed to seed price thresholds", err)
		return err
	}

	logger.Info("Price thresholds seeded", map[string]interface{}{
		"count": len(rows),
	})
	return nil
}
