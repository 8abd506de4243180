package repository

import (
	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ThresholdRepository interface {
	FindAll() ([]model.PriceThreshold, error)
	Upsert(rows []model.PriceThreshold) error
}

type thresholdRepository struct {
	db *gorm.DB
}

func NewThresholdRepository(db *gorm.DB) ThresholdRepository {
	return &thresholdRepository{db: db}
}

func (r *thresholdRepository) FindAll() ([]model.PriceThreshold, error) {
	var rows []model.PriceThreshold
	if err := r.db.Order("config_key ASC").Find(&rows).Error; err != nil {
		logger.Error("Failed to find price thresholds in database", err)
		return nil, err
	}

	logger.Debug("Price thresholds found in database", map[string]interface{}{
		"count": len(rows),
	})
	return rows, nil
}

func (r *thresholdRepository) Upsert(rows []model.PriceThreshold) error {
	if len(rows) == 0 {
		return nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		logger.Error("Failed to upsert price thresholds in database", err, map[string]interface{}{
			"count": len(rows),
		})
		return err
	}

	logger.Debug("Price thresholds upserted in database", map[string]interface{}{
		"count": len(rows),
	})
	return nil
}
