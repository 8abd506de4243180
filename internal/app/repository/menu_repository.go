package repository

import (
	"strings"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuFilter struct {
	Category string         // collection handle, exact match, case-insensitive
	Type     model.LineType // main or addon, empty for both
	Search   string         // title substring
}

type MenuRepository interface {
	FindWithFilter(filter MenuFilter) ([]model.MenuItem, error)
	FindByID(id, variantID string) (*model.MenuItem, error)
	Upsert(items []model.MenuItem, batchSize int) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) FindWithFilter(filter MenuFilter) ([]model.MenuItem, error) {
	logger.Debug("Finding menu items in database", map[string]interface{}{
		"category": filter.Category,
		"type":     filter.Type,
		"search":   filter.Search,
	})

	query := r.db.Model(&model.MenuItem{})
	if filter.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(strings.TrimSpace(filter.Category)))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var items []model.MenuItem
	if err := query.Order("category ASC").Order("title ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to find menu items in database", err, map[string]interface{}{
			"category": filter.Category,
		})
		return nil, err
	}

	logger.Debug("Menu items found in database", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *menuRepository) FindByID(id, variantID string) (*model.MenuItem, error) {
	logger.Debug("Finding menu item by ID in database", map[string]interface{}{
		"menu_item_id": id,
		"variant_id":   variantID,
	})

	var item model.MenuItem
	err := r.db.Where("id = ? AND variant_id = ?", id, variantID).First(&item).Error
	if err != nil {
		logger.Error("Failed to find menu item by ID in database", err, map[string]interface{}{
			"menu_item_id": id,
			"variant_id":   variantID,
		})
		return nil, err
	}
	return &item, nil
}

// Upsert inserts items or overwrites the stored copy of the same (id, variant_id)
func (r *menuRepository) Upsert(items []model.MenuItem, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	logger.Debug("Upserting menu items in database", map[string]interface{}{
		"count":      len(items),
		"batch_size": batchSize,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}, {Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "category", "type", "price", "image", "tags", "updated_at",
		}),
	}).CreateInBatches(&items, batchSize).Error
	if err != nil {
		logger.Error("Failed to upsert menu items in database", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}

	logger.Debug("Menu items upserted in database", map[string]interface{}{
		"count": len(items),
	})
	return nil
}
