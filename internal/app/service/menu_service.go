package service

import (
	"errors"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/app/repository"
	"github.com/ikkim/tiffin-backend/internal/catalog"
	"github.com/ikkim/tiffin-backend/internal/pricing"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
)

type MenuQuery struct {
	Category string
	Type     model.LineType
	Search   string
	Tags     []string
}

// MenuService serves catalog items with threshold-adjusted prices.
type MenuService interface {
	ListMenu(query MenuQuery) ([]model.MenuItem, error)
	FindItem(id, variantID string) (*model.MenuItem, error)
	ImportItems(items []model.MenuItem) error
}

type menuService struct {
	menuRepo   repository.MenuRepository
	thresholds ThresholdService
	adjuster   *pricing.Adjuster
}

func NewMenuService(menuRepo repository.MenuRepository, thresholds ThresholdService, adjuster *pricing.Adjuster) MenuService {
	if adjuster == nil {
		adjuster = pricing.NewAdjuster(nil)
	}
	return &menuService{
		menuRepo:   menuRepo,
		thresholds: thresholds,
		adjuster:   adjuster,
	}
}

func (s *menuService) ListMenu(query MenuQuery) ([]model.MenuItem, error) {
	items, err := s.menuRepo.FindWithFilter(repository.MenuFilter{
		Category: query.Category,
		Type:     query.Type,
		Search:   query.Search,
	})
	if err != nil {
		logger.Error("Failed to list menu", err, map[string]interface{}{
			"category": query.Category,
		})
		return nil, err
	}

	items = s.adjuster.AdjustAll(items, s.thresholds.Current())
	items = catalog.FilterByTags(items, query.Tags)

	logger.Debug("Menu listed", map[string]interface{}{
		"category": query.Category,
		"tags":     query.Tags,
		"count":    len(items),
	})
	return items, nil
}

func (s *menuService) FindItem(id, variantID string) (*model.MenuItem, error) {
	item, err := s.menuRepo.FindByID(id, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Menu item not found", map[string]interface{}{
				"menu_item_id": id,
				"variant_id":   variantID,
			})
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	adjusted := s.adjuster.Adjust(*item, s.thresholds.Current())
	return &adjusted, nil
}

const importBatchSize = 100

func (s *menuService) ImportItems(items []model.MenuItem) error {
	logger.Info("Importing menu items", map[string]interface{}{
		"count": len(items),
	})
	return s.menuRepo.Upsert(items, importBatchSize)
}
