package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/app/service"
	apperrors "github.com/ikkim/tiffin-backend/internal/errors"
	"github.com/ikkim/tiffin-backend/internal/middleware"
	"github.com/ikkim/tiffin-backend/internal/pricing"
)

type MenuController struct {
	menuService      service.MenuService
	thresholdService service.ThresholdService
}

func NewMenuController(menuService service.MenuService, thresholdService service.ThresholdService) *MenuController {
	return &MenuController{
		menuService:      menuService,
		thresholdService: thresholdService,
	}
}

type UpdateThresholdsRequest struct {
	Thresholds []model.PriceThreshold `json:"thresholds" binding:"required,min=1"`
}

// ListMenu returns catalog items with adjusted prices
// GET /api/v1/menu?category=main_tiffin_proteins&type=main&search=&tags=vegan,halal
func (ctrl *MenuController) ListMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := service.MenuQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Tags:     splitQueryList(c.Query("tags")),
	}
	if raw := c.Query("type"); raw != "" {
		lineType, err := model.ParseLineType(raw)
		if err != nil {
			log.Warn("Invalid menu type filter", map[string]interface{}{
				"type": raw,
			})
			apperrors.BadRequest(c, apperrors.CartInvalidLineType, "Type must be main or addon")
			return
		}
		query.Type = lineType
	}

	items, err := ctrl.menuService.ListMenu(query)
	if err != nil {
		log.Error("Failed to fetch menu", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "menu")
		return
	}

	log.Info("Menu fetched successfully", map[string]interface{}{
		"count":    len(items),
		"category": query.Category,
	})
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetMenuItem returns one adjusted item
// GET /api/v1/menu/items/:id?variant_id=
func (ctrl *MenuController) GetMenuItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	item, err := ctrl.menuService.FindItem(c.Param("id"), c.Query("variant_id"))
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
			return
		}
		log.Error("Failed to fetch menu item", err, map[string]interface{}{
			"menu_item_id": c.Param("id"),
		})
		apperrors.InternalError(c, "Failed to fetch menu item")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// GetThresholds returns the thresholds currently applied
// GET /api/v1/menu/thresholds
func (ctrl *MenuController) GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"thresholds": formatThresholds(ctrl.thresholdService.Current()),
	})
}

// RefreshThresholds reloads thresholds from the database or its cache
// POST /api/v1/menu/thresholds/refresh
func (ctrl *MenuController) RefreshThresholds(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.thresholdService.Refresh(c.Request.Context()); err != nil {
		log.Error("Failed to refresh price thresholds", err, nil)
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.PricingRefreshFailed, "Price thresholds could not be refreshed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"thresholds": formatThresholds(ctrl.thresholdService.Current()),
	})
}

// UpdateThresholds stores threshold rows and applies them
// PUT /api/v1/menu/thresholds
func (ctrl *MenuController) UpdateThresholds(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid threshold update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	fields := map[string]string{}
	for _, row := range req.Thresholds {
		if !strings.HasSuffix(row.Key, model.ThresholdKeySuffix) {
			fields[row.Key] = "key must end with " + model.ThresholdKeySuffix
		} else if _, err := pricing.ParseAmount(row.Value); err != nil {
			fields[row.Key] = "value must be a number"
		}
	}
	if len(fields) > 0 {
		apperrors.RespondWithValidationError(c, fields)
		return
	}

	if err := ctrl.thresholdService.Update(c.Request.Context(), req.Thresholds); err != nil {
		log.Error("Failed to update price thresholds", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "price threshold")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"thresholds": formatThresholds(ctrl.thresholdService.Current()),
	})
}

func formatThresholds(thresholds pricing.Thresholds) map[string]string {
	out := make(map[string]string, len(thresholds))
	for category, amount := range thresholds {
		out[category] = amount.String()
	}
	return out
}

func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
