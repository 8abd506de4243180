package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/app/service"
	apperrors "github.com/ikkim/tiffin-backend/internal/errors"
	"github.com/ikkim/tiffin-backend/internal/middleware"
	"github.com/ikkim/tiffin-backend/internal/tiffin"
	"github.com/ikkim/tiffin-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CartController struct {
	cartService   service.CartService
	exportService service.ExportService
}

func NewCartController(cartService service.CartService, exportService service.ExportService) *CartController {
	return &CartController{
		cartService:   cartService,
		exportService: exportService,
	}
}

type LineKeyRequest struct {
	ID        string `json:"id" binding:"required"`
	VariantID string `json:"variant_id"`
	Day       string `json:"day" binding:"required"`
	Category  string `json:"category" binding:"required"`
	Type      string `json:"type" binding:"required"`
}

func (r LineKeyRequest) toKey() model.LineKey {
	return model.LineKey{
		ID:        r.ID,
		VariantID: r.VariantID,
		Day:       r.Day,
		Category:  r.Category,
		Type:      model.LineType(r.Type),
	}
}

type SetQtyRequest struct {
	LineKeyRequest
	Qty *int `json:"qty" binding:"required"`
}

type AddLinesRequest struct {
	Lines []model.CartLine `json:"lines" binding:"required,min=1"`
}

type FavoriteRequest struct {
	ID        string `json:"id" binding:"required"`
	VariantID string `json:"variant_id"`
	Category  string `json:"category" binding:"required"`
	Day       string `json:"day" binding:"required"`
}

// CreateCart opens an anonymous cart session
// POST /api/v1/carts
func (ctrl *CartController) CreateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cartID := ctrl.cartService.CreateCart()
	view, err := ctrl.cartService.GetCart(cartID)
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to create cart")
		return
	}

	log.Info("Cart session opened", map[string]interface{}{
		"cart_id": cartID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"cart": view,
	})
}

// GetCart returns lines, day groups, completeness and totals
// GET /api/v1/carts/:id
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	view, err := ctrl.cartService.GetCart(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to fetch cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// Select applies a card gesture (tap, increment, decrement)
// POST /api/v1/carts/:id/selections
func (ctrl *CartController) Select(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid selection request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.Select(c.Param("id"), req)
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to apply selection")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// AddLines merges lines into the cart
// POST /api/v1/carts/:id/lines
func (ctrl *CartController) AddLines(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add lines request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.AddLines(c.Param("id"), req.Lines)
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to add lines")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// SetQty sets the quantity of a line, removing it at zero
// PUT /api/v1/carts/:id/lines/qty
func (ctrl *CartController) SetQty(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SetQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid set quantity request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.SetQty(c.Param("id"), req.toKey(), *req.Qty)
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to update quantity")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// IncreaseLine POST /api/v1/carts/:id/lines/increase
func (ctrl *CartController) IncreaseLine(c *gin.Context) {
	ctrl.keyOperation(c, ctrl.cartService.Increase, "Failed to increase quantity")
}

// DecreaseLine POST /api/v1/carts/:id/lines/decrease
func (ctrl *CartController) DecreaseLine(c *gin.Context) {
	ctrl.keyOperation(c, ctrl.cartService.Decrease, "Failed to decrease quantity")
}

// RemoveLine DELETE /api/v1/carts/:id/lines
func (ctrl *CartController) RemoveLine(c *gin.Context) {
	ctrl.keyOperation(c, ctrl.cartService.Remove, "Failed to remove line")
}

// ClearCart empties the cart and raises the cleared flag
// DELETE /api/v1/carts/:id
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	view, err := ctrl.cartService.Clear(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"cart":    view,
	})
}

// GetFavorites GET /api/v1/carts/:id/favorites
func (ctrl *CartController) GetFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	favorites, err := ctrl.cartService.Favorites(c.Param("id"))
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to fetch favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// ToggleFavorite hearts or un-hearts a dish
// POST /api/v1/carts/:id/favorites
func (ctrl *CartController) ToggleFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid favorite request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	favorites, err := ctrl.cartService.ToggleFavorite(c.Param("id"), model.FavoriteKey{
		ID:        req.ID,
		VariantID: req.VariantID,
		Category:  req.Category,
		Day:       req.Day,
	})
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to toggle favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// ExportCart downloads the weekly plan as a spreadsheet
// GET /api/v1/carts/:id/export
func (ctrl *CartController) ExportCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("id")

	view, err := ctrl.cartService.GetCart(cartID)
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to export cart")
		return
	}

	data, err := ctrl.exportService.WeeklyPlanBytes(view)
	if err != nil {
		ctrl.respondError(c, log, err, "Failed to export cart")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tiffin-%s.xlsx"`, cartID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (ctrl *CartController) keyOperation(c *gin.Context, op func(string, model.LineKey) (*service.CartView, error), failure string) {
	log := middleware.GetLoggerFromContext(c)

	var req LineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid line key request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := op(c.Param("id"), req.toKey())
	if err != nil {
		ctrl.respondError(c, log, err, failure)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

func (ctrl *CartController) respondError(c *gin.Context, log *logger.Logger, err error, failure string) {
	cartID := c.Param("id")
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
	case errors.Is(err, service.ErrMenuItemNotFound):
		apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
	case errors.Is(err, model.ErrInvalidLineType):
		apperrors.BadRequest(c, apperrors.CartInvalidLineType, "Line type must be main or addon")
	case errors.Is(err, model.ErrInvalidWeekday):
		apperrors.BadRequest(c, apperrors.CartInvalidDay, "Day must be a weekday name")
	case errors.Is(err, tiffin.ErrInvalidAction):
		apperrors.BadRequest(c, apperrors.CartInvalidAction, "Action must be tap, increment or decrement")
	case errors.Is(err, service.ErrInvalidSelection):
		apperrors.BadRequest(c, apperrors.CartInvalidSelection, "Invalid selection")
	default:
		log.Error(failure, err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.InternalError(c, failure)
		return
	}
	log.Warn(failure, map[string]interface{}{
		"cart_id": cartID,
		"error":   err.Error(),
	})
}
