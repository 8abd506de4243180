package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/tiffin-backend/config"
	"github.com/ikkim/tiffin-backend/internal/app/controller"
	"github.com/ikkim/tiffin-backend/internal/middleware"
)

// HealthCheck reports whether a backing store is reachable.
type HealthCheck func(ctx context.Context) error

type Router struct {
	menuController *controller.MenuController
	cartController *controller.CartController
	healthCheck    HealthCheck
	config         *config.Config
}

func NewRouter(
	menuController *controller.MenuController,
	cartController *controller.CartController,
	healthCheck HealthCheck,
	cfg *config.Config,
) *Router {
	return &Router{
		menuController: menuController,
		cartController: cartController,
		healthCheck:    healthCheck,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)

	v1 := router.Group("/api/v1")
	{
		menu := v1.Group("/menu")
		{
			menu.GET("", r.menuController.ListMenu)
			menu.GET("/items/:id", r.menuController.GetMenuItem)
			menu.GET("/thresholds", r.menuController.GetThresholds)
			menu.PUT("/thresholds", r.menuController.UpdateThresholds)
			menu.POST("/thresholds/refresh", r.menuController.RefreshThresholds)
		}

		carts := v1.Group("/carts")
		{
			carts.POST("", r.cartController.CreateCart)
			carts.GET("/:id", r.cartController.GetCart)
			carts.DELETE("/:id", r.cartController.ClearCart)
			carts.POST("/:id/selections", r.cartController.Select)

			carts.POST("/:id/lines", r.cartController.AddLines)
			carts.PUT("/:id/lines/qty", r.cartController.SetQty)
			carts.POST("/:id/lines/increase", r.cartController.IncreaseLine)
			carts.POST("/:id/lines/decrease", r.cartController.DecreaseLine)
			carts.DELETE("/:id/lines", r.cartController.RemoveLine)

			carts.GET("/:id/favorites", r.cartController.GetFavorites)
			carts.POST("/:id/favorites", r.cartController.ToggleFavorite)

			carts.GET("/:id/export", r.cartController.ExportCart)
		}
	}

	return router
}

func (r *Router) health(c *gin.Context) {
	if r.healthCheck != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := r.healthCheck(ctx); err != nil {
			middleware.GetLoggerFromContext(c).Error("Health check failed", err, nil)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database is unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Tiffin API is running",
	})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}
