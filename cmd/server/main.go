package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/tiffin-backend/config"
	"github.com/ikkim/tiffin-backend/internal/app/controller"
	"github.com/ikkim/tiffin-backend/internal/app/repository"
	"github.com/ikkim/tiffin-backend/internal/app/service"
	"github.com/ikkim/tiffin-backend/internal/db"
	"github.com/ikkim/tiffin-backend/internal/pricing"
	"github.com/ikkim/tiffin-backend/internal/router"
	"github.com/ikkim/tiffin-backend/internal/scheduler"
	"github.com/ikkim/tiffin-backend/internal/tiffin"
	"github.com/ikkim/tiffin-backend/pkg/logger"
	"github.com/ikkim/tiffin-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
		File:        cfg.Log.File,
	})

	logger.Info("Starting Tiffin Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis only backs the threshold fallback, so the server runs without it
	var thresholdCache service.ThresholdCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Continuing without threshold cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			thresholdCache = redis.NewThresholdCache(redis.GetClient(), cfg.Pricing.CacheTTL)
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	menuRepo := repository.NewMenuRepository(db.GetDB())
	thresholdRepo := repository.NewThresholdRepository(db.GetDB())

	adjuster := pricing.NewAdjuster(cfg.Pricing.CategoryPrefixes)
	thresholdService := service.NewThresholdService(thresholdRepo, thresholdCache)
	if err := thresholdService.Refresh(context.Background()); err != nil {
		logger.Warn("Serving unadjusted prices until thresholds load", map[string]interface{}{
			"error": err.Error(),
		})
	}
	menuService := service.NewMenuService(menuRepo, thresholdService, adjuster)
	cartService := service.NewCartService(menuService, service.CartOptions{
		Rules: tiffin.NewRules(cfg.Cart.RequiredCategories, cfg.Cart.CategoryRank),
		Fees: pricing.Fees{
			Shipping: cfg.Pricing.ShippingFee,
			Discount: cfg.Pricing.DiscountFee,
		},
		Adjuster:   adjuster,
		DateLayout: cfg.Cart.DateLayout,
		IdleTTL:    cfg.Cart.IdleTTL,
	})
	exportService := service.NewExportService()

	jobs := scheduler.NewScheduler(thresholdService, cartService, cfg.Pricing.RefreshSpec, cfg.Cart.SweepSpec)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}
	defer jobs.Stop()

	r := router.NewRouter(
		controller.NewMenuController(menuService, thresholdService),
		controller.NewCartController(cartService, exportService),
		db.Ping,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
