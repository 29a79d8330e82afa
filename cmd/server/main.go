package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldemail/config"
	"coldemail/db"
	"coldemail/handlers"
	"coldemail/landing"
	"coldemail/middleware"
	"coldemail/models"
	"coldemail/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("[INFO] Coming soon mode: %v", cfg.ComingSoonMode)

	// Initialize the delivery log (optional)
	var database *gorm.DB
	if cfg.DeliveryLogEnabled() {
		if err := db.Initialize(db.Options{
			Path:        cfg.DBPath,
			TursoURL:    cfg.TursoDatabaseURL,
			TursoToken:  cfg.TursoAuthToken,
			Environment: cfg.Environment,
		}); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := db.AutoMigrate(&models.WebhookDelivery{}); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		database = db.DB
	}

	relay := services.NewLeadRelay(cfg, database)
	registry := landing.NewRegistry(landing.Options{
		ComingSoon: cfg.ComingSoonMode,
		Submitter:  relay,
	})

	middleware.InitAssetVersions("static")

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CSRF(cfg.Environment == "production"))
	e.Use(middleware.CSPNonce(cfg.TurnstileSiteKey != ""))

	// Make config and views available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			c.Set(handlers.ViewsKey, registry)
			return next(c)
		}
	})

	// Static files
	e.Static("/static", "static")

	e.GET("/", handlers.LandingHandler, middleware.PageRateLimiter.Middleware())
	e.GET("/healthz", handlers.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Landing view routes, one view per page load
	views := e.Group("/views/:id")
	{
		views.GET("", handlers.GetViewHandler)
		views.POST("/open", handlers.OpenFormHandler)
		views.POST("/close", handlers.CloseFormHandler)
		views.POST("/submit", handlers.SubmitFormHandler, middleware.SubmitRateLimiter.Middleware())
		views.POST("/unmount", handlers.UnmountViewHandler)
		views.DELETE("", handlers.UnmountViewHandler)
	}

	// Background jobs
	jobs := cron.New()
	jobs.AddFunc("@every 1m", func() {
		if n := registry.Sweep(cfg.ViewIdleTimeout); n > 0 {
			log.Printf("[INFO] Unmounted %d idle views", n)
		}
	})
	if database != nil {
		jobs.AddFunc("@daily", func() {
			if _, err := services.PruneDeliveries(database, cfg.DeliveryRetention); err != nil {
				log.Printf("Error pruning webhook deliveries: %v", err)
			}
		})
	}
	jobs.Start()

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-jobs.Stop().Done()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	// Let in-flight webhook deliveries finish before the database closes
	registry.CloseAll()
	middleware.SubmitRateLimiter.Stop()
	middleware.PageRateLimiter.Stop()
}
