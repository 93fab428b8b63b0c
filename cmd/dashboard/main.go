package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/config"
	"flipops-dashboard/internal/dispatch"
	"flipops-dashboard/internal/handler"
	"flipops-dashboard/internal/poll"
	"flipops-dashboard/internal/querycache"
	"flipops-dashboard/internal/router"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting flipops dashboard...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)
	log.Printf("Backend: %s", cfg.Backend.BaseURL)

	// Backend client
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	// Query cache backend
	cacheType := cfg.Cache.Type
	var cacheBackend querycache.Backend
	if cacheType == "redis" {
		redisBackend, err := querycache.NewRedisBackend(querycache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
			cacheType = "memory"
		} else {
			cacheBackend = redisBackend
		}
	}
	if cacheBackend == nil {
		cacheBackend = querycache.NewMemoryBackend()
		log.Println("Memory cache backend initialized")
	}

	store := querycache.NewStore(cacheBackend, querycache.StoreConfig{
		TTL:          cfg.Cache.TTL,
		Retention:    cfg.Cache.Retention,
		FetchTimeout: cfg.Cache.FetchTimeout,
	})
	defer store.Close()

	// Mutation dispatcher
	actions := dispatch.New(store, client)

	// Background polling for the time-sensitive views. Fetchers are
	// registered up front so the poller can refresh before the first read.
	schedulerKey := querycache.Key("scheduler", "status", nil)
	dashboardKey := querycache.Key("analytics", "dashboard", nil)
	store.Register(schedulerKey, func(ctx context.Context) (any, error) {
		return client.SchedulerStatus(ctx)
	})
	store.Register(dashboardKey, func(ctx context.Context) (any, error) {
		return client.DashboardStats(ctx)
	})

	var poller *poll.Poller
	if cfg.Poll.Enabled {
		poller = poll.New(store, cfg.Poll.Interval, schedulerKey, dashboardKey)
		release := poller.Subscribe()
		defer release()
	}

	// Initialize handlers
	baseHandler := handler.New(cfg.App.Version)
	itemHandler := handler.NewItemHandler(store, client, actions)
	listingHandler := handler.NewListingHandler(store, client, actions)
	orderHandler := handler.NewOrderHandler(store, client, actions)
	analyticsHandler := handler.NewAnalyticsHandler(store, client)
	scraperHandler := handler.NewScraperHandler(store, client, actions)
	schedulerHandler := handler.NewSchedulerHandler(store, client, actions)
	adminHandler := handler.NewAdminHandler(store, poller, cacheType)

	// Create router
	r := router.New(router.Config{
		Handler:          baseHandler,
		ItemHandler:      itemHandler,
		ListingHandler:   listingHandler,
		OrderHandler:     orderHandler,
		AnalyticsHandler: analyticsHandler,
		ScraperHandler:   scraperHandler,
		SchedulerHandler: schedulerHandler,
		AdminHandler:     adminHandler,
		StaticDir:        cfg.App.StaticDir,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
