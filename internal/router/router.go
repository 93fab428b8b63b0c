package router

import (
	"net/http"

	"flipops-dashboard/internal/handler"
	"flipops-dashboard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	ItemHandler      *handler.ItemHandler
	ListingHandler   *handler.ListingHandler
	OrderHandler     *handler.OrderHandler
	AnalyticsHandler *handler.AnalyticsHandler
	ScraperHandler   *handler.ScraperHandler
	SchedulerHandler *handler.SchedulerHandler
	AdminHandler     *handler.AdminHandler
	StaticDir        string
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Uptime monitoring endpoint
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	// Static files (dashboard frontend)
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = "./static"
	}
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Dashboard redirects
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusMovedPermanently)
	})
	r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/admin.html", http.StatusMovedPermanently)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.ItemHandler != nil {
			r.Route("/items", func(r chi.Router) {
				r.Get("/", cfg.ItemHandler.List)
				r.Get("/pending", cfg.ItemHandler.Pending)
				r.Post("/analyze-pending", cfg.ItemHandler.AnalyzePending)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.ItemHandler.Get)
					r.Delete("/", cfg.ItemHandler.Delete)
					r.Post("/approve", cfg.ItemHandler.Approve)
					r.Post("/reject", cfg.ItemHandler.Reject)
					r.Post("/analyze", cfg.ItemHandler.Analyze)
				})
			})
		}

		if cfg.ListingHandler != nil {
			r.Route("/listings", func(r chi.Router) {
				r.Get("/", cfg.ListingHandler.List)
				r.Get("/active", cfg.ListingHandler.Active)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.ListingHandler.Get)
					r.Post("/publish", cfg.ListingHandler.Publish)
					r.Post("/end", cfg.ListingHandler.End)
				})
			})
		}

		if cfg.OrderHandler != nil {
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", cfg.OrderHandler.List)
				r.Get("/pending", cfg.OrderHandler.Pending)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.OrderHandler.Get)
					r.Post("/mark-purchased", cfg.OrderHandler.MarkPurchased)
					r.Post("/mark-shipped", cfg.OrderHandler.MarkShipped)
					r.Post("/complete", cfg.OrderHandler.Complete)
				})
			})
		}

		if cfg.AnalyticsHandler != nil {
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/dashboard", cfg.AnalyticsHandler.Dashboard)
				r.Get("/profit/daily", cfg.AnalyticsHandler.DailyProfit)
				r.Get("/sources", cfg.AnalyticsHandler.Sources)
				r.Get("/categories", cfg.AnalyticsHandler.Categories)
			})
		}

		if cfg.ScraperHandler != nil {
			r.Route("/scraper", func(r chi.Router) {
				r.Post("/start", cfg.ScraperHandler.Start)
				r.Get("/status", cfg.ScraperHandler.Status)
			})
		}

		if cfg.SchedulerHandler != nil {
			r.Route("/scheduler", func(r chi.Router) {
				r.Get("/status", cfg.SchedulerHandler.Status)
				r.Post("/start", cfg.SchedulerHandler.Start)
				r.Post("/stop", cfg.SchedulerHandler.Stop)
				r.Put("/settings", cfg.SchedulerHandler.UpdateSettings)
				r.Post("/test-telegram", cfg.SchedulerHandler.TestTelegram)
				r.Get("/categories", cfg.SchedulerHandler.Categories)
				r.Post("/scrape-category/{category_id}", cfg.SchedulerHandler.ScrapeCategory)
			})
		}

		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", cfg.AdminHandler.GetStats)
				r.Post("/cache/invalidate", cfg.AdminHandler.InvalidateCache)
			})
		}
	})

	return r
}
