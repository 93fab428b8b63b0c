package handler

import (
	"context"
	"net/http"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/model"
	"flipops-dashboard/internal/querycache"
)

// AnalyticsHandler serves the dashboard's aggregate views. All reads, no
// actions; the backend computes every figure.
type AnalyticsHandler struct {
	store   *querycache.Store
	backend *backend.Client
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(store *querycache.Store, client *backend.Client) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:   store,
		backend: client,
	}
}

// Dashboard handles GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	key := querycache.Key("analytics", "dashboard", nil)
	serve(w, r, h.store, key, func(ctx context.Context) (*model.DashboardStats, error) {
		return h.backend.DashboardStats(ctx)
	})
}

// DailyProfit handles GET /api/v1/analytics/profit/daily
func (h *AnalyticsHandler) DailyProfit(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	key := querycache.Key("analytics", "profit-daily", map[string]string{"days": itoa(days)})
	serve(w, r, h.store, key, func(ctx context.Context) (*model.DailyProfitReport, error) {
		return h.backend.DailyProfit(ctx, days)
	})
}

// Sources handles GET /api/v1/analytics/sources
func (h *AnalyticsHandler) Sources(w http.ResponseWriter, r *http.Request) {
	key := querycache.Key("analytics", "sources", nil)
	serve(w, r, h.store, key, func(ctx context.Context) (*model.SourceStats, error) {
		return h.backend.SourceStats(ctx)
	})
}

// Categories handles GET /api/v1/analytics/categories
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	key := querycache.Key("analytics", "categories", nil)
	serve(w, r, h.store, key, func(ctx context.Context) (*model.CategoryStats, error) {
		return h.backend.CategoryStats(ctx)
	})
}
