package handler

import (
	"context"
	"net/http"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/dispatch"
	"flipops-dashboard/internal/model"
	"flipops-dashboard/internal/querycache"
	"flipops-dashboard/pkg/response"
	"flipops-dashboard/pkg/validate"
)

// ScraperHandler controls manual scraping runs.
type ScraperHandler struct {
	store   *querycache.Store
	backend *backend.Client
	actions *dispatch.Dispatcher
}

// NewScraperHandler creates a new scraper handler.
func NewScraperHandler(store *querycache.Store, client *backend.Client, actions *dispatch.Dispatcher) *ScraperHandler {
	return &ScraperHandler{
		store:   store,
		backend: client,
		actions: actions,
	}
}

// Start handles POST /api/v1/scraper/start
func (h *ScraperHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.ScrapeRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	if apiErr := validate.Struct(req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	resp, err := h.actions.StartScrape(r.Context(), req)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, resp)
}

// Status handles GET /api/v1/scraper/status
func (h *ScraperHandler) Status(w http.ResponseWriter, r *http.Request) {
	key := querycache.Key("scraper", "status", nil)
	serve(w, r, h.store, key, func(ctx context.Context) (*model.ScraperStatus, error) {
		return h.backend.ScraperStatus(ctx)
	})
}
