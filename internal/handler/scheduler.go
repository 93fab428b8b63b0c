package handler

import (
	"context"
	"net/http"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/dispatch"
	"flipops-dashboard/internal/model"
	"flipops-dashboard/internal/querycache"
	"flipops-dashboard/pkg/apierror"
	"flipops-dashboard/pkg/response"
	"flipops-dashboard/pkg/validate"

	"github.com/go-chi/chi/v5"
)

// SchedulerHandler controls the backend's automatic scraping scheduler.
type SchedulerHandler struct {
	store   *querycache.Store
	backend *backend.Client
	actions *dispatch.Dispatcher
}

// NewSchedulerHandler creates a new scheduler handler.
func NewSchedulerHandler(store *querycache.Store, client *backend.Client, actions *dispatch.Dispatcher) *SchedulerHandler {
	return &SchedulerHandler{
		store:   store,
		backend: client,
		actions: actions,
	}
}

// Status handles GET /api/v1/scheduler/status
func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	key := querycache.Key("scheduler", "status", nil)
	serve(w, r, h.store, key, func(ctx context.Context) (*model.SchedulerStatus, error) {
		return h.backend.SchedulerStatus(ctx)
	})
}

// Start handles POST /api/v1/scheduler/start
func (h *SchedulerHandler) Start(w http.ResponseWriter, r *http.Request) {
	ack, err := h.actions.StartScheduler(r.Context())
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, ack)
}

// Stop handles POST /api/v1/scheduler/stop
func (h *SchedulerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	ack, err := h.actions.StopScheduler(r.Context())
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, ack)
}

// UpdateSettings handles PUT /api/v1/scheduler/settings
func (h *SchedulerHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.SchedulerSettings
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	if apiErr := validate.Struct(req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	status, err := h.actions.UpdateSchedulerSettings(r.Context(), req)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, status)
}

// TestTelegram handles POST /api/v1/scheduler/test-telegram
func (h *SchedulerHandler) TestTelegram(w http.ResponseWriter, r *http.Request) {
	ack, err := h.actions.TestTelegram(r.Context())
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, ack)
}

// Categories handles GET /api/v1/scheduler/categories
func (h *SchedulerHandler) Categories(w http.ResponseWriter, r *http.Request) {
	key := querycache.Key("scheduler", "categories", nil)
	serve(w, r, h.store, key, func(ctx context.Context) (*map[string]model.CategoryPreset, error) {
		presets, err := h.backend.CategoryPresets(ctx)
		if err != nil {
			return nil, err
		}
		return &presets, nil
	})
}

// ScrapeCategory handles POST /api/v1/scheduler/scrape-category/{category_id}
func (h *SchedulerHandler) ScrapeCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category_id")
	if categoryID == "" {
		response.Error(w, apierror.BadRequest("category_id is required"))
		return
	}

	result, err := h.actions.ScrapeCategory(r.Context(), categoryID)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, result)
}
