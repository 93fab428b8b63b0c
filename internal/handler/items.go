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

// ItemHandler serves the item triage views and actions.
type ItemHandler struct {
	store   *querycache.Store
	backend *backend.Client
	actions *dispatch.Dispatcher
}

// NewItemHandler creates a new item handler.
func NewItemHandler(store *querycache.Store, client *backend.Client, actions *dispatch.Dispatcher) *ItemHandler {
	return &ItemHandler{
		store:   store,
		backend: client,
		actions: actions,
	}
}

func itemFilterFromQuery(r *http.Request) backend.ItemFilter {
	page, perPage := pageArgs(r)
	return backend.ItemFilter{
		Status:   model.ItemStatus(r.URL.Query().Get("status")),
		Source:   model.SourcePlatform(r.URL.Query().Get("source")),
		MinScore: queryInt(r, "min_score", 0),
		Page:     page,
		PerPage:  perPage,
	}
}

// List handles GET /api/v1/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := itemFilterFromQuery(r)
	key := querycache.ListKey("items", keyParams(filter.Values()))
	serve(w, r, h.store, key, func(ctx context.Context) (*model.ItemList, error) {
		return h.backend.ListItems(ctx, filter)
	})
}

// Pending handles GET /api/v1/items/pending
func (h *ItemHandler) Pending(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageArgs(r)
	key := querycache.ListKey("items", map[string]string{
		"view": "pending", "page": itoa(page), "per_page": itoa(perPage),
	})
	serve(w, r, h.store, key, func(ctx context.Context) (*model.ItemList, error) {
		return h.backend.PendingItems(ctx, page, perPage)
	})
}

// Get handles GET /api/v1/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	key := querycache.DetailKey("items", id.String())
	serve(w, r, h.store, key, func(ctx context.Context) (*model.Item, error) {
		return h.backend.GetItem(ctx, id)
	})
}

// Approve handles POST /api/v1/items/{id}/approve
func (h *ItemHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	var req model.ItemApprove
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	if apiErr := validate.Struct(req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	item, err := h.actions.ApproveItem(r.Context(), id, req)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, item)
}

// Reject handles POST /api/v1/items/{id}/reject
func (h *ItemHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	item, err := h.actions.RejectItem(r.Context(), id, r.URL.Query().Get("reason"))
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, item)
}

// Delete handles DELETE /api/v1/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	if err := h.actions.DeleteItem(r.Context(), id); err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.NoContent(w)
}

// Analyze handles POST /api/v1/items/{id}/analyze
func (h *ItemHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	result, err := h.actions.AnalyzeItem(r.Context(), id)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, result)
}

// AnalyzePending handles POST /api/v1/items/analyze-pending
func (h *ItemHandler) AnalyzePending(w http.ResponseWriter, r *http.Request) {
	params := backend.AnalyzePendingParams{
		Limit:    queryInt(r, "limit", 10),
		MinPrice: queryFloat(r, "min_price", 0),
		MaxPrice: queryFloat(r, "max_price", 0),
	}
	if apiErr := validate.Struct(params); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	result, err := h.actions.AnalyzePending(r.Context(), params)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, result)
}
