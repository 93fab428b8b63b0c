package handler

import (
	"context"
	"net/http"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/dispatch"
	"flipops-dashboard/internal/model"
	"flipops-dashboard/internal/querycache"
	"flipops-dashboard/pkg/response"
)

// ListingHandler serves the marketplace listing views and actions.
type ListingHandler struct {
	store   *querycache.Store
	backend *backend.Client
	actions *dispatch.Dispatcher
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(store *querycache.Store, client *backend.Client, actions *dispatch.Dispatcher) *ListingHandler {
	return &ListingHandler{
		store:   store,
		backend: client,
		actions: actions,
	}
}

func listingFilterFromQuery(r *http.Request) backend.ListingFilter {
	page, perPage := pageArgs(r)
	return backend.ListingFilter{
		Status:   model.ListingStatus(r.URL.Query().Get("status")),
		Platform: model.DestinationPlatform(r.URL.Query().Get("platform")),
		Page:     page,
		PerPage:  perPage,
	}
}

// List handles GET /api/v1/listings
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := listingFilterFromQuery(r)
	key := querycache.ListKey("listings", keyParams(filter.Values()))
	serve(w, r, h.store, key, func(ctx context.Context) (*model.ListingList, error) {
		return h.backend.ListListings(ctx, filter)
	})
}

// Active handles GET /api/v1/listings/active
func (h *ListingHandler) Active(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageArgs(r)
	key := querycache.ListKey("listings", map[string]string{
		"view": "active", "page": itoa(page), "per_page": itoa(perPage),
	})
	serve(w, r, h.store, key, func(ctx context.Context) (*model.ListingList, error) {
		return h.backend.ActiveListings(ctx, page, perPage)
	})
}

// Get handles GET /api/v1/listings/{id}
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	key := querycache.DetailKey("listings", id.String())
	serve(w, r, h.store, key, func(ctx context.Context) (*model.Listing, error) {
		return h.backend.GetListing(ctx, id)
	})
}

// Publish handles POST /api/v1/listings/{id}/publish
func (h *ListingHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	ack, err := h.actions.PublishListing(r.Context(), id)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, ack)
}

// End handles POST /api/v1/listings/{id}/end
func (h *ListingHandler) End(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	ack, err := h.actions.EndListing(r.Context(), id)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, ack)
}
