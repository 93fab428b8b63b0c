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

// OrderHandler serves the fulfillment views and actions.
type OrderHandler struct {
	store   *querycache.Store
	backend *backend.Client
	actions *dispatch.Dispatcher
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(store *querycache.Store, client *backend.Client, actions *dispatch.Dispatcher) *OrderHandler {
	return &OrderHandler{
		store:   store,
		backend: client,
		actions: actions,
	}
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageArgs(r)
	filter := backend.OrderFilter{
		Status:  model.OrderStatus(r.URL.Query().Get("status")),
		Page:    page,
		PerPage: perPage,
	}
	key := querycache.ListKey("orders", keyParams(filter.Values()))
	serve(w, r, h.store, key, func(ctx context.Context) (*model.OrderList, error) {
		return h.backend.ListOrders(ctx, filter)
	})
}

// Pending handles GET /api/v1/orders/pending
func (h *OrderHandler) Pending(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageArgs(r)
	key := querycache.ListKey("orders", map[string]string{
		"view": "pending", "page": itoa(page), "per_page": itoa(perPage),
	})
	serve(w, r, h.store, key, func(ctx context.Context) (*model.OrderList, error) {
		return h.backend.PendingOrders(ctx, page, perPage)
	})
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	key := querycache.DetailKey("orders", id.String())
	serve(w, r, h.store, key, func(ctx context.Context) (*model.Order, error) {
		return h.backend.GetOrder(ctx, id)
	})
}

// MarkPurchased handles POST /api/v1/orders/{id}/mark-purchased
func (h *OrderHandler) MarkPurchased(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	req := model.MarkPurchased{
		PurchasePrice:    queryFloat(r, "purchase_price", 0),
		PurchaseShipping: queryFloat(r, "purchase_shipping", 0),
		PurchaseURL:      r.URL.Query().Get("purchase_url"),
	}
	if apiErr := validate.Struct(req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	order, err := h.actions.MarkPurchased(r.Context(), id, req)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, order)
}

// MarkShipped handles POST /api/v1/orders/{id}/mark-shipped
func (h *OrderHandler) MarkShipped(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}
	req := model.MarkShipped{
		TrackingNumber: r.URL.Query().Get("tracking_number"),
		ShippingCost:   queryFloat(r, "shipping_cost", 0),
	}
	if apiErr := validate.Struct(req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	order, err := h.actions.MarkShipped(r.Context(), id, req)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, order)
}

// Complete handles POST /api/v1/orders/{id}/complete
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	order, err := h.actions.CompleteOrder(r.Context(), id)
	if err != nil {
		response.Error(w, backendError(err))
		return
	}
	response.OK(w, order)
}
