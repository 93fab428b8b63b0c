package backend

import (
	"context"
	"fmt"
	"net/url"

	"flipops-dashboard/internal/model"

	"github.com/google/uuid"
)

// OrderFilter narrows an order list query.
type OrderFilter struct {
	Status  model.OrderStatus
	Page    int
	PerPage int
}

// Values encodes the filter as query parameters.
func (f OrderFilter) Values() url.Values {
	q := pageValues(f.Page, f.PerPage)
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

// ListOrders returns a page of orders matching the filter.
func (c *Client) ListOrders(ctx context.Context, f OrderFilter) (*model.OrderList, error) {
	var out model.OrderList
	if err := c.get(ctx, "/orders", f.Values(), &out); err != nil {
		return nil, err
	}
	fillPages(&out.Pages, out.Total, out.PerPage)
	return &out, nil
}

// PendingOrders returns orders that need operator action (purchase, ship),
// oldest first.
func (c *Client) PendingOrders(ctx context.Context, page, perPage int) (*model.OrderList, error) {
	var out model.OrderList
	if err := c.get(ctx, "/orders/pending", pageValues(page, perPage), &out); err != nil {
		return nil, err
	}
	fillPages(&out.Pages, out.Total, out.PerPage)
	return &out, nil
}

// GetOrder returns a single order by id.
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var out model.Order
	if err := c.get(ctx, "/orders/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkPurchased records that the source item was bought and returns the
// updated order with recomputed profit.
func (c *Client) MarkPurchased(ctx context.Context, id uuid.UUID, req model.MarkPurchased) (*model.Order, error) {
	q := url.Values{}
	q.Set("purchase_price", fmt.Sprint(req.PurchasePrice))
	if req.PurchaseShipping > 0 {
		q.Set("purchase_shipping", fmt.Sprint(req.PurchaseShipping))
	}
	if req.PurchaseURL != "" {
		q.Set("purchase_url", req.PurchaseURL)
	}
	var out model.Order
	if err := c.post(ctx, "/orders/"+id.String()+"/mark-purchased", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkShipped records the outbound shipment to the buyer.
func (c *Client) MarkShipped(ctx context.Context, id uuid.UUID, req model.MarkShipped) (*model.Order, error) {
	q := url.Values{}
	q.Set("tracking_number", req.TrackingNumber)
	if req.ShippingCost > 0 {
		q.Set("shipping_cost", fmt.Sprint(req.ShippingCost))
	}
	var out model.Order
	if err := c.post(ctx, "/orders/"+id.String()+"/mark-shipped", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteOrder closes out an order and finalizes its profit figures.
func (c *Client) CompleteOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var out model.Order
	if err := c.post(ctx, "/orders/"+id.String()+"/complete", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
