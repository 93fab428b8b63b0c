package backend

import (
	"context"
	"fmt"
	"net/url"

	"flipops-dashboard/internal/model"

	"github.com/google/uuid"
)

// ItemFilter narrows an item list query. Zero values mean "no filter".
type ItemFilter struct {
	Status   model.ItemStatus
	Source   model.SourcePlatform
	MinScore int
	Page     int
	PerPage  int
}

// Values encodes the filter as query parameters.
func (f ItemFilter) Values() url.Values {
	q := pageValues(f.Page, f.PerPage)
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Source != "" {
		q.Set("source", string(f.Source))
	}
	if f.MinScore > 0 {
		q.Set("min_score", fmt.Sprint(f.MinScore))
	}
	return q
}

// ListItems returns a page of items matching the filter.
func (c *Client) ListItems(ctx context.Context, f ItemFilter) (*model.ItemList, error) {
	var out model.ItemList
	if err := c.get(ctx, "/items", f.Values(), &out); err != nil {
		return nil, err
	}
	fillPages(&out.Pages, out.Total, out.PerPage)
	return &out, nil
}

// PendingItems returns items awaiting approval, best score first.
func (c *Client) PendingItems(ctx context.Context, page, perPage int) (*model.ItemList, error) {
	var out model.ItemList
	if err := c.get(ctx, "/items/pending", pageValues(page, perPage), &out); err != nil {
		return nil, err
	}
	fillPages(&out.Pages, out.Total, out.PerPage)
	return &out, nil
}

// GetItem returns a single item by id.
func (c *Client) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var out model.Item
	if err := c.get(ctx, "/items/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveItem requests the pending -> approved transition and returns the
// updated item. The backend rejects items that are not pending.
func (c *Client) ApproveItem(ctx context.Context, id uuid.UUID, req model.ItemApprove) (*model.Item, error) {
	var out model.Item
	if err := c.post(ctx, "/items/"+id.String()+"/approve", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectItem requests the rejected transition with an optional reason.
func (c *Client) RejectItem(ctx context.Context, id uuid.UUID, reason string) (*model.Item, error) {
	q := url.Values{}
	if reason != "" {
		q.Set("reason", reason)
	}
	var out model.Item
	if err := c.post(ctx, "/items/"+id.String()+"/reject", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, "/items/"+id.String(), nil)
}

// AnalyzeItem runs the AI valuation for one item.
func (c *Client) AnalyzeItem(ctx context.Context, id uuid.UUID) (*model.AnalysisResult, error) {
	var out model.AnalysisResult
	if err := c.post(ctx, "/items/"+id.String()+"/analyze", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzePendingParams bounds a batch analysis run.
type AnalyzePendingParams struct {
	Limit    int     `validate:"omitempty,min=1,max=50"`
	MinPrice float64 `validate:"gte=0"`
	MaxPrice float64 `validate:"gte=0"`
}

// AnalyzePending analyzes un-scored pending items within a price window and
// returns the best opportunities.
func (c *Client) AnalyzePending(ctx context.Context, p AnalyzePendingParams) (*model.AnalyzePendingResult, error) {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", fmt.Sprint(p.Limit))
	}
	if p.MinPrice > 0 {
		q.Set("min_price", fmt.Sprint(p.MinPrice))
	}
	if p.MaxPrice > 0 {
		q.Set("max_price", fmt.Sprint(p.MaxPrice))
	}
	var out model.AnalyzePendingResult
	if err := c.post(ctx, "/items/analyze-pending", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
