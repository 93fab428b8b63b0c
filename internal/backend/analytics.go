package backend

import (
	"context"
	"fmt"
	"net/url"

	"flipops-dashboard/internal/model"
)

// DashboardStats returns the headline counters and profit aggregates.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.get(ctx, "/analytics/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DailyProfit returns the per-day profit series for the last N days.
func (c *Client) DailyProfit(ctx context.Context, days int) (*model.DailyProfitReport, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", fmt.Sprint(days))
	}
	var out model.DailyProfitReport
	if err := c.get(ctx, "/analytics/profit/daily", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SourceStats returns item outcome aggregates per source platform.
func (c *Client) SourceStats(ctx context.Context) (*model.SourceStats, error) {
	var out model.SourceStats
	if err := c.get(ctx, "/analytics/sources", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryStats returns item aggregates per AI-detected category.
func (c *Client) CategoryStats(ctx context.Context) (*model.CategoryStats, error) {
	var out model.CategoryStats
	if err := c.get(ctx, "/analytics/categories", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
