package dispatch

import (
	"context"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/model"
	"flipops-dashboard/internal/querycache"

	"github.com/google/uuid"
)

// Invalidation sets per action. Item transitions ripple into the dashboard
// counters; order and listing transitions additionally touch the profit
// analytics. Scrape runs feed new items, so they flush the item lists too.
func itemPatterns(id uuid.UUID) []string {
	return []string{
		querycache.ListPattern("items"),
		querycache.DetailKey("items", id.String()),
		querycache.KindPattern("analytics"),
	}
}

func listingPatterns(id uuid.UUID) []string {
	return []string{
		querycache.ListPattern("listings"),
		querycache.DetailKey("listings", id.String()),
		querycache.KindPattern("analytics"),
	}
}

func orderPatterns(id uuid.UUID) []string {
	return []string{
		querycache.ListPattern("orders"),
		querycache.DetailKey("orders", id.String()),
		querycache.KindPattern("analytics"),
	}
}

// ApproveItem confirms the pending -> approved transition for an item and
// flushes every query that could still show it as pending.
func (d *Dispatcher) ApproveItem(ctx context.Context, id uuid.UUID, req model.ItemApprove) (*model.Item, error) {
	out, err := d.dispatch(ctx, "items:approve:"+id.String(), itemPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.ApproveItem(ctx, id, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Item), nil
}

// RejectItem confirms the rejected transition.
func (d *Dispatcher) RejectItem(ctx context.Context, id uuid.UUID, reason string) (*model.Item, error) {
	out, err := d.dispatch(ctx, "items:reject:"+id.String(), itemPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.RejectItem(ctx, id, reason)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Item), nil
}

// DeleteItem removes an item.
func (d *Dispatcher) DeleteItem(ctx context.Context, id uuid.UUID) error {
	_, err := d.dispatch(ctx, "items:delete:"+id.String(), itemPatterns(id), func(ctx context.Context) (any, error) {
		return nil, d.backend.DeleteItem(ctx, id)
	})
	return err
}

// AnalyzeItem runs the AI valuation for one item.
func (d *Dispatcher) AnalyzeItem(ctx context.Context, id uuid.UUID) (*model.AnalysisResult, error) {
	out, err := d.dispatch(ctx, "items:analyze:"+id.String(), itemPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.AnalyzeItem(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.AnalysisResult), nil
}

// AnalyzePending runs a batch AI valuation over pending items.
func (d *Dispatcher) AnalyzePending(ctx context.Context, p backend.AnalyzePendingParams) (*model.AnalyzePendingResult, error) {
	patterns := []string{
		querycache.ListPattern("items"),
		querycache.KindPattern("analytics"),
	}
	out, err := d.dispatch(ctx, "items:analyze-pending", patterns, func(ctx context.Context) (any, error) {
		return d.backend.AnalyzePending(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.AnalyzePendingResult), nil
}

// PublishListing asks the backend to publish a listing.
func (d *Dispatcher) PublishListing(ctx context.Context, id uuid.UUID) (*model.Ack, error) {
	out, err := d.dispatch(ctx, "listings:publish:"+id.String(), listingPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.PublishListing(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Ack), nil
}

// EndListing takes a listing off the marketplace.
func (d *Dispatcher) EndListing(ctx context.Context, id uuid.UUID) (*model.Ack, error) {
	out, err := d.dispatch(ctx, "listings:end:"+id.String(), listingPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.EndListing(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Ack), nil
}

// MarkPurchased records the source purchase for an order.
func (d *Dispatcher) MarkPurchased(ctx context.Context, id uuid.UUID, req model.MarkPurchased) (*model.Order, error) {
	out, err := d.dispatch(ctx, "orders:mark-purchased:"+id.String(), orderPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.MarkPurchased(ctx, id, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Order), nil
}

// MarkShipped records the outbound shipment for an order.
func (d *Dispatcher) MarkShipped(ctx context.Context, id uuid.UUID, req model.MarkShipped) (*model.Order, error) {
	out, err := d.dispatch(ctx, "orders:mark-shipped:"+id.String(), orderPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.MarkShipped(ctx, id, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Order), nil
}

// CompleteOrder closes out an order.
func (d *Dispatcher) CompleteOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	out, err := d.dispatch(ctx, "orders:complete:"+id.String(), orderPatterns(id), func(ctx context.Context) (any, error) {
		return d.backend.CompleteOrder(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Order), nil
}

// StartScrape launches a manual scraping run. New items land in the pending
// lists, so those flush alongside the scraper status.
func (d *Dispatcher) StartScrape(ctx context.Context, req model.ScrapeRequest) (*model.ScrapeResponse, error) {
	patterns := []string{
		querycache.ListPattern("items"),
		querycache.Key("scraper", "status", nil),
	}
	out, err := d.dispatch(ctx, "scraper:start", patterns, func(ctx context.Context) (any, error) {
		return d.backend.StartScrape(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.ScrapeResponse), nil
}

func schedulerPatterns() []string {
	return []string{querycache.Key("scheduler", "status", nil)}
}

// StartScheduler turns the automatic scheduler on.
func (d *Dispatcher) StartScheduler(ctx context.Context) (*model.Ack, error) {
	out, err := d.dispatch(ctx, "scheduler:start", schedulerPatterns(), func(ctx context.Context) (any, error) {
		return d.backend.StartScheduler(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Ack), nil
}

// StopScheduler turns the automatic scheduler off.
func (d *Dispatcher) StopScheduler(ctx context.Context) (*model.Ack, error) {
	out, err := d.dispatch(ctx, "scheduler:stop", schedulerPatterns(), func(ctx context.Context) (any, error) {
		return d.backend.StopScheduler(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Ack), nil
}

// UpdateSchedulerSettings applies new scheduler settings.
func (d *Dispatcher) UpdateSchedulerSettings(ctx context.Context, s model.SchedulerSettings) (*model.SchedulerStatus, error) {
	out, err := d.dispatch(ctx, "scheduler:settings", schedulerPatterns(), func(ctx context.Context) (any, error) {
		return d.backend.UpdateSchedulerSettings(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.SchedulerStatus), nil
}

// TestTelegram sends a test notification. Nothing cached depends on it.
func (d *Dispatcher) TestTelegram(ctx context.Context) (*model.Ack, error) {
	out, err := d.dispatch(ctx, "scheduler:test-telegram", nil, func(ctx context.Context) (any, error) {
		return d.backend.TestTelegram(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Ack), nil
}

// ScrapeCategory runs a one-off scrape for a category preset.
func (d *Dispatcher) ScrapeCategory(ctx context.Context, categoryID string) (*model.CategoryScrapeResult, error) {
	patterns := []string{
		querycache.ListPattern("items"),
		querycache.Key("scheduler", "status", nil),
	}
	out, err := d.dispatch(ctx, "scheduler:scrape-category:"+categoryID, patterns, func(ctx context.Context) (any, error) {
		return d.backend.ScrapeCategory(ctx, categoryID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.CategoryScrapeResult), nil
}
