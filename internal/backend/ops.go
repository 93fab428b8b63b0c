package backend

import (
	"context"

	"flipops-dashboard/internal/model"
)

// StartScrape launches a manual scraping run. The run executes in the
// background server-side; the response only acknowledges the start.
func (c *Client) StartScrape(ctx context.Context, req model.ScrapeRequest) (*model.ScrapeResponse, error) {
	var out model.ScrapeResponse
	if err := c.post(ctx, "/scraper/start", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScraperStatus reports the manual scraper's state.
func (c *Client) ScraperStatus(ctx context.Context) (*model.ScraperStatus, error) {
	var out model.ScraperStatus
	if err := c.get(ctx, "/scraper/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SchedulerStatus reports the automatic scheduler's state.
func (c *Client) SchedulerStatus(ctx context.Context) (*model.SchedulerStatus, error) {
	var out model.SchedulerStatus
	if err := c.get(ctx, "/scheduler/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartScheduler turns the automatic scraping scheduler on.
func (c *Client) StartScheduler(ctx context.Context) (*model.Ack, error) {
	var out model.Ack
	if err := c.post(ctx, "/scheduler/start", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopScheduler turns the automatic scraping scheduler off.
func (c *Client) StopScheduler(ctx context.Context) (*model.Ack, error) {
	var out model.Ack
	if err := c.post(ctx, "/scheduler/stop", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSchedulerSettings applies new scheduler settings and returns the
// resulting status snapshot.
func (c *Client) UpdateSchedulerSettings(ctx context.Context, s model.SchedulerSettings) (*model.SchedulerStatus, error) {
	var out model.SchedulerStatus
	if err := c.put(ctx, "/scheduler/settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TestTelegram sends a test notification through the backend's Telegram bot.
func (c *Client) TestTelegram(ctx context.Context) (*model.Ack, error) {
	var out model.Ack
	if err := c.post(ctx, "/scheduler/test-telegram", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryPresets returns the predefined scraping categories.
func (c *Client) CategoryPresets(ctx context.Context) (map[string]model.CategoryPreset, error) {
	out := map[string]model.CategoryPreset{}
	if err := c.get(ctx, "/scheduler/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScrapeCategory runs a one-off scrape for a category preset.
func (c *Client) ScrapeCategory(ctx context.Context, categoryID string) (*model.CategoryScrapeResult, error) {
	var out model.CategoryScrapeResult
	if err := c.post(ctx, "/scheduler/scrape-category/"+categoryID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
