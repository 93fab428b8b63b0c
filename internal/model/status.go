package model

// SchedulerStatus is the backend's snapshot of the automatic scraping
// scheduler. Read-only from the dashboard's perspective. Timestamps come
// through as the backend's ISO strings (no timezone suffix), so they are kept
// verbatim rather than parsed.
type SchedulerStatus struct {
	Running                 bool     `json:"running"`
	LastScrape              string   `json:"last_scrape,omitempty"`
	LastAnalysis            string   `json:"last_analysis,omitempty"`
	ScrapeIntervalMinutes   int      `json:"scrape_interval_minutes"`
	AnalysisIntervalMinutes int      `json:"analysis_interval_minutes"`
	Queries                 []string `json:"queries"`
	MinScoreForAlert        int      `json:"min_score_for_alert"`
}

// SchedulerSettings updates the scraping scheduler. Nil fields are left
// unchanged by the backend.
type SchedulerSettings struct {
	Queries                 []string `json:"queries,omitempty" validate:"omitempty,min=1,dive,required"`
	ScrapeIntervalMinutes   *int     `json:"scrape_interval_minutes,omitempty" validate:"omitempty,min=1"`
	AnalysisIntervalMinutes *int     `json:"analysis_interval_minutes,omitempty" validate:"omitempty,min=1"`
	MinScoreForAlert        *int     `json:"min_score_for_alert,omitempty" validate:"omitempty,min=0,max=100"`
}

// ScraperStatus reports whether a manual scrape is running and which source
// platforms are supported.
type ScraperStatus struct {
	Status             string   `json:"status"`
	SupportedPlatforms []string `json:"supported_platforms"`
	ComingSoon         []string `json:"coming_soon,omitempty"`
}

// ScrapeRequest starts a manual scraping run.
type ScrapeRequest struct {
	Queries  []string `json:"queries" validate:"required,min=1,dive,required"`
	MaxPages int      `json:"max_pages" validate:"omitempty,min=1,max=20"`
	Platform string   `json:"platform" validate:"omitempty,oneof=subito facebook wallapop vinted"`
}

// ScrapeResponse acknowledges a scraping run.
type ScrapeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TaskID  string `json:"task_id,omitempty"`
}

// CategoryPreset is a predefined scraping category with its search queries
// and price window.
type CategoryPreset struct {
	Name     string   `json:"name"`
	Queries  []string `json:"queries"`
	MinPrice float64  `json:"min_price"`
	MaxPrice float64  `json:"max_price"`
}

// CategoryScrapeResult reports a category-preset scraping run.
type CategoryScrapeResult struct {
	Status   string   `json:"status"`
	Category string   `json:"category"`
	Queries  []string `json:"queries"`
	NewItems int      `json:"new_items"`
}

// Ack is a generic action acknowledgement from the backend.
type Ack struct {
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	ListingID string `json:"listing_id,omitempty"`
}
