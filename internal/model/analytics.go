package model

// ItemCounts groups item totals by triage state.
type ItemCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Listed   int `json:"listed"`
}

// ListingCounts groups listing totals.
type ListingCounts struct {
	Active int `json:"active"`
}

// OrderCounts groups order totals.
type OrderCounts struct {
	PendingAction int `json:"pending_action"`
	Completed     int `json:"completed"`
}

// ProfitSummary carries aggregate net profit figures.
type ProfitSummary struct {
	Total   float64 `json:"total"`
	Monthly float64 `json:"monthly"`
}

// DashboardStats is the headline widget payload for the dashboard home view.
type DashboardStats struct {
	Items    ItemCounts    `json:"items"`
	Listings ListingCounts `json:"listings"`
	Orders   OrderCounts   `json:"orders"`
	Profit   ProfitSummary `json:"profit"`
}

// DailyProfitPoint is one day of completed-order profit for the chart view.
type DailyProfitPoint struct {
	Date   string  `json:"date"`
	Profit float64 `json:"profit"`
	Orders int     `json:"orders"`
}

// DailyProfitReport wraps the daily profit series.
type DailyProfitReport struct {
	Data []DailyProfitPoint `json:"data"`
}

// SourceStat aggregates item outcomes per source platform.
type SourceStat struct {
	Platform string  `json:"platform"`
	Total    int     `json:"total"`
	Approved int     `json:"approved"`
	Sold     int     `json:"sold"`
	AvgScore float64 `json:"avg_score"`
}

// SourceStats wraps the per-source aggregates.
type SourceStats struct {
	Sources []SourceStat `json:"sources"`
}

// CategoryStat aggregates items per AI-detected category.
type CategoryStat struct {
	Category  string  `json:"category"`
	Total     int     `json:"total"`
	AvgMargin float64 `json:"avg_margin"`
}

// CategoryStats wraps the per-category aggregates.
type CategoryStats struct {
	Categories []CategoryStat `json:"categories"`
}
