package model

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the lifecycle state of a discovered item. Transitions are
// decided by the backend and only move forward (pending -> approved/rejected,
// approved -> listed -> sold); the dashboard never computes the next state.
type ItemStatus string

const (
	ItemPending     ItemStatus = "pending"
	ItemApproved    ItemStatus = "approved"
	ItemRejected    ItemStatus = "rejected"
	ItemListed      ItemStatus = "listed"
	ItemSold        ItemStatus = "sold"
	ItemUnavailable ItemStatus = "unavailable"
)

// SourcePlatform identifies the marketplace an item was scraped from.
type SourcePlatform string

const (
	SourceFacebook SourcePlatform = "facebook"
	SourceSubito   SourcePlatform = "subito"
	SourceWallapop SourcePlatform = "wallapop"
	SourceVinted   SourcePlatform = "vinted"
	SourceOther    SourcePlatform = "other"
)

// Item is a discovered product candidate pending triage. The dashboard only
// holds a cached, possibly-stale copy; the backend owns the record.
type Item struct {
	ID             uuid.UUID      `json:"id"`
	SourcePlatform SourcePlatform `json:"source_platform"`
	SourceURL      string         `json:"source_url"`
	SourceID       string         `json:"source_id"`

	OriginalTitle       string         `json:"original_title"`
	OriginalDescription string         `json:"original_description,omitempty"`
	OriginalPrice       float64        `json:"original_price"`
	OriginalCurrency    string         `json:"original_currency"`
	OriginalImages      []string       `json:"original_images"`
	OriginalLocation    string         `json:"original_location,omitempty"`
	SellerInfo          map[string]any `json:"seller_info,omitempty"`

	AIValidation      *AIValidation `json:"ai_validation,omitempty"`
	AIScore           *int          `json:"ai_score,omitempty"`
	AICategory        string        `json:"ai_category,omitempty"`
	AIBrand           string        `json:"ai_brand,omitempty"`
	AIModel           string        `json:"ai_model,omitempty"`
	AICondition       string        `json:"ai_condition,omitempty"`
	EstimatedValueMin *float64      `json:"estimated_value_min,omitempty"`
	EstimatedValueMax *float64      `json:"estimated_value_max,omitempty"`
	PotentialMargin   *float64      `json:"potential_margin,omitempty"`

	Status          ItemStatus `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	FoundAt    time.Time  `json:"found_at"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ItemList is the paginated list envelope for items.
type ItemList struct {
	Items   []Item `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Pages   int    `json:"pages"`
}

// ItemApprove is the payload for approving an item. When ListingPrice is nil
// the backend derives one from the estimated value.
type ItemApprove struct {
	ListingPrice *float64 `json:"listing_price,omitempty" validate:"omitempty,gt=0"`
	Platform     string   `json:"platform,omitempty" validate:"omitempty,oneof=ebay etsy backmarket"`
}

// PriceRange is the estimated resale value bracket from the vision analyzer.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// AIValidation is the freeform analysis result attached to an item. The
// backend has shipped two shapes for this field: an English-keyed analyzer
// payload and an Italian-keyed vision payload. Both key sets are kept as
// optional fields and decoded from the same object; any field may be absent.
type AIValidation struct {
	Score             *int     `json:"score,omitempty"`
	Category          string   `json:"category,omitempty"`
	Brand             string   `json:"brand,omitempty"`
	Model             string   `json:"model,omitempty"`
	Condition         string   `json:"condition,omitempty"`
	EstimatedValueMin *float64 `json:"estimated_value_min,omitempty"`
	EstimatedValueMax *float64 `json:"estimated_value_max,omitempty"`
	MarginPercentage  *float64 `json:"margin_percentage,omitempty"`
	Recommendation    string   `json:"recommendation,omitempty"`
	Reasoning         string   `json:"reasoning,omitempty"`
	RedFlags          []string `json:"red_flags,omitempty"`
	SellingTips       string   `json:"selling_tips,omitempty"`

	Categoria         string      `json:"categoria,omitempty"`
	Modello           string      `json:"modello,omitempty"`
	Stato             string      `json:"stato,omitempty"`
	StatoScore        *int        `json:"stato_score,omitempty"`
	DifettiVisibili   []string    `json:"difetti_visibili,omitempty"`
	ScoreAffidabilita *int        `json:"score_affidabilita,omitempty"`
	PrezzoStimato     *PriceRange `json:"prezzo_stimato,omitempty"`
	Raccomandazione   string      `json:"raccomandazione,omitempty"`
	MarginePotenziale *float64    `json:"margine_potenziale,omitempty"`
}

// OverallScore returns the analysis score regardless of which payload shape
// the backend produced.
func (v *AIValidation) OverallScore() (int, bool) {
	if v == nil {
		return 0, false
	}
	if v.Score != nil {
		return *v.Score, true
	}
	if v.ScoreAffidabilita != nil {
		return *v.ScoreAffidabilita, true
	}
	return 0, false
}

// ValueRange returns the estimated value bracket regardless of payload shape.
func (v *AIValidation) ValueRange() (min, max float64, ok bool) {
	if v == nil {
		return 0, 0, false
	}
	if v.EstimatedValueMin != nil || v.EstimatedValueMax != nil {
		if v.EstimatedValueMin != nil {
			min = *v.EstimatedValueMin
		}
		if v.EstimatedValueMax != nil {
			max = *v.EstimatedValueMax
		}
		return min, max, true
	}
	if v.PrezzoStimato != nil {
		if v.PrezzoStimato.Min != nil {
			min = *v.PrezzoStimato.Min
		}
		if v.PrezzoStimato.Max != nil {
			max = *v.PrezzoStimato.Max
		}
		return min, max, true
	}
	return 0, 0, false
}

// RecommendedAction normalizes the buy/skip/watch recommendation across both
// payload shapes. Empty when the analyzer gave none.
func (v *AIValidation) RecommendedAction() string {
	if v == nil {
		return ""
	}
	if v.Recommendation != "" {
		return v.Recommendation
	}
	return v.Raccomandazione
}

// AnalysisResult pairs an item with the analysis the backend just produced.
type AnalysisResult struct {
	Item     Item          `json:"item"`
	Analysis *AIValidation `json:"analysis,omitempty"`
}

// AnalyzePendingResult summarizes a batch analysis run over pending items.
type AnalyzePendingResult struct {
	Message            string           `json:"message,omitempty"`
	Analyzed           int              `json:"analyzed"`
	OpportunitiesFound int              `json:"opportunities_found"`
	Opportunities      []AnalysisResult `json:"opportunities"`
}
