package model

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatus is the lifecycle state of a marketplace listing. The backend
// drives all transitions (draft -> publishing -> active -> paused/sold/ended,
// error as a failure terminal).
type ListingStatus string

const (
	ListingDraft      ListingStatus = "draft"
	ListingPublishing ListingStatus = "publishing"
	ListingActive     ListingStatus = "active"
	ListingPaused     ListingStatus = "paused"
	ListingSold       ListingStatus = "sold"
	ListingEnded      ListingStatus = "ended"
	ListingError      ListingStatus = "error"
)

// DestinationPlatform identifies where a listing is published.
type DestinationPlatform string

const (
	PlatformEbay       DestinationPlatform = "ebay"
	PlatformEtsy       DestinationPlatform = "etsy"
	PlatformBackmarket DestinationPlatform = "backmarket"
)

// Listing is a published (or about-to-be-published) offer derived from an
// approved item. One item has at most one active listing at a time.
type Listing struct {
	ID     uuid.UUID           `json:"id"`
	ItemID uuid.UUID           `json:"item_id"`

	Platform          DestinationPlatform `json:"platform"`
	PlatformListingID string              `json:"platform_listing_id,omitempty"`
	ListingURL        string              `json:"listing_url,omitempty"`

	EnhancedTitle       string   `json:"enhanced_title"`
	EnhancedDescription string   `json:"enhanced_description"`
	EnhancedImages      []string `json:"enhanced_images"`

	ListingPrice  float64 `json:"listing_price"`
	ShippingPrice float64 `json:"shipping_price"`

	EbayCategoryID    string         `json:"ebay_category_id,omitempty"`
	EbayItemSpecifics map[string]any `json:"ebay_item_specifics,omitempty"`

	Views    int `json:"views"`
	Watchers int `json:"watchers"`

	Status       ListingStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListingList is the paginated list envelope for listings.
type ListingList struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
	Pages    int       `json:"pages"`
}
