package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of a sale. The happy path is
// pending_purchase -> purchased -> shipped_to_me -> received ->
// shipped_to_buyer -> delivered -> completed; refunded and cancelled are
// terminal alternates.
type OrderStatus string

const (
	OrderPendingPurchase OrderStatus = "pending_purchase"
	OrderPurchased       OrderStatus = "purchased"
	OrderShippedToMe     OrderStatus = "shipped_to_me"
	OrderReceived        OrderStatus = "received"
	OrderShippedToBuyer  OrderStatus = "shipped_to_buyer"
	OrderDelivered       OrderStatus = "delivered"
	OrderCompleted       OrderStatus = "completed"
	OrderRefunded        OrderStatus = "refunded"
	OrderCancelled       OrderStatus = "cancelled"
)

// Order is a sale transaction tied to a listing. Profit figures are computed
// by the backend from sale and purchase costs.
type Order struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listing_id"`
	PlatformOrderID string    `json:"platform_order_id,omitempty"`

	SalePrice            float64  `json:"sale_price"`
	PlatformFees         *float64 `json:"platform_fees,omitempty"`
	ShippingCostReceived *float64 `json:"shipping_cost_received,omitempty"`

	PurchasePrice    *float64   `json:"purchase_price,omitempty"`
	PurchaseShipping *float64   `json:"purchase_shipping,omitempty"`
	PurchaseDate     *time.Time `json:"purchase_date,omitempty"`
	PurchaseURL      string     `json:"purchase_url,omitempty"`

	ShippingCostPaid *float64 `json:"shipping_cost_paid,omitempty"`
	TrackingNumber   string   `json:"tracking_number,omitempty"`

	GrossProfit *float64 `json:"gross_profit,omitempty"`
	NetProfit   *float64 `json:"net_profit,omitempty"`

	Status OrderStatus `json:"status"`
	Notes  string      `json:"notes,omitempty"`

	BuyerUsername   string         `json:"buyer_username,omitempty"`
	BuyerInfo       map[string]any `json:"buyer_info,omitempty"`
	ShippingAddress map[string]any `json:"shipping_address,omitempty"`

	SoldAt      time.Time  `json:"sold_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OrderList is the paginated list envelope for orders.
type OrderList struct {
	Orders  []Order `json:"orders"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Pages   int     `json:"pages"`
}

// MarkPurchased records the source purchase for an order.
type MarkPurchased struct {
	PurchasePrice    float64 `json:"purchase_price" validate:"required,gt=0"`
	PurchaseShipping float64 `json:"purchase_shipping" validate:"gte=0"`
	PurchaseURL      string  `json:"purchase_url,omitempty" validate:"omitempty,url"`
}

// MarkShipped records the outbound shipment to the buyer.
type MarkShipped struct {
	TrackingNumber string  `json:"tracking_number" validate:"required"`
	ShippingCost   float64 `json:"shipping_cost" validate:"gte=0"`
}
