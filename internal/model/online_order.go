package model

import "time"

// OnlineOrder records a delivery order placed through the storefront.
// The ID is the order identifier (UUID) shared with the payment
// transaction.  Totals obey:
//
//  TotalCents = SubtotalCents + ShippingCents - DiscountCents
//
// Fields mirror the online_orders table; items live in order_items.
type OnlineOrder struct {
    ID            string          `json:"id"`                       // online_orders.id (UUID, order identifier)
    CustomerName  string          `json:"customer_name"`            // online_orders.customer_name
    CustomerEmail string          `json:"customer_email"`           // online_orders.customer_email
    Address       string          `json:"address"`                  // online_orders.address
    DeliveryAt    time.Time       `json:"delivery_at"`              // online_orders.delivery_at (UTC)
    Note          *string         `json:"note,omitempty"`           // online_orders.note (nullable)
    Items         []MenuSelection `json:"items"`                    // order_items rows
    SubtotalCents int64           `json:"subtotal_cents"`           // online_orders.subtotal_cents
    ShippingCents int64           `json:"shipping_cents"`           // online_orders.shipping_cents
    DiscountCents int64           `json:"discount_cents"`           // online_orders.discount_cents
    TotalCents    int64           `json:"total_cents"`              // online_orders.total_cents
    TransactionID *string         `json:"transaction_id,omitempty"` // online_orders.transaction_id (gateway token, nullable)
    Status        OrderStatus     `json:"status"`                   // online_orders.status
    StatusReason  *string         `json:"status_reason,omitempty"`  // online_orders.status_reason (nullable)
    DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`   // online_orders.delivered_at (nullable)
    CreatedAt     time.Time       `json:"created_at"`               // online_orders.created_at
    UpdatedAt     time.Time       `json:"updated_at"`               // online_orders.updated_at
}
