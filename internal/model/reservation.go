package model

import "time"

// Seating preferences accepted for a table reservation.
const (
    SeatingIndoor  = "indoor"
    SeatingOutdoor = "outdoor"
)

// Reservation types.  A table-only booking carries no menu selections and
// charges a flat deposit; an include-food booking derives its totals from
// the selected menu items.
const (
    ReservationTableOnly   = "table-only"
    ReservationIncludeFood = "include-food"
)

// Payment purposes shared by reservations and transactions.
const (
    PurposeDownPayment = "downPayment"
    PurposePaid        = "paid"
)

// MenuSelection is one line of a booking or order: a menu item, how many,
// and the price captured at booking time.  Prices are always resolved
// server-side from the menu_items table, never trusted from the client.
//
// Fields:
//  MenuItemID – reference into menu_items.
//  Quantity   – number of units, always > 0 once validated.
//  PriceCents – unit price in the smallest currency unit at booking time.
type MenuSelection struct {
    MenuItemID uint64 `json:"menu_item_id"` // reservation_menus.menu_item_id / order_items.menu_item_id
    Quantity   int    `json:"quantity"`     // units ordered
    PriceCents int64  `json:"price_cents"`  // unit price captured at booking time
}

// Reservation records a customer's table booking.  The ID is the order
// identifier: a UUID generated once at creation and shared with the
// transaction opened against the payment gateway.  All monetary fields
// are integers in the smallest currency unit.
//
// Invariants:
//  TotalCents >= DownPaymentCents.
//  Type == table-only  => Menus empty, totals equal the flat deposit.
//  Type == include-food => Menus non-empty, totals derived from menu prices.
type Reservation struct {
    ID               string            `json:"id"`                        // reservations.id (UUID, order identifier)
    CustomerName     string            `json:"customer_name"`             // reservations.customer_name
    CustomerEmail    string            `json:"customer_email"`            // reservations.customer_email
    ReservationAt    time.Time         `json:"reservation_at"`            // reservations.reservation_at (UTC)
    PartySize        int               `json:"party_size"`                // reservations.party_size
    Seating          string            `json:"seating"`                   // reservations.seating (indoor|outdoor)
    SpecialRequest   *string           `json:"special_request,omitempty"` // reservations.special_request (nullable)
    Type             string            `json:"type"`                      // reservations.reservation_type
    Menus            []MenuSelection   `json:"menus,omitempty"`           // reservation_menus rows
    SubtotalCents    int64             `json:"subtotal_cents"`            // reservations.subtotal_cents
    DiscountCents    int64             `json:"discount_cents"`            // reservations.discount_cents
    TotalCents       int64             `json:"total_cents"`               // reservations.total_cents
    DownPaymentCents int64             `json:"down_payment_cents"`        // reservations.down_payment_cents
    PaymentPurpose   string            `json:"payment_purpose"`           // reservations.payment_purpose (downPayment|paid)
    TransactionID    *string           `json:"transaction_id,omitempty"`  // reservations.transaction_id (gateway token, nullable)
    Status           ReservationStatus `json:"status"`                    // reservations.status
    StatusReason     *string           `json:"status_reason,omitempty"`   // reservations.status_reason (nullable)
    CreatedAt        time.Time         `json:"created_at"`                // reservations.created_at
    UpdatedAt        time.Time         `json:"updated_at"`                // reservations.updated_at
}
