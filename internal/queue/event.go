// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderConfirmedEvent is published when a reservation or online order is
// confirmed after payment settlement.  It contains enough information
// for downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type OrderConfirmedEvent struct {
    OrderID       string `json:"order_id"`       // shared order identifier (UUID)
    OrderType     string `json:"order_type"`     // reservation | online-order
    CustomerEmail string `json:"customer_email"` // who placed the order
    TotalCents    int64  `json:"total_cents"`    // amount of the aggregate
    ChargedCents  int64  `json:"charged_cents"`  // amount actually settled
    Purpose       string `json:"purpose"`        // downPayment | paid
    TransactionID string `json:"transaction_id"` // gateway token
    ConfirmedAt   string `json:"confirmed_at"`   // RFC3339 settlement moment
}
