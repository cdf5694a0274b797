package model

import "time"

// Order types recorded on a transaction so the settlement flow knows which
// aggregate to flip once the gateway reports money received.
const (
    OrderTypeReservation = "reservation"
    OrderTypeOnlineOrder = "online-order"
)

// VANumber is one virtual-account entry reported by the payment gateway.
type VANumber struct {
    Bank     string `json:"bank"`      // issuing bank code
    VANumber string `json:"va_number"` // account number shown to the payer
}

// Transaction represents one payment attempt tied 1:1 to an order id.
// The Token is assigned by the gateway when the transaction is opened and
// doubles as the transaction id.  At most one pending transaction may
// exist per order id; once terminal the row is never mutated again.
//
// Fields:
//  Token            – gateway-assigned payment token (transactions.token).
//  OrderID          – UUID shared with the reservation or online order.
//  OrderType        – reservation | online-order.
//  GrossAmountCents – amount charged, smallest currency unit.
//  Purpose          – downPayment | paid.
//  Status           – pending | settlement | expire | deny | cancel | refund.
//  TransactionTime  – when the transaction was opened.
//  SettlementTime   – gateway-reported settlement moment (nullable).
//  Currency         – gateway-reported currency code (nullable).
//  PaymentType      – gateway-reported channel, e.g. bank_transfer (nullable).
//  VANumbers        – virtual account numbers reported by the gateway.
type Transaction struct {
    Token            string            `json:"token"`                     // transactions.token
    OrderID          string            `json:"order_id"`                  // transactions.order_id
    OrderType        string            `json:"order_type"`                // transactions.order_type
    GrossAmountCents int64             `json:"gross_amount_cents"`        // transactions.gross_amount_cents
    Purpose          string            `json:"purpose"`                   // transactions.purpose
    Status           TransactionStatus `json:"status"`                    // transactions.status
    TransactionTime  time.Time         `json:"transaction_time"`          // transactions.transaction_time
    SettlementTime   *time.Time        `json:"settlement_time,omitempty"` // transactions.settlement_time (nullable)
    Currency         *string           `json:"currency,omitempty"`        // transactions.currency (nullable)
    PaymentType      *string           `json:"payment_type,omitempty"`    // transactions.payment_type (nullable)
    VANumbers        []VANumber        `json:"va_numbers,omitempty"`      // transactions.va_numbers (JSON column)
}
