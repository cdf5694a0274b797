package model

// Status machines for the three aggregates.  Each aggregate carries a
// string status column checked against a transition map, so the service
// layer and the tests share a single authoritative definition of which
// moves are legal.

// ReservationStatus is the lifecycle state of a table reservation.
type ReservationStatus string

const (
    ReservationPending     ReservationStatus = "pending"
    ReservationConfirmed   ReservationStatus = "confirmed"
    ReservationRescheduled ReservationStatus = "rescheduled"
    ReservationCancelled   ReservationStatus = "cancelled"
    ReservationExpired     ReservationStatus = "expired"
)

var reservationNext = map[ReservationStatus]map[ReservationStatus]bool{
    ReservationPending:     {ReservationConfirmed: true, ReservationCancelled: true, ReservationExpired: true},
    ReservationConfirmed:   {ReservationRescheduled: true, ReservationCancelled: true},
    ReservationRescheduled: {ReservationConfirmed: true, ReservationCancelled: true},
    ReservationCancelled:   {},
    ReservationExpired:     {},
}

// CanTransition reports whether a reservation may move from s to next.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
    return reservationNext[s][next]
}

// OrderStatus is the fulfillment state of an online order.  The happy
// path advances monotonically pending -> confirmed -> processing ->
// shipping -> delivered; cancellation is allowed at any point before
// delivery and expiry only while payment is still outstanding.
type OrderStatus string

const (
    OrderPending    OrderStatus = "pending"
    OrderConfirmed  OrderStatus = "confirmed"
    OrderProcessing OrderStatus = "processing"
    OrderShipping   OrderStatus = "shipping"
    OrderDelivered  OrderStatus = "delivered"
    OrderCancelled  OrderStatus = "cancelled"
    OrderExpired    OrderStatus = "expired"
)

var orderNext = map[OrderStatus]map[OrderStatus]bool{
    OrderPending:    {OrderConfirmed: true, OrderCancelled: true, OrderExpired: true},
    OrderConfirmed:  {OrderProcessing: true, OrderCancelled: true},
    OrderProcessing: {OrderShipping: true, OrderCancelled: true},
    OrderShipping:   {OrderDelivered: true, OrderCancelled: true},
    OrderDelivered:  {},
    OrderCancelled:  {},
    OrderExpired:    {},
}

// CanTransition reports whether an online order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
    return orderNext[s][next]
}

// TransactionStatus is the gateway-facing state of a payment attempt.
// pending is the only non-terminal state; every other status is
// absorbing and the local row becomes immutable once reached.
type TransactionStatus string

const (
    TxPending    TransactionStatus = "pending"
    TxSettlement TransactionStatus = "settlement"
    TxExpire     TransactionStatus = "expire"
    TxDeny       TransactionStatus = "deny"
    TxCancel     TransactionStatus = "cancel"
    TxRefund     TransactionStatus = "refund"
)

var txNext = map[TransactionStatus]map[TransactionStatus]bool{
    TxPending:    {TxSettlement: true, TxExpire: true, TxDeny: true, TxCancel: true, TxRefund: true},
    TxSettlement: {},
    TxExpire:     {},
    TxDeny:       {},
    TxCancel:     {},
    TxRefund:     {},
}

// CanTransition reports whether a transaction may move from s to next.
func (s TransactionStatus) CanTransition(next TransactionStatus) bool {
    return txNext[s][next]
}

// Terminal reports whether s is an absorbing transaction status.
func (s TransactionStatus) Terminal() bool {
    return s != TxPending && s != ""
}
