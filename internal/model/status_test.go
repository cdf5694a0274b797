package model

import "testing"

func TestReservationTransitions(t *testing.T) {
    if !ReservationPending.CanTransition(ReservationConfirmed) {
        t.Error("pending -> confirmed should be allowed")
    }
    if !ReservationPending.CanTransition(ReservationExpired) {
        t.Error("pending -> expired should be allowed")
    }
    if ReservationCancelled.CanTransition(ReservationConfirmed) {
        t.Error("cancelled must be absorbing")
    }
    if ReservationExpired.CanTransition(ReservationPending) {
        t.Error("expired must be absorbing")
    }
}

func TestOrderHappyPathIsMonotonic(t *testing.T) {
    path := []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipping, OrderDelivered}
    for i := 0; i < len(path)-1; i++ {
        if !path[i].CanTransition(path[i+1]) {
            t.Errorf("%s -> %s should be allowed", path[i], path[i+1])
        }
    }
    // no skipping ahead or moving backwards
    if OrderPending.CanTransition(OrderProcessing) {
        t.Error("pending -> processing skips confirmation")
    }
    if OrderShipping.CanTransition(OrderProcessing) {
        t.Error("shipping -> processing moves backwards")
    }
    if OrderDelivered.CanTransition(OrderCancelled) {
        t.Error("delivered orders cannot be cancelled")
    }
}

func TestOrderCancellableBeforeDelivery(t *testing.T) {
    for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipping} {
        if !s.CanTransition(OrderCancelled) {
            t.Errorf("%s -> cancelled should be allowed", s)
        }
    }
}

func TestTransactionTerminalStatesAreAbsorbing(t *testing.T) {
    terminals := []TransactionStatus{TxSettlement, TxExpire, TxDeny, TxCancel, TxRefund}
    for _, term := range terminals {
        if !TxPending.CanTransition(term) {
            t.Errorf("pending -> %s should be allowed", term)
        }
        if !term.Terminal() {
            t.Errorf("%s should report terminal", term)
        }
        for _, next := range append(terminals, TxPending) {
            if term.CanTransition(next) {
                t.Errorf("%s -> %s must not be allowed", term, next)
            }
        }
    }
    if TxPending.Terminal() {
        t.Error("pending must not report terminal")
    }
}
