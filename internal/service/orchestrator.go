package service

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
    "github.com/iliyamo/restaurant-reservation/internal/payment"
    "github.com/iliyamo/restaurant-reservation/internal/repository"
)

// TransactionStore is the transaction repository surface used by the
// orchestrator.  CreatePending must refuse a second pending row for
// the same order id with repository.ErrPendingExists; MarkSettlement
// and MarkTerminal must only touch rows still in pending state, which
// keeps terminal rows immutable at the storage layer too.
type TransactionStore interface {
    GetByOrderID(ctx context.Context, orderID string) (model.Transaction, error)
    CreatePending(ctx context.Context, t *model.Transaction) error
    MarkSettlement(ctx context.Context, orderID string, settledAt time.Time, currency, paymentType *string, va []model.VANumber) error
    MarkTerminal(ctx context.Context, orderID string, status model.TransactionStatus) error
}

// Gateway is the outbound payment-provider surface.  Implemented by
// *payment.Client; faked in tests.
type Gateway interface {
    CreateTransaction(ctx context.Context, orderID string, grossAmountCents int64) (payment.SnapToken, error)
    GetStatus(ctx context.Context, orderID string) (payment.Status, error)
}

// Orchestrator drives the transaction state machine: it opens pending
// transactions against the gateway and later reconciles settlement.
type Orchestrator struct {
    Transactions TransactionStore
    Gateway      Gateway
}

// Open creates a pending transaction for an order.  The gateway token
// request happens before the local insert: a gateway failure therefore
// leaves no local row behind, and a local insert failure leaves only a
// gateway-side intent that expires at the provider.  The one-pending-
// per-order invariant is enforced both here and by a unique index in
// the store.
func (o *Orchestrator) Open(ctx context.Context, orderID, orderType string, amountCents int64, purpose string) (model.Transaction, error) {
    if existing, err := o.Transactions.GetByOrderID(ctx, orderID); err == nil {
        if existing.Status == model.TxPending {
            return model.Transaction{}, E(KindConflict, "a pending transaction already exists for this order")
        }
        return model.Transaction{}, E(KindConflict, "order already has a finished transaction")
    } else if !errors.Is(err, sql.ErrNoRows) {
        return model.Transaction{}, wrapE(KindPersistence, "transaction lookup failed", err)
    }

    tok, err := o.Gateway.CreateTransaction(ctx, orderID, amountCents)
    if err != nil {
        return model.Transaction{}, wrapE(KindGatewayUnavailable, "payment gateway unavailable", err)
    }

    t := model.Transaction{
        Token:            tok.Token,
        OrderID:          orderID,
        OrderType:        orderType,
        GrossAmountCents: amountCents,
        Purpose:          purpose,
        Status:           model.TxPending,
        TransactionTime:  time.Now().UTC(),
    }
    if err := o.Transactions.CreatePending(ctx, &t); err != nil {
        if errors.Is(err, repository.ErrPendingExists) {
            return model.Transaction{}, E(KindConflict, "a pending transaction already exists for this order")
        }
        return model.Transaction{}, wrapE(KindPersistence, "saving transaction failed", err)
    }
    return t, nil
}

// ConfirmSettlement queries the gateway for the authoritative status of
// an order's transaction and persists settlement.  Calling it again
// after a successful settlement is a no-op success; the terminal row is
// never touched.  Any non-settlement gateway status fails with
// KindNotSettled and changes nothing.
func (o *Orchestrator) ConfirmSettlement(ctx context.Context, orderID string) (model.Transaction, error) {
    t, err := o.Transactions.GetByOrderID(ctx, orderID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Transaction{}, E(KindNotFound, "transaction not found")
        }
        return model.Transaction{}, wrapE(KindPersistence, "transaction lookup failed", err)
    }
    if t.Status.Terminal() {
        if t.Status == model.TxSettlement {
            return t, nil // duplicate callback; already settled
        }
        return model.Transaction{}, E(KindNotSettled, "transaction already closed as "+string(t.Status))
    }

    st, err := o.Gateway.GetStatus(ctx, orderID)
    if err != nil {
        return model.Transaction{}, wrapE(KindGatewayUnavailable, "payment gateway unavailable", err)
    }
    if st.TransactionStatus != payment.StatusSettlement {
        return model.Transaction{}, E(KindNotSettled, "gateway reports status "+st.TransactionStatus)
    }

    settledAt := parseGatewayTime(st.SettlementTime)
    var currency, paymentType *string
    if st.Currency != "" {
        currency = &st.Currency
    }
    if st.PaymentType != "" {
        paymentType = &st.PaymentType
    }
    if err := o.Transactions.MarkSettlement(ctx, orderID, settledAt, currency, paymentType, st.VANumbers); err != nil {
        return model.Transaction{}, wrapE(KindPersistence, "saving settlement failed", err)
    }

    t.Status = model.TxSettlement
    t.SettlementTime = &settledAt
    t.Currency = currency
    t.PaymentType = paymentType
    t.VANumbers = st.VANumbers
    return t, nil
}

// Expire closes a still-pending transaction as expired.  Used by the
// background sweep once the pending window has elapsed.
func (o *Orchestrator) Expire(ctx context.Context, orderID string) error {
    if err := o.Transactions.MarkTerminal(ctx, orderID, model.TxExpire); err != nil {
        return wrapE(KindPersistence, "expiring transaction failed", err)
    }
    return nil
}

// Get fetches the local transaction row for an order id.
func (o *Orchestrator) Get(ctx context.Context, orderID string) (model.Transaction, error) {
    t, err := o.Transactions.GetByOrderID(ctx, orderID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Transaction{}, E(KindNotFound, "transaction not found")
        }
        return model.Transaction{}, wrapE(KindPersistence, "transaction lookup failed", err)
    }
    return t, nil
}

// parseGatewayTime parses the gateway's "2006-01-02 15:04:05" timestamps,
// falling back to RFC3339 and finally to the current time so a malformed
// settlement payload never blocks reconciliation.
func parseGatewayTime(s string) time.Time {
    if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
        return t.UTC()
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC()
    }
    return time.Now().UTC()
}
