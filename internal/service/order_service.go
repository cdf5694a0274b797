package service

import (
    "context"
    "database/sql"
    "errors"
    "log"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/restaurant-reservation/internal/model"
    "github.com/iliyamo/restaurant-reservation/internal/pricing"
    "github.com/iliyamo/restaurant-reservation/internal/queue"
    "github.com/iliyamo/restaurant-reservation/internal/utils"
)

// newGuestTokenFor mints the guest access token returned to non-members
// after creating an order or reservation.
func newGuestTokenFor(secret, email string) (string, error) {
    tok, err := utils.NewGuestToken(secret, email)
    if err != nil {
        return "", wrapE(KindPersistence, "issuing guest token failed", err)
    }
    return tok, nil
}

// OrderStore is the online-order repository surface used by the service.
type OrderStore interface {
    Create(ctx context.Context, o *model.OnlineOrder) error
    GetByID(ctx context.Context, id string) (model.OnlineOrder, error)
    UpdateStatus(ctx context.Context, id string, status model.OrderStatus, reason *string, deliveredAt *time.Time) error
    ListStalePending(ctx context.Context, olderThan time.Time) ([]model.OnlineOrder, error)
}

// OrderInput is the payload for creating an online delivery order.
type OrderInput struct {
    CustomerName  string               `json:"customer_name"`
    CustomerEmail string               `json:"customer_email"`
    Address       string               `json:"address"`
    DeliveryAt    time.Time            `json:"delivery_at"`
    Note          string               `json:"note"`
    Items         []MenuSelectionInput `json:"items"`
}

// OrderResult is returned on successful creation.  The guest access
// token is only set for non-members.
type OrderResult struct {
    Order            model.OnlineOrder `json:"order"`
    PaymentToken     string            `json:"payment_token"`
    GuestAccessToken string            `json:"guest_access_token,omitempty"`
}

// OrderService implements the online-order aggregate flows.
type OrderService struct {
    Users       UserStore
    Menu        MenuStore
    Orders      OrderStore
    Tx          *Orchestrator
    GuestSecret string
    Publish     Publisher // optional
}

// Create validates the payload, prices the order (member discount,
// shipping), opens a pending payment transaction for the full total and
// persists the order.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (OrderResult, error) {
    if err := validateOrderInput(in); err != nil {
        return OrderResult{}, err
    }
    email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))

    // Best-effort membership lookup, as in the reservation flow.
    isMember := false
    if u, err := s.Users.GetByEmail(ctx, email); err == nil {
        isMember = u.IsMember
    }

    items, err := resolveSelections(ctx, s.Menu, in.Items)
    if err != nil {
        return OrderResult{}, err
    }
    subtotal := pricing.Subtotal(items)
    discount := pricing.Discount(isMember, subtotal)
    shipping := pricing.ShippingCost()
    total := pricing.OnlineOrderTotal(subtotal, shipping, discount)

    orderID := uuid.NewString()
    tx, err := s.Tx.Open(ctx, orderID, model.OrderTypeOnlineOrder, total, model.PurposePaid)
    if err != nil {
        return OrderResult{}, err
    }

    o := model.OnlineOrder{
        ID:            orderID,
        CustomerName:  strings.TrimSpace(in.CustomerName),
        CustomerEmail: email,
        Address:       strings.TrimSpace(in.Address),
        DeliveryAt:    in.DeliveryAt.UTC(),
        Items:         items,
        SubtotalCents: subtotal,
        ShippingCents: shipping,
        DiscountCents: discount,
        TotalCents:    total,
        TransactionID: &tx.Token,
        Status:        model.OrderPending,
    }
    if note := strings.TrimSpace(in.Note); note != "" {
        o.Note = &note
    }
    if err := s.Orders.Create(ctx, &o); err != nil {
        return OrderResult{}, wrapE(KindPersistence, "saving order failed", err)
    }

    res := OrderResult{Order: o, PaymentToken: tx.Token}
    if !isMember {
        guestTok, err := newGuestTokenFor(s.GuestSecret, email)
        if err != nil {
            return OrderResult{}, err
        }
        res.GuestAccessToken = guestTok
    }
    return res, nil
}

// Confirm reconciles settlement and flips the order to confirmed, the
// first step of its fulfillment state machine.  Re-invocation after a
// successful confirmation is a no-op success.
func (s *OrderService) Confirm(ctx context.Context, id string) (model.OnlineOrder, error) {
    o, err := s.Orders.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.OnlineOrder{}, E(KindNotFound, "order not found")
        }
        return model.OnlineOrder{}, wrapE(KindPersistence, "order lookup failed", err)
    }
    if o.Status == model.OrderConfirmed {
        return o, nil
    }
    tx, err := s.Tx.ConfirmSettlement(ctx, id)
    if err != nil {
        return model.OnlineOrder{}, err
    }
    if !o.Status.CanTransition(model.OrderConfirmed) {
        return model.OnlineOrder{}, E(KindConflict, "order is "+string(o.Status)+" and cannot be confirmed")
    }
    if err := s.Orders.UpdateStatus(ctx, id, model.OrderConfirmed, nil, nil); err != nil {
        return model.OnlineOrder{}, wrapE(KindPersistence, "updating order failed", err)
    }
    o.Status = model.OrderConfirmed
    s.publishConfirmed(ctx, o, tx)
    return o, nil
}

// Advance moves an order along its fulfillment state machine on staff
// action.  Delivery stamps the delivered timestamp; cancellation
// records the supplied reason.
func (s *OrderService) Advance(ctx context.Context, id string, next model.OrderStatus, reason string) (model.OnlineOrder, error) {
    o, err := s.Orders.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.OnlineOrder{}, E(KindNotFound, "order not found")
        }
        return model.OnlineOrder{}, wrapE(KindPersistence, "order lookup failed", err)
    }
    if !o.Status.CanTransition(next) {
        return model.OnlineOrder{}, E(KindConflict, "order cannot move from "+string(o.Status)+" to "+string(next))
    }
    var reasonPtr *string
    if reason = strings.TrimSpace(reason); reason != "" {
        reasonPtr = &reason
    }
    var deliveredAt *time.Time
    if next == model.OrderDelivered {
        now := time.Now().UTC()
        deliveredAt = &now
    }
    if err := s.Orders.UpdateStatus(ctx, id, next, reasonPtr, deliveredAt); err != nil {
        return model.OnlineOrder{}, wrapE(KindPersistence, "updating order failed", err)
    }
    o.Status = next
    o.StatusReason = reasonPtr
    o.DeliveredAt = deliveredAt
    return o, nil
}

// Get returns an order after verifying the caller's resolved email
// matches the aggregate's customer email.
func (s *OrderService) Get(ctx context.Context, id, email string) (model.OnlineOrder, error) {
    o, err := s.Orders.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.OnlineOrder{}, E(KindNotFound, "order not found")
        }
        return model.OnlineOrder{}, wrapE(KindPersistence, "order lookup failed", err)
    }
    if !strings.EqualFold(o.CustomerEmail, email) {
        return model.OnlineOrder{}, E(KindInvalidAccess, "access denied")
    }
    return o, nil
}

// ExpireStale closes pending orders whose payment window elapsed,
// confirming instead when the gateway reports a late settlement.
func (s *OrderService) ExpireStale(ctx context.Context, olderThan time.Time) (int, error) {
    stale, err := s.Orders.ListStalePending(ctx, olderThan)
    if err != nil {
        return 0, wrapE(KindPersistence, "stale order lookup failed", err)
    }
    expired := 0
    for _, o := range stale {
        if _, err := s.Confirm(ctx, o.ID); err == nil {
            continue
        } else if KindOf(err) != KindNotSettled {
            continue
        }
        if err := s.Tx.Expire(ctx, o.ID); err != nil {
            continue
        }
        reason := "payment window elapsed"
        if err := s.Orders.UpdateStatus(ctx, o.ID, model.OrderExpired, &reason, nil); err != nil {
            continue
        }
        expired++
    }
    return expired, nil
}

func (s *OrderService) publishConfirmed(ctx context.Context, o model.OnlineOrder, tx model.Transaction) {
    if s.Publish == nil {
        return
    }
    confirmedAt := time.Now().UTC()
    if tx.SettlementTime != nil {
        confirmedAt = *tx.SettlementTime
    }
    ev := queue.OrderConfirmedEvent{
        OrderID:       o.ID,
        OrderType:     model.OrderTypeOnlineOrder,
        CustomerEmail: o.CustomerEmail,
        TotalCents:    o.TotalCents,
        ChargedCents:  tx.GrossAmountCents,
        Purpose:       tx.Purpose,
        TransactionID: tx.Token,
        ConfirmedAt:   confirmedAt.Format(time.RFC3339),
    }
    if err := s.Publish(ctx, ev); err != nil {
        log.Printf("order %s: publish confirmed event failed: %v", o.ID, err)
    }
}

func validateOrderInput(in OrderInput) error {
    switch {
    case strings.TrimSpace(in.CustomerName) == "":
        return E(KindValidation, "customer_name is required")
    case strings.TrimSpace(in.CustomerEmail) == "" || !strings.Contains(in.CustomerEmail, "@"):
        return E(KindValidation, "customer_email is invalid")
    case strings.TrimSpace(in.Address) == "":
        return E(KindValidation, "address is required")
    case in.DeliveryAt.IsZero():
        return E(KindValidation, "delivery_at is required")
    case len(in.Items) == 0:
        return E(KindValidation, "items are required")
    }
    return nil
}
