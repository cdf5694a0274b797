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
    "github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ReservationStore is the reservation repository surface used by the
// service.  Create must re-check the slot inside its own transaction
// and return repository.ErrConflict on a same-slot collision, which
// closes the race between concurrent bookings.
type ReservationStore interface {
    Create(ctx context.Context, r *model.Reservation) error
    GetByID(ctx context.Context, id string) (model.Reservation, error)
    ListBySeatingWindow(ctx context.Context, seating string, from, to time.Time) ([]model.Reservation, error)
    UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, reason *string) error
    UpdateSchedule(ctx context.Context, id string, at time.Time) error
    ListStalePending(ctx context.Context, olderThan time.Time) ([]model.Reservation, error)
}

// MenuStore resolves menu item ids to catalog rows so prices are always
// taken server-side, never from the client payload.
type MenuStore interface {
    GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MenuItem, error)
    ListAvailable(ctx context.Context) ([]model.MenuItem, error)
}

// Publisher delivers a confirmed-order event to the message broker.
// Publication is best-effort: failures are logged, never surfaced.
type Publisher func(ctx context.Context, ev queue.OrderConfirmedEvent) error

// MenuSelectionInput is a client-submitted line: item and quantity only.
type MenuSelectionInput struct {
    MenuItemID uint64 `json:"menu_item_id"`
    Quantity   int    `json:"quantity"`
}

// ReservationInput is the payload for creating a table reservation.
type ReservationInput struct {
    CustomerName   string               `json:"customer_name"`
    CustomerEmail  string               `json:"customer_email"`
    ReservationAt  time.Time            `json:"reservation_at"`
    PartySize      int                  `json:"party_size"`
    Seating        string               `json:"seating"`
    SpecialRequest string               `json:"special_request"`
    Type           string               `json:"type"`
    PaymentPurpose string               `json:"payment_purpose"`
    Menus          []MenuSelectionInput `json:"menus"`
}

// ReservationResult is returned on successful creation.  The guest
// access token is only set for non-members.
type ReservationResult struct {
    Reservation      model.Reservation `json:"reservation"`
    PaymentToken     string            `json:"payment_token"`
    GuestAccessToken string            `json:"guest_access_token,omitempty"`
}

// ReservationService implements the reservation aggregate flows.
type ReservationService struct {
    Users        UserStore
    Menu         MenuStore
    Reservations ReservationStore
    Tx           *Orchestrator
    GuestSecret  string
    Publish      Publisher // optional
}

// Create validates the payload, checks the slot for conflicts, prices
// the booking, opens a pending payment transaction and persists the
// reservation.  Non-members additionally receive a guest access token
// bound to their email.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (ReservationResult, error) {
    if err := validateReservationInput(in); err != nil {
        return ReservationResult{}, err
    }
    email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))

    // Conflict check ahead of any side effect. The store re-checks the
    // exact slot inside the insert transaction.
    from := in.ReservationAt.Add(-ConflictWindow)
    to := in.ReservationAt.Add(ConflictWindow)
    existing, err := s.Reservations.ListBySeatingWindow(ctx, in.Seating, from, to)
    if err != nil {
        return ReservationResult{}, wrapE(KindPersistence, "reservation lookup failed", err)
    }
    if HasConflict(in.ReservationAt, in.Seating, existing) {
        return ReservationResult{}, E(KindConflict, "the requested slot is already booked")
    }

    // Membership is resolved best-effort: no member record (or a failed
    // lookup) simply means guest pricing.
    isMember := false
    if u, err := s.Users.GetByEmail(ctx, email); err == nil {
        isMember = u.IsMember
    }

    var menus []model.MenuSelection
    var subtotal, discount, total int64
    if in.Type == model.ReservationIncludeFood {
        menus, err = s.resolveSelections(ctx, in.Menus)
        if err != nil {
            return ReservationResult{}, err
        }
        subtotal = pricing.Subtotal(menus)
        discount = pricing.ReservationDiscount(isMember, in.Type, subtotal)
        total = subtotal - discount
    } else {
        // Table-only: the flat deposit is the whole charge.
        total = pricing.TableOnlyDepositCents
    }
    downPayment := pricing.ReservationDownPayment(in.Type, in.PaymentPurpose, total)

    orderID := uuid.NewString()
    tx, err := s.Tx.Open(ctx, orderID, model.OrderTypeReservation, downPayment, in.PaymentPurpose)
    if err != nil {
        return ReservationResult{}, err
    }

    r := model.Reservation{
        ID:               orderID,
        CustomerName:     strings.TrimSpace(in.CustomerName),
        CustomerEmail:    email,
        ReservationAt:    in.ReservationAt.UTC(),
        PartySize:        in.PartySize,
        Seating:          in.Seating,
        Type:             in.Type,
        Menus:            menus,
        SubtotalCents:    subtotal,
        DiscountCents:    discount,
        TotalCents:       total,
        DownPaymentCents: downPayment,
        PaymentPurpose:   in.PaymentPurpose,
        TransactionID:    &tx.Token,
        Status:           model.ReservationPending,
    }
    if sr := strings.TrimSpace(in.SpecialRequest); sr != "" {
        r.SpecialRequest = &sr
    }
    if err := s.Reservations.Create(ctx, &r); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return ReservationResult{}, E(KindConflict, "the requested slot is already booked")
        }
        return ReservationResult{}, wrapE(KindPersistence, "saving reservation failed", err)
    }

    res := ReservationResult{Reservation: r, PaymentToken: tx.Token}
    if !isMember {
        guestTok, err := newGuestTokenFor(s.GuestSecret, email)
        if err != nil {
            return ReservationResult{}, err
        }
        res.GuestAccessToken = guestTok
    }
    return res, nil
}

// Confirm reconciles settlement for a reservation and flips it to
// confirmed.  Re-invocation after a successful confirmation is a no-op
// success.
func (s *ReservationService) Confirm(ctx context.Context, id string) (model.Reservation, error) {
    r, err := s.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Reservation{}, E(KindNotFound, "reservation not found")
        }
        return model.Reservation{}, wrapE(KindPersistence, "reservation lookup failed", err)
    }
    if r.Status == model.ReservationConfirmed {
        return r, nil
    }
    tx, err := s.Tx.ConfirmSettlement(ctx, id)
    if err != nil {
        return model.Reservation{}, err
    }
    if !r.Status.CanTransition(model.ReservationConfirmed) {
        return model.Reservation{}, E(KindConflict, "reservation is "+string(r.Status)+" and cannot be confirmed")
    }
    if err := s.Reservations.UpdateStatus(ctx, id, model.ReservationConfirmed, nil); err != nil {
        return model.Reservation{}, wrapE(KindPersistence, "updating reservation failed", err)
    }
    r.Status = model.ReservationConfirmed
    s.publishConfirmed(ctx, r, tx)
    return r, nil
}

// Cancel moves a reservation to cancelled with a reason, if the state
// machine allows it.
func (s *ReservationService) Cancel(ctx context.Context, id, reason string) error {
    r, err := s.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return E(KindNotFound, "reservation not found")
        }
        return wrapE(KindPersistence, "reservation lookup failed", err)
    }
    if !r.Status.CanTransition(model.ReservationCancelled) {
        return E(KindConflict, "reservation is "+string(r.Status)+" and cannot be cancelled")
    }
    var reasonPtr *string
    if reason = strings.TrimSpace(reason); reason != "" {
        reasonPtr = &reason
    }
    if err := s.Reservations.UpdateStatus(ctx, id, model.ReservationCancelled, reasonPtr); err != nil {
        return wrapE(KindPersistence, "updating reservation failed", err)
    }
    return nil
}

// Reschedule moves a confirmed reservation to a new slot, re-running
// the conflict check against the new time.
func (s *ReservationService) Reschedule(ctx context.Context, id string, at time.Time) error {
    r, err := s.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return E(KindNotFound, "reservation not found")
        }
        return wrapE(KindPersistence, "reservation lookup failed", err)
    }
    if !r.Status.CanTransition(model.ReservationRescheduled) {
        return E(KindConflict, "reservation is "+string(r.Status)+" and cannot be rescheduled")
    }
    existing, err := s.Reservations.ListBySeatingWindow(ctx, r.Seating, at.Add(-ConflictWindow), at.Add(ConflictWindow))
    if err != nil {
        return wrapE(KindPersistence, "reservation lookup failed", err)
    }
    if HasConflict(at, r.Seating, existing) {
        return E(KindConflict, "the requested slot is already booked")
    }
    if err := s.Reservations.UpdateSchedule(ctx, id, at.UTC()); err != nil {
        return wrapE(KindPersistence, "updating reservation failed", err)
    }
    if err := s.Reservations.UpdateStatus(ctx, id, model.ReservationRescheduled, nil); err != nil {
        return wrapE(KindPersistence, "updating reservation failed", err)
    }
    return nil
}

// Get returns a reservation after verifying the caller's resolved email
// matches the aggregate's customer email.
func (s *ReservationService) Get(ctx context.Context, id, email string) (model.Reservation, error) {
    r, err := s.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Reservation{}, E(KindNotFound, "reservation not found")
        }
        return model.Reservation{}, wrapE(KindPersistence, "reservation lookup failed", err)
    }
    if !strings.EqualFold(r.CustomerEmail, email) {
        return model.Reservation{}, E(KindInvalidAccess, "access denied")
    }
    return r, nil
}

// ExpireStale closes pending reservations whose payment window elapsed.
// The gateway is consulted first so a settlement that arrived after the
// window still confirms instead of expiring.  Returns how many
// reservations were expired.
func (s *ReservationService) ExpireStale(ctx context.Context, olderThan time.Time) (int, error) {
    stale, err := s.Reservations.ListStalePending(ctx, olderThan)
    if err != nil {
        return 0, wrapE(KindPersistence, "stale reservation lookup failed", err)
    }
    expired := 0
    for _, r := range stale {
        if _, err := s.Confirm(ctx, r.ID); err == nil {
            continue // late settlement: confirmed instead of expired
        } else if KindOf(err) != KindNotSettled {
            continue // gateway hiccup or similar; retry next sweep
        }
        if err := s.Tx.Expire(ctx, r.ID); err != nil {
            continue
        }
        reason := "payment window elapsed"
        if err := s.Reservations.UpdateStatus(ctx, r.ID, model.ReservationExpired, &reason); err != nil {
            continue
        }
        expired++
    }
    return expired, nil
}

// resolveSelections validates client line items against the catalog and
// attaches server-side prices.
func (s *ReservationService) resolveSelections(ctx context.Context, in []MenuSelectionInput) ([]model.MenuSelection, error) {
    return resolveSelections(ctx, s.Menu, in)
}

func (s *ReservationService) publishConfirmed(ctx context.Context, r model.Reservation, tx model.Transaction) {
    if s.Publish == nil {
        return
    }
    confirmedAt := time.Now().UTC()
    if tx.SettlementTime != nil {
        confirmedAt = *tx.SettlementTime
    }
    ev := queue.OrderConfirmedEvent{
        OrderID:       r.ID,
        OrderType:     model.OrderTypeReservation,
        CustomerEmail: r.CustomerEmail,
        TotalCents:    r.TotalCents,
        ChargedCents:  tx.GrossAmountCents,
        Purpose:       tx.Purpose,
        TransactionID: tx.Token,
        ConfirmedAt:   confirmedAt.Format(time.RFC3339),
    }
    if err := s.Publish(ctx, ev); err != nil {
        log.Printf("reservation %s: publish confirmed event failed: %v", r.ID, err)
    }
}

func validateReservationInput(in ReservationInput) error {
    switch {
    case strings.TrimSpace(in.CustomerName) == "":
        return E(KindValidation, "customer_name is required")
    case strings.TrimSpace(in.CustomerEmail) == "" || !strings.Contains(in.CustomerEmail, "@"):
        return E(KindValidation, "customer_email is invalid")
    case in.ReservationAt.IsZero():
        return E(KindValidation, "reservation_at is required")
    case in.PartySize <= 0:
        return E(KindValidation, "party_size must be positive")
    case in.Seating != model.SeatingIndoor && in.Seating != model.SeatingOutdoor:
        return E(KindValidation, "seating must be indoor or outdoor")
    case in.Type != model.ReservationTableOnly && in.Type != model.ReservationIncludeFood:
        return E(KindValidation, "type must be table-only or include-food")
    case in.PaymentPurpose != model.PurposeDownPayment && in.PaymentPurpose != model.PurposePaid:
        return E(KindValidation, "payment_purpose must be downPayment or paid")
    case in.Type == model.ReservationIncludeFood && len(in.Menus) == 0:
        return E(KindValidation, "menus are required for include-food reservations")
    case in.Type == model.ReservationTableOnly && len(in.Menus) > 0:
        return E(KindValidation, "menus are not allowed for table-only reservations")
    }
    return nil
}

// resolveSelections is shared by the reservation and online-order flows.
func resolveSelections(ctx context.Context, menu MenuStore, in []MenuSelectionInput) ([]model.MenuSelection, error) {
    ids := make([]uint64, 0, len(in))
    for _, sel := range in {
        if sel.Quantity <= 0 {
            return nil, E(KindValidation, "quantity must be positive")
        }
        ids = append(ids, sel.MenuItemID)
    }
    items, err := menu.GetByIDs(ctx, ids)
    if err != nil {
        return nil, wrapE(KindPersistence, "menu lookup failed", err)
    }
    out := make([]model.MenuSelection, 0, len(in))
    for _, sel := range in {
        item, ok := items[sel.MenuItemID]
        if !ok {
            return nil, E(KindValidation, "unknown menu item")
        }
        if !item.IsAvailable {
            return nil, E(KindValidation, item.Name+" is currently unavailable")
        }
        out = append(out, model.MenuSelection{
            MenuItemID: item.ID,
            Quantity:   sel.Quantity,
            PriceCents: item.PriceCents,
        })
    }
    return out, nil
}
