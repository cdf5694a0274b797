package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// menu selections. Menu lines live in the reservation_menus table. All
// timestamp fields are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a reservation and its menu lines in one transaction.
// Before inserting it re-checks the exact slot (same seating, same
// instant) with a locking read, so two concurrent bookings for the same
// slot cannot both pass the service-level conflict check and both
// insert; the loser gets ErrConflict.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Locking re-check of the exact slot inside the transaction.
    const checkQ = `SELECT COUNT(*) FROM reservations
                    WHERE seating = ? AND reservation_at = ?
                    FOR UPDATE`
    var taken int
    if err := tx.QueryRowContext(ctx, checkQ, res.Seating, res.ReservationAt).Scan(&taken); err != nil {
        return err
    }
    if taken > 0 {
        return ErrConflict
    }

    const q = `INSERT INTO reservations
               (id, customer_name, customer_email, reservation_at, party_size, seating,
                special_request, reservation_type, subtotal_cents, discount_cents,
                total_cents, down_payment_cents, payment_purpose, transaction_id,
                status, status_reason)
               VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    if _, err := tx.ExecContext(ctx, q,
        res.ID, res.CustomerName, res.CustomerEmail, res.ReservationAt, res.PartySize, res.Seating,
        res.SpecialRequest, res.Type, res.SubtotalCents, res.DiscountCents,
        res.TotalCents, res.DownPaymentCents, res.PaymentPurpose, res.TransactionID,
        res.Status, res.StatusReason,
    ); err != nil {
        return err
    }

    for _, m := range res.Menus {
        const mq = `INSERT INTO reservation_menus (reservation_id, menu_item_id, quantity, price_cents)
                    VALUES (?,?,?,?)`
        if _, err := tx.ExecContext(ctx, mq, res.ID, m.MenuItemID, m.Quantity, m.PriceCents); err != nil {
            return err
        }
    }

    // Query back timestamps populated by column defaults.
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
        return err
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID fetches a reservation with its menu selections. Returns
// sql.ErrNoRows when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
    const q = `SELECT id, customer_name, customer_email, reservation_at, party_size, seating,
                      special_request, reservation_type, subtotal_cents, discount_cents,
                      total_cents, down_payment_cents, payment_purpose, transaction_id,
                      status, status_reason, created_at, updated_at
               FROM reservations WHERE id = ?`
    var res model.Reservation
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &res.ID, &res.CustomerName, &res.CustomerEmail, &res.ReservationAt, &res.PartySize, &res.Seating,
        &res.SpecialRequest, &res.Type, &res.SubtotalCents, &res.DiscountCents,
        &res.TotalCents, &res.DownPaymentCents, &res.PaymentPurpose, &res.TransactionID,
        &res.Status, &res.StatusReason, &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        return model.Reservation{}, err
    }
    menus, err := r.menusFor(ctx, id)
    if err != nil {
        return model.Reservation{}, err
    }
    res.Menus = menus
    return res, nil
}

// ListBySeatingWindow returns every reservation with the given seating
// preference whose time falls inside [from, to], regardless of status.
// The conflict check scans all of them.
func (r *ReservationRepo) ListBySeatingWindow(ctx context.Context, seating string, from, to time.Time) ([]model.Reservation, error) {
    const q = `SELECT id, customer_name, customer_email, reservation_at, party_size, seating,
                      special_request, reservation_type, subtotal_cents, discount_cents,
                      total_cents, down_payment_cents, payment_purpose, transaction_id,
                      status, status_reason, created_at, updated_at
               FROM reservations
               WHERE seating = ? AND reservation_at BETWEEN ? AND ?`
    rows, err := r.db.QueryContext(ctx, q, seating, from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        var res model.Reservation
        if err := rows.Scan(
            &res.ID, &res.CustomerName, &res.CustomerEmail, &res.ReservationAt, &res.PartySize, &res.Seating,
            &res.SpecialRequest, &res.Type, &res.SubtotalCents, &res.DiscountCents,
            &res.TotalCents, &res.DownPaymentCents, &res.PaymentPurpose, &res.TransactionID,
            &res.Status, &res.StatusReason, &res.CreatedAt, &res.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    return out, rows.Err()
}

// UpdateStatus sets the reservation status and optional reason.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, reason *string) error {
    const q = `UPDATE reservations SET status = ?, status_reason = ? WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, status, reason, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// UpdateSchedule moves a reservation to a new time slot.
func (r *ReservationRepo) UpdateSchedule(ctx context.Context, id string, at time.Time) error {
    const q = `UPDATE reservations SET reservation_at = ? WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, at, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// ListStalePending returns pending reservations created before the
// cutoff, for the expiry sweep. Menu lines are not loaded; the sweep
// only needs ids and statuses.
func (r *ReservationRepo) ListStalePending(ctx context.Context, olderThan time.Time) ([]model.Reservation, error) {
    const q = `SELECT id, customer_name, customer_email, reservation_at, party_size, seating,
                      special_request, reservation_type, subtotal_cents, discount_cents,
                      total_cents, down_payment_cents, payment_purpose, transaction_id,
                      status, status_reason, created_at, updated_at
               FROM reservations
               WHERE status = 'pending' AND created_at < ?`
    rows, err := r.db.QueryContext(ctx, q, olderThan)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        var res model.Reservation
        if err := rows.Scan(
            &res.ID, &res.CustomerName, &res.CustomerEmail, &res.ReservationAt, &res.PartySize, &res.Seating,
            &res.SpecialRequest, &res.Type, &res.SubtotalCents, &res.DiscountCents,
            &res.TotalCents, &res.DownPaymentCents, &res.PaymentPurpose, &res.TransactionID,
            &res.Status, &res.StatusReason, &res.CreatedAt, &res.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    return out, rows.Err()
}

// menusFor loads the menu lines of one reservation.
func (r *ReservationRepo) menusFor(ctx context.Context, reservationID string) ([]model.MenuSelection, error) {
    const q = `SELECT menu_item_id, quantity, price_cents
               FROM reservation_menus WHERE reservation_id = ? ORDER BY menu_item_id`
    rows, err := r.db.QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var menus []model.MenuSelection
    for rows.Next() {
        var m model.MenuSelection
        if err := rows.Scan(&m.MenuItemID, &m.Quantity, &m.PriceCents); err != nil {
            return nil, err
        }
        menus = append(menus, m)
    }
    return menus, rows.Err()
}
