package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// OrderRepo provides CRUD operations for online orders and their
// items. Item lines live in the order_items table.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts an order and its item lines in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *model.OnlineOrder) error {
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

    const q = `INSERT INTO online_orders
               (id, customer_name, customer_email, address, delivery_at, note,
                subtotal_cents, shipping_cents, discount_cents, total_cents,
                transaction_id, status, status_reason, delivered_at)
               VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    if _, err := tx.ExecContext(ctx, q,
        o.ID, o.CustomerName, o.CustomerEmail, o.Address, o.DeliveryAt, o.Note,
        o.SubtotalCents, o.ShippingCents, o.DiscountCents, o.TotalCents,
        o.TransactionID, o.Status, o.StatusReason, o.DeliveredAt,
    ); err != nil {
        return err
    }

    for _, it := range o.Items {
        const iq = `INSERT INTO order_items (order_id, menu_item_id, quantity, price_cents)
                    VALUES (?,?,?,?)`
        if _, err := tx.ExecContext(ctx, iq, o.ID, it.MenuItemID, it.Quantity, it.PriceCents); err != nil {
            return err
        }
    }

    const sel = `SELECT created_at, updated_at FROM online_orders WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
        return err
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID fetches an order with its item lines. Returns sql.ErrNoRows
// when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (model.OnlineOrder, error) {
    const q = `SELECT id, customer_name, customer_email, address, delivery_at, note,
                      subtotal_cents, shipping_cents, discount_cents, total_cents,
                      transaction_id, status, status_reason, delivered_at,
                      created_at, updated_at
               FROM online_orders WHERE id = ?`
    var o model.OnlineOrder
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &o.ID, &o.CustomerName, &o.CustomerEmail, &o.Address, &o.DeliveryAt, &o.Note,
        &o.SubtotalCents, &o.ShippingCents, &o.DiscountCents, &o.TotalCents,
        &o.TransactionID, &o.Status, &o.StatusReason, &o.DeliveredAt,
        &o.CreatedAt, &o.UpdatedAt,
    )
    if err != nil {
        return model.OnlineOrder{}, err
    }
    const iq = `SELECT menu_item_id, quantity, price_cents
                FROM order_items WHERE order_id = ? ORDER BY menu_item_id`
    rows, err := r.db.QueryContext(ctx, iq, id)
    if err != nil {
        return model.OnlineOrder{}, err
    }
    defer rows.Close()
    for rows.Next() {
        var it model.MenuSelection
        if err := rows.Scan(&it.MenuItemID, &it.Quantity, &it.PriceCents); err != nil {
            return model.OnlineOrder{}, err
        }
        o.Items = append(o.Items, it)
    }
    return o, rows.Err()
}

// UpdateStatus sets the order status, optional reason and optional
// delivered timestamp.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, reason *string, deliveredAt *time.Time) error {
    const q = `UPDATE online_orders SET status = ?, status_reason = ?, delivered_at = COALESCE(?, delivered_at) WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, status, reason, deliveredAt, id)
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

// ListStalePending returns pending orders created before the cutoff,
// for the expiry sweep. Item lines are not loaded.
func (r *OrderRepo) ListStalePending(ctx context.Context, olderThan time.Time) ([]model.OnlineOrder, error) {
    const q = `SELECT id, customer_name, customer_email, address, delivery_at, note,
                      subtotal_cents, shipping_cents, discount_cents, total_cents,
                      transaction_id, status, status_reason, delivered_at,
                      created_at, updated_at
               FROM online_orders
               WHERE status = 'pending' AND created_at < ?`
    rows, err := r.db.QueryContext(ctx, q, olderThan)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.OnlineOrder, 0)
    for rows.Next() {
        var o model.OnlineOrder
        if err := rows.Scan(
            &o.ID, &o.CustomerName, &o.CustomerEmail, &o.Address, &o.DeliveryAt, &o.Note,
            &o.SubtotalCents, &o.ShippingCents, &o.DiscountCents, &o.TotalCents,
            &o.TransactionID, &o.Status, &o.StatusReason, &o.DeliveredAt,
            &o.CreatedAt, &o.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, o)
    }
    return out, rows.Err()
}
