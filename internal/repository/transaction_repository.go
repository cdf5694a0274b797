package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// TransactionRepo provides access to the transactions table. A unique
// index on transactions(order_id) guarantees at most one row — and
// therefore at most one pending transaction — per order id. Terminal
// rows are immutable: every mutating statement carries a
// status = 'pending' guard.
type TransactionRepo struct {
    db *sql.DB
}

// NewTransactionRepo returns a new TransactionRepo bound to the given database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// GetByOrderID fetches the transaction for an order id. Returns
// sql.ErrNoRows when absent.
func (r *TransactionRepo) GetByOrderID(ctx context.Context, orderID string) (model.Transaction, error) {
    const q = `SELECT token, order_id, order_type, gross_amount_cents, purpose, status,
                      transaction_time, settlement_time, currency, payment_type, va_numbers
               FROM transactions WHERE order_id = ?`
    var t model.Transaction
    var vaRaw sql.NullString
    err := r.db.QueryRowContext(ctx, q, orderID).Scan(
        &t.Token, &t.OrderID, &t.OrderType, &t.GrossAmountCents, &t.Purpose, &t.Status,
        &t.TransactionTime, &t.SettlementTime, &t.Currency, &t.PaymentType, &vaRaw,
    )
    if err != nil {
        return model.Transaction{}, err
    }
    if vaRaw.Valid && vaRaw.String != "" {
        // Gateway metadata is stored as a JSON column; a decode failure
        // only drops the metadata, never the row.
        _ = json.Unmarshal([]byte(vaRaw.String), &t.VANumbers)
    }
    return t, nil
}

// CreatePending inserts a new pending transaction row. A duplicate
// order id surfaces as ErrPendingExists via the unique index.
func (r *TransactionRepo) CreatePending(ctx context.Context, t *model.Transaction) error {
    const q = `INSERT INTO transactions
               (token, order_id, order_type, gross_amount_cents, purpose, status, transaction_time)
               VALUES (?,?,?,?,?,?,?)`
    _, err := r.db.ExecContext(ctx, q,
        t.Token, t.OrderID, t.OrderType, t.GrossAmountCents, t.Purpose, t.Status, t.TransactionTime)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrPendingExists
        }
        return err
    }
    return nil
}

// MarkSettlement moves a pending transaction to settlement and merges
// the gateway-reported metadata. A row already terminal is left
// untouched; that case is reported as sql.ErrNoRows so the caller can
// tell nothing changed.
func (r *TransactionRepo) MarkSettlement(ctx context.Context, orderID string, settledAt time.Time, currency, paymentType *string, va []model.VANumber) error {
    var vaJSON *string
    if len(va) > 0 {
        b, err := json.Marshal(va)
        if err != nil {
            return err
        }
        s := string(b)
        vaJSON = &s
    }
    const q = `UPDATE transactions
               SET status = 'settlement', settlement_time = ?, currency = ?, payment_type = ?, va_numbers = ?
               WHERE order_id = ? AND status = 'pending'`
    result, err := r.db.ExecContext(ctx, q, settledAt, currency, paymentType, vaJSON, orderID)
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

// MarkTerminal moves a pending transaction to the given terminal
// status without settlement metadata (expire, deny, cancel, refund).
func (r *TransactionRepo) MarkTerminal(ctx context.Context, orderID string, status model.TransactionStatus) error {
    const q = `UPDATE transactions SET status = ? WHERE order_id = ? AND status = 'pending'`
    result, err := r.db.ExecContext(ctx, q, status, orderID)
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
