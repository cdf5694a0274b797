package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// MenuRepo provides read access to the menu_items catalog. Prices for
// bookings and orders are always resolved through this repository so
// client payloads can never set their own prices.
type MenuRepo struct{ DB *sql.DB }

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{DB: db} }

// GetByIDs returns the catalog rows for the given ids keyed by id.
// Missing ids are simply absent from the map; callers decide whether
// that is an error. Passing no ids returns an empty map.
func (r *MenuRepo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MenuItem, error) {
    out := make(map[uint64]model.MenuItem, len(ids))
    if len(ids) == 0 {
        return out, nil
    }
    placeholders := make([]string, 0, len(ids))
    args := make([]interface{}, 0, len(ids))
    for _, id := range ids {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    q := `SELECT id, name, price_cents, category, is_available, created_at, updated_at
          FROM menu_items WHERE id IN (` + strings.Join(placeholders, ",") + `)`
    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var m model.MenuItem
        if err := rows.Scan(&m.ID, &m.Name, &m.PriceCents, &m.Category, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        out[m.ID] = m
    }
    return out, rows.Err()
}

// ListAvailable returns every orderable item, ordered by category then
// name for stable menu rendering.
func (r *MenuRepo) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
    const q = `SELECT id, name, price_cents, category, is_available, created_at, updated_at
               FROM menu_items WHERE is_available = 1 ORDER BY category, name`
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]model.MenuItem, 0)
    for rows.Next() {
        var m model.MenuItem
        if err := rows.Scan(&m.ID, &m.Name, &m.PriceCents, &m.Category, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        items = append(items, m)
    }
    return items, rows.Err()
}
