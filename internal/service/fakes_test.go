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

type fakeUsers struct {
	byEmail map[string]model.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

type fakeMenu struct {
	items map[uint64]model.MenuItem
}

func (f *fakeMenu) GetByIDs(_ context.Context, ids []uint64) (map[uint64]model.MenuItem, error) {
	out := make(map[uint64]model.MenuItem)
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (f *fakeMenu) ListAvailable(_ context.Context) ([]model.MenuItem, error) {
	var out []model.MenuItem
	for _, item := range f.items {
		if item.IsAvailable {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeReservations struct {
	rows map[string]*model.Reservation
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{rows: make(map[string]*model.Reservation)}
}

func (f *fakeReservations) Create(_ context.Context, r *model.Reservation) error {
	for _, ex := range f.rows {
		if ex.Seating == r.Seating && ex.ReservationAt.Equal(r.ReservationAt) {
			return repository.ErrConflict
		}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

func (f *fakeReservations) GetByID(_ context.Context, id string) (model.Reservation, error) {
	r, ok := f.rows[id]
	if !ok {
		return model.Reservation{}, sql.ErrNoRows
	}
	return *r, nil
}

func (f *fakeReservations) ListBySeatingWindow(_ context.Context, seating string, from, to time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range f.rows {
		if r.Seating == seating && !r.ReservationAt.Before(from) && !r.ReservationAt.After(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReservations) UpdateStatus(_ context.Context, id string, status model.ReservationStatus, reason *string) error {
	r, ok := f.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	r.StatusReason = reason
	return nil
}

func (f *fakeReservations) UpdateSchedule(_ context.Context, id string, at time.Time) error {
	r, ok := f.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.ReservationAt = at
	return nil
}

func (f *fakeReservations) ListStalePending(_ context.Context, olderThan time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range f.rows {
		if r.Status == model.ReservationPending && r.CreatedAt.Before(olderThan) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeOrders struct {
	rows map[string]*model.OnlineOrder
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{rows: make(map[string]*model.OnlineOrder)}
}

func (f *fakeOrders) Create(_ context.Context, o *model.OnlineOrder) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	cp := *o
	f.rows[o.ID] = &cp
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (model.OnlineOrder, error) {
	o, ok := f.rows[id]
	if !ok {
		return model.OnlineOrder{}, sql.ErrNoRows
	}
	return *o, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, status model.OrderStatus, reason *string, deliveredAt *time.Time) error {
	o, ok := f.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	o.StatusReason = reason
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}
	return nil
}

func (f *fakeOrders) ListStalePending(_ context.Context, olderThan time.Time) ([]model.OnlineOrder, error) {
	var out []model.OnlineOrder
	for _, o := range f.rows {
		if o.Status == model.OrderPending && o.CreatedAt.Before(olderThan) {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeTxStore struct {
	rows map[string]*model.Transaction
}

func newFakeTxStore() *fakeTxStore {
	return &fakeTxStore{rows: make(map[string]*model.Transaction)}
}

func (f *fakeTxStore) GetByOrderID(_ context.Context, orderID string) (model.Transaction, error) {
	t, ok := f.rows[orderID]
	if !ok {
		return model.Transaction{}, sql.ErrNoRows
	}
	return *t, nil
}

func (f *fakeTxStore) CreatePending(_ context.Context, t *model.Transaction) error {
	if ex, ok := f.rows[t.OrderID]; ok && ex.Status == model.TxPending {
		return repository.ErrPendingExists
	}
	cp := *t
	f.rows[t.OrderID] = &cp
	return nil
}

func (f *fakeTxStore) MarkSettlement(_ context.Context, orderID string, settledAt time.Time, currency, paymentType *string, va []model.VANumber) error {
	t, ok := f.rows[orderID]
	if !ok || t.Status != model.TxPending {
		return sql.ErrNoRows
	}
	t.Status = model.TxSettlement
	t.SettlementTime = &settledAt
	t.Currency = currency
	t.PaymentType = paymentType
	t.VANumbers = va
	return nil
}

func (f *fakeTxStore) MarkTerminal(_ context.Context, orderID string, status model.TransactionStatus) error {
	t, ok := f.rows[orderID]
	if !ok || t.Status != model.TxPending {
		return sql.ErrNoRows
	}
	t.Status = status
	return nil
}

// fakeGateway answers every order with the configured status.  Call
// counters let tests assert which paths touched the provider.
type fakeGateway struct {
	createErr   error
	statusErr   error
	status      string
	settledAt   string
	createCalls int
	statusCalls int
}

func (f *fakeGateway) CreateTransaction(_ context.Context, orderID string, _ int64) (payment.SnapToken, error) {
	f.createCalls++
	if f.createErr != nil {
		return payment.SnapToken{}, f.createErr
	}
	return payment.SnapToken{Token: "tok-" + orderID, RedirectURL: "https://pay.example/" + orderID}, nil
}

func (f *fakeGateway) GetStatus(_ context.Context, orderID string) (payment.Status, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return payment.Status{}, f.statusErr
	}
	return payment.Status{
		OrderID:           orderID,
		TransactionStatus: f.status,
		PaymentType:       "bank_transfer",
		Currency:          "IDR",
		SettlementTime:    f.settledAt,
	}, nil
}

var errGatewayDown = errors.New("connection refused")
