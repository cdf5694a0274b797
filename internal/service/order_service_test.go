package service

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
)

func newOrderRig(gw *fakeGateway) (*OrderService, *fakeOrders, *fakeTxStore) {
	users := &fakeUsers{byEmail: map[string]model.User{
		"member@example.com": {ID: 7, Email: "member@example.com", IsMember: true},
	}}
	store := newFakeOrders()
	txStore := newFakeTxStore()
	svc := &OrderService{
		Users:       users,
		Menu:        testMenu(),
		Orders:      store,
		Tx:          &Orchestrator{Transactions: txStore, Gateway: gw},
		GuestSecret: testSecret,
	}
	return svc, store, txStore
}

func orderInput(email string) OrderInput {
	return OrderInput{
		CustomerName:  "Arif",
		CustomerEmail: email,
		Address:       "Jl. Merdeka 1",
		DeliveryAt:    time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC),
		Items:         []MenuSelectionInput{{MenuItemID: 2, Quantity: 1}},
	}
}

func TestOrderCreateMemberDiscount(t *testing.T) {
	svc, _, txStore := newOrderRig(&fakeGateway{})

	res, err := svc.Create(context.Background(), orderInput("member@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := res.Order
	if o.SubtotalCents != 100 || o.DiscountCents != 10 || o.TotalCents != 90 {
		t.Errorf("expected subtotal=100 discount=10 total=90, got %d/%d/%d",
			o.SubtotalCents, o.DiscountCents, o.TotalCents)
	}
	if res.GuestAccessToken != "" {
		t.Error("members should not receive a guest access token")
	}
	tx, err := txStore.GetByOrderID(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("expected a pending transaction: %v", err)
	}
	// Online orders are always charged in full.
	if tx.GrossAmountCents != 90 || tx.Purpose != model.PurposePaid {
		t.Errorf("expected full charge of 90 as %q, got %d as %q",
			model.PurposePaid, tx.GrossAmountCents, tx.Purpose)
	}
}

func TestOrderCreateGuestToken(t *testing.T) {
	svc, _, _ := newOrderRig(&fakeGateway{})

	res, err := svc.Create(context.Background(), orderInput("guest@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.DiscountCents != 0 {
		t.Errorf("expected no discount for a guest, got %d", res.Order.DiscountCents)
	}
	if res.GuestAccessToken == "" {
		t.Error("expected a guest access token for a non-member")
	}
}

func TestOrderConfirmAndFulfil(t *testing.T) {
	gw := &fakeGateway{status: "settlement", settledAt: "2026-09-12 11:30:00"}
	svc, store, _ := newOrderRig(gw)
	var published []queue.OrderConfirmedEvent
	svc.Publish = func(_ context.Context, ev queue.OrderConfirmedEvent) error {
		published = append(published, ev)
		return nil
	}

	res, err := svc.Create(context.Background(), orderInput("guest@example.com"))
	if err != nil {
		t.Fatalf("creating order: %v", err)
	}
	id := res.Order.ID

	if _, err := svc.Confirm(context.Background(), id); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}

	for _, next := range []model.OrderStatus{model.OrderProcessing, model.OrderShipping, model.OrderDelivered} {
		if _, err := svc.Advance(context.Background(), id, next, ""); err != nil {
			t.Fatalf("advancing to %q: %v", next, err)
		}
	}
	got, _ := store.GetByID(context.Background(), id)
	if got.Status != model.OrderDelivered {
		t.Errorf("expected status %q, got %q", model.OrderDelivered, got.Status)
	}
	if got.DeliveredAt == nil {
		t.Error("expected a delivered timestamp")
	}
}

func TestOrderAdvanceRejectsSkips(t *testing.T) {
	gw := &fakeGateway{status: "settlement", settledAt: "2026-09-12 11:30:00"}
	svc, _, _ := newOrderRig(gw)

	res, err := svc.Create(context.Background(), orderInput("guest@example.com"))
	if err != nil {
		t.Fatalf("creating order: %v", err)
	}
	// Still pending: delivery is several steps away.
	_, err = svc.Advance(context.Background(), res.Order.ID, model.OrderDelivered, "")
	if KindOf(err) != KindConflict {
		t.Fatalf("expected kind %q, got %q (%v)", KindConflict, KindOf(err), err)
	}
}

func TestOrderExpireStale(t *testing.T) {
	gw := &fakeGateway{status: "expire"}
	svc, store, txStore := newOrderRig(gw)

	res, err := svc.Create(context.Background(), orderInput("guest@example.com"))
	if err != nil {
		t.Fatalf("creating order: %v", err)
	}

	n, err := svc.ExpireStale(context.Background(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired order, got %d", n)
	}
	got, _ := store.GetByID(context.Background(), res.Order.ID)
	if got.Status != model.OrderExpired {
		t.Errorf("expected status %q, got %q", model.OrderExpired, got.Status)
	}
	tx, _ := txStore.GetByOrderID(context.Background(), res.Order.ID)
	if tx.Status != model.TxExpire {
		t.Errorf("expected transaction status %q, got %q", model.TxExpire, tx.Status)
	}
}
