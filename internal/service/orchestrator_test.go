package service

import (
	"context"
	"testing"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

func TestOrchestratorOpenCreatesPending(t *testing.T) {
	store := newFakeTxStore()
	gw := &fakeGateway{}
	o := &Orchestrator{Transactions: store, Gateway: gw}

	tx, err := o.Open(context.Background(), "ord-1", model.OrderTypeReservation, 12, model.PurposeDownPayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Token != "tok-ord-1" {
		t.Errorf("expected token %q, got %q", "tok-ord-1", tx.Token)
	}
	if tx.Status != model.TxPending {
		t.Errorf("expected status %q, got %q", model.TxPending, tx.Status)
	}
	if tx.GrossAmountCents != 12 {
		t.Errorf("expected gross amount 12, got %d", tx.GrossAmountCents)
	}
	if _, err := store.GetByOrderID(context.Background(), "ord-1"); err != nil {
		t.Errorf("expected a stored pending row: %v", err)
	}
}

func TestOrchestratorOpenRefusesSecondPending(t *testing.T) {
	store := newFakeTxStore()
	gw := &fakeGateway{}
	o := &Orchestrator{Transactions: store, Gateway: gw}

	if _, err := o.Open(context.Background(), "ord-1", model.OrderTypeReservation, 100, model.PurposePaid); err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	_, err := o.Open(context.Background(), "ord-1", model.OrderTypeReservation, 100, model.PurposePaid)
	if KindOf(err) != KindConflict {
		t.Fatalf("expected kind %q, got %q (%v)", KindConflict, KindOf(err), err)
	}
	if gw.createCalls != 1 {
		t.Errorf("expected 1 gateway call, got %d", gw.createCalls)
	}
}

func TestOrchestratorOpenGatewayDownLeavesNoRow(t *testing.T) {
	store := newFakeTxStore()
	gw := &fakeGateway{createErr: errGatewayDown}
	o := &Orchestrator{Transactions: store, Gateway: gw}

	_, err := o.Open(context.Background(), "ord-1", model.OrderTypeOnlineOrder, 100, model.PurposePaid)
	if KindOf(err) != KindGatewayUnavailable {
		t.Fatalf("expected kind %q, got %q (%v)", KindGatewayUnavailable, KindOf(err), err)
	}
	if len(store.rows) != 0 {
		t.Errorf("expected no local row after gateway failure, found %d", len(store.rows))
	}
}

func TestOrchestratorConfirmSettlement(t *testing.T) {
	store := newFakeTxStore()
	gw := &fakeGateway{status: "settlement", settledAt: "2026-03-14 19:30:00"}
	o := &Orchestrator{Transactions: store, Gateway: gw}

	if _, err := o.Open(context.Background(), "ord-1", model.OrderTypeReservation, 12, model.PurposeDownPayment); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	tx, err := o.ConfirmSettlement(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status != model.TxSettlement {
		t.Errorf("expected status %q, got %q", model.TxSettlement, tx.Status)
	}
	if tx.SettlementTime == nil {
		t.Fatal("expected a settlement time")
	}
}

func TestOrchestratorConfirmTwiceIsNoOp(t *testing.T) {
	store := newFakeTxStore()
	gw := &fakeGateway{status: "settlement", settledAt: "2026-03-14 19:30:00"}
	o := &Orchestrator{Transactions: store, Gateway: gw}

	if _, err := o.Open(context.Background(), "ord-1", model.OrderTypeReservation, 12, model.PurposeDownPayment); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := o.ConfirmSettlement(context.Background(), "ord-1"); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	statusCalls := gw.statusCalls

	tx, err := o.ConfirmSettlement(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("second confirm should succeed: %v", err)
	}
	if tx.Status != model.TxSettlement {
		t.Errorf("expected status %q, got %q", model.TxSettlement, tx.Status)
	}
	// The terminal row answers without consulting the gateway again.
	if gw.statusCalls != statusCalls {
		t.Errorf("expected no extra gateway call, got %d", gw.statusCalls-statusCalls)
	}
}

func TestOrchestratorConfirmUnsettledFails(t *testing.T) {
	store := newFakeTxStore()
	gw := &fakeGateway{status: "pending"}
	o := &Orchestrator{Transactions: store, Gateway: gw}

	if _, err := o.Open(context.Background(), "ord-1", model.OrderTypeReservation, 12, model.PurposeDownPayment); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_, err := o.ConfirmSettlement(context.Background(), "ord-1")
	if KindOf(err) != KindNotSettled {
		t.Fatalf("expected kind %q, got %q (%v)", KindNotSettled, KindOf(err), err)
	}
	tx, _ := store.GetByOrderID(context.Background(), "ord-1")
	if tx.Status != model.TxPending {
		t.Errorf("expected row to stay pending, got %q", tx.Status)
	}
}

func TestOrchestratorConfirmUnknownOrder(t *testing.T) {
	o := &Orchestrator{Transactions: newFakeTxStore(), Gateway: &fakeGateway{}}

	_, err := o.ConfirmSettlement(context.Background(), "missing")
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected kind %q, got %q (%v)", KindNotFound, KindOf(err), err)
	}
}
