package service

import (
	"testing"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

func TestHasConflictSameInstantSameSeating(t *testing.T) {
	at := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	existing := []model.Reservation{{Seating: model.SeatingIndoor, ReservationAt: at}}

	if !HasConflict(at, model.SeatingIndoor, existing) {
		t.Error("expected conflict for the same instant and seating")
	}
	if HasConflict(at, model.SeatingOutdoor, existing) {
		t.Error("expected no conflict for a different seating area")
	}
}

func TestHasConflictNearbyInstantDoesNotCollide(t *testing.T) {
	at := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	existing := []model.Reservation{{Seating: model.SeatingIndoor, ReservationAt: at.Add(2 * time.Hour)}}

	// Only the exact instant collides, even inside the window.
	if HasConflict(at, model.SeatingIndoor, existing) {
		t.Error("expected no conflict two hours apart")
	}
}

func TestHasConflictOutsideWindow(t *testing.T) {
	at := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	existing := []model.Reservation{{Seating: model.SeatingIndoor, ReservationAt: at.Add(ConflictWindow + time.Minute)}}

	if HasConflict(at, model.SeatingIndoor, existing) {
		t.Error("expected no conflict outside the window")
	}
}
