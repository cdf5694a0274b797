package service

import (
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// ConflictWindow is the proximity threshold applied when checking a
// candidate booking against existing reservations with the same
// seating preference.
const ConflictWindow = 6 * time.Hour

// HasConflict reports whether the candidate slot collides with any of
// the existing reservations.  All reservations are scanned regardless
// of status.  A collision requires the same seating preference, a
// time difference within ConflictWindow, and the exact same
// reservation instant.
//
// The exact-instant condition makes the window check nearly vacuous;
// it is preserved deliberately because relaxing it would reject
// bookings the current product accepts.  See DESIGN.md.
func HasConflict(candidate time.Time, seating string, existing []model.Reservation) bool {
    for _, r := range existing {
        if r.Seating != seating {
            continue
        }
        d := candidate.Sub(r.ReservationAt)
        if d < 0 {
            d = -d
        }
        if d <= ConflictWindow && r.ReservationAt.Equal(candidate) {
            return true
        }
    }
    return false
}
