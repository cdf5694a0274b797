// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// services to distinguish between different failure scenarios without
// parsing driver errors themselves.
package repository

import "errors"

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as inserting a reservation into a slot that
// was taken between the service-level check and the insert. The
// service layer translates this into its conflict failure kind.
var ErrConflict = errors.New("conflict")

// ErrPendingExists is returned when a second pending transaction is
// created for an order id that already has one. Backed by a unique
// index on transactions(order_id).
var ErrPendingExists = errors.New("pending transaction already exists")

// ErrEmailExists is returned when a user insert collides with the
// unique email index.
var ErrEmailExists = errors.New("email already exists")
