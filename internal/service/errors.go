// Package service implements the reconciliation core: identity
// resolution, conflict checking, transaction orchestration against the
// payment gateway, and the reservation/online-order aggregate flows.
//
// Every operation returns a single typed failure (*Error) instead of
// ad-hoc success/message payloads, so HTTP handlers can map error kinds
// onto status codes uniformly.
package service

import "errors"

// Kind classifies a service failure.  Handlers translate kinds into
// HTTP status codes; see handler.writeError.
type Kind string

const (
    KindValidation         Kind = "validation"          // malformed input payload
    KindInvalidAccess      Kind = "invalid_access"      // identity resolution failed
    KindConflict           Kind = "conflict"            // reservation slot taken / transaction already open
    KindGatewayUnavailable Kind = "gateway_unavailable" // payment provider unreachable or non-2xx
    KindNotSettled         Kind = "not_settled"         // gateway reports a non-settlement status
    KindNotFound           Kind = "not_found"           // order/reservation/transaction absent
    KindPersistence        Kind = "persistence"         // database read or write failed
)

// Error is the one failure type crossing the service boundary.
type Error struct {
    Kind    Kind   // machine-readable classification
    Message string // human-readable detail, safe to surface to clients
    Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
    if e.Err != nil {
        return e.Message + ": " + e.Err.Error()
    }
    return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a service error without an underlying cause.
func E(kind Kind, message string) *Error {
    return &Error{Kind: kind, Message: message}
}

// wrapE builds a service error wrapping an underlying cause.
func wrapE(kind Kind, message string, err error) *Error {
    return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an error returned by this package.
// Unknown errors classify as persistence failures, matching the
// "500 otherwise" propagation policy.
func KindOf(err error) Kind {
    var se *Error
    if errors.As(err, &se) {
        return se.Kind
    }
    return KindPersistence
}
