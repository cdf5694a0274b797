// Package pricing contains the pure money math for orders and
// reservations.  Every amount is an integer in the smallest currency
// unit; there is deliberately no floating point anywhere in this
// package.  Functions are deterministic and free of I/O so they can be
// exercised exhaustively in tests.
package pricing

import "github.com/iliyamo/restaurant-reservation/internal/model"

// TableOnlyDepositCents is the flat deposit charged for a table-only
// reservation regardless of payment purpose or party size.
const TableOnlyDepositCents int64 = 30000

// shippingFlatCents is the current flat delivery fee.  Kept behind
// ShippingCost() as a seam for future variable shipping.
const shippingFlatCents int64 = 0

// discountDivisor implements the 10% member discount as integer math.
const discountDivisor int64 = 10

// Subtotal returns the sum of price*quantity over the given selections.
// The result is invariant to item ordering.
func Subtotal(items []model.MenuSelection) int64 {
    var sum int64
    for _, it := range items {
        sum += it.PriceCents * int64(it.Quantity)
    }
    return sum
}

// Discount returns the member discount for a subtotal: 10% (floored)
// for members, zero otherwise.  The result never exceeds the subtotal.
func Discount(isMember bool, subtotalCents int64) int64 {
    if !isMember {
        return 0
    }
    return subtotalCents / discountDivisor
}

// ReservationDiscount applies the member discount to a reservation.
// Table-only reservations never discount; only bookings that include
// food qualify.
func ReservationDiscount(isMember bool, reservationType string, subtotalCents int64) int64 {
    if reservationType != model.ReservationIncludeFood {
        return 0
    }
    return Discount(isMember, subtotalCents)
}

// ShippingCost returns the delivery fee for an online order.
func ShippingCost() int64 {
    return shippingFlatCents
}

// OnlineOrderTotal combines subtotal, shipping and discount into the
// amount actually charged: subtotal + shipping - discount.
func OnlineOrderTotal(subtotalCents, shippingCents, discountCents int64) int64 {
    return subtotalCents + shippingCents - discountCents
}

// ReservationDownPayment returns the upfront charge for a reservation.
// Table-only bookings always pay the flat deposit.  Include-food
// bookings pay half the total (floored) when the purpose is
// downPayment, or the full total when paying outright.
func ReservationDownPayment(reservationType, purpose string, totalCents int64) int64 {
    if reservationType == model.ReservationTableOnly {
        return TableOnlyDepositCents
    }
    if purpose == model.PurposeDownPayment {
        return totalCents / 2
    }
    return totalCents
}
