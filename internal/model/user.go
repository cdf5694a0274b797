package model

import "time"

// User represents a registered member as stored in the `users` table.
// Guests have no row here; their identity travels in a signed access
// token instead.  Membership drives the 10% pricing discount.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address (lower-cased on write).
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  IsMember     – whether the account counts as a member for pricing.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Name         string    // users.name
    PasswordHash string    // users.password_hash
    IsMember     bool      // users.is_member
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// MenuItem is a row of the `menu_items` catalog referenced by bookings
// and orders.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – dish name shown to customers.
//  PriceCents  – unit price in the smallest currency unit.
//  Category    – free-form grouping (mains, drinks, ...).
//  IsAvailable – whether the item can currently be ordered.
type MenuItem struct {
    ID          uint64    `json:"id"`           // menu_items.id
    Name        string    `json:"name"`         // menu_items.name
    PriceCents  int64     `json:"price_cents"`  // menu_items.price_cents
    Category    string    `json:"category"`     // menu_items.category
    IsAvailable bool      `json:"is_available"` // menu_items.is_available
    CreatedAt   time.Time `json:"created_at"`   // menu_items.created_at
    UpdatedAt   time.Time `json:"updated_at"`   // menu_items.updated_at
}
