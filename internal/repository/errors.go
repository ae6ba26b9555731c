// Package repository implements the persistence gateway over MySQL. This
// file defines sentinel errors shared across repositories so handlers can
// map storage outcomes to HTTP status codes with errors.Is instead of
// inspecting driver error strings.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist. Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when registration collides with an
// existing username. Handlers translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrTableUnavailable is returned when an order is placed against a table
// whose status does not permit seating (currently: cleaning).
var ErrTableUnavailable = errors.New("table unavailable")

// ErrActiveOrder is returned when a table already has an open order.
// One active order per table is a handler-maintained convention, not a
// storage constraint, so it is enforced here inside the order transaction.
var ErrActiveOrder = errors.New("table has an active order")

// ErrMenuItemUnavailable is returned when an order line references a menu
// item that is missing or flagged unavailable.
var ErrMenuItemUnavailable = errors.New("menu item unavailable")

// ErrMenuItemReferenced is returned when a menu item cannot be deleted
// because existing order items still reference it. Menu rows are never
// cascade-deleted.
var ErrMenuItemReferenced = errors.New("menu item referenced by orders")

// ErrOrderTooLarge is returned when an order's computed total does not
// fit the 32-bit cents column. Quantities and prices are validated
// individually upstream, but their product can still overflow.
var ErrOrderTooLarge = errors.New("order total out of range")

// ErrOrderClosed is returned when a payment targets an order that is
// already paid or cancelled. Handlers translate this into HTTP 409.
var ErrOrderClosed = errors.New("order closed")

// ErrOverpayment is returned when a payment exceeds the order's
// outstanding balance.
var ErrOverpayment = errors.New("payment exceeds outstanding balance")
