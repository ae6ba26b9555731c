package model

import "time"

// Payment statuses and accepted methods. Payments are append-only: identity
// fields never change after insert, only the status may transition
// pending -> completed/failed.
const (
    PaymentPending   = "pending"
    PaymentCompleted = "completed"
    PaymentFailed    = "failed"
)

// PaymentMethods lists the accepted payment methods in a stable order.
var PaymentMethods = []string{"cash", "card", "mobile"}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
    for _, v := range PaymentMethods {
        if m == v {
            return true
        }
    }
    return false
}

// Payment represents a row in the `payments` table.
type Payment struct {
    ID            uint64    // payments.id
    OrderID       uint64    // payments.order_id
    AmountCents   uint32    // payments.amount_cents
    Method        string    // payments.method
    TransactionID *string   // payments.transaction_id (nullable)
    Status        string    // payments.status
    CreatedAt     time.Time // payments.created_at
}
