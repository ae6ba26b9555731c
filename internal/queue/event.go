// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// OrderPlacedItem is one line of an OrderPlacedEvent.
type OrderPlacedItem struct {
    MenuItemID uint64 `json:"menu_item_id"`
    Quantity   uint32 `json:"quantity"`
}

// OrderPlacedEvent is published after an order transaction commits. It
// carries enough information for a kitchen display or ticket printer to
// act without querying the primary database.
type OrderPlacedEvent struct {
    OrderID     uint64            `json:"order_id"`
    TableNumber uint32            `json:"table_number"`
    Items       []OrderPlacedItem `json:"items"`
    TotalCents  uint32            `json:"total_cents"`
    PlacedAt    string            `json:"placed_at"`
}

// PaymentCompletedEvent is published when a payment settles an order.
type PaymentCompletedEvent struct {
    PaymentID uint64 `json:"payment_id"`
    OrderID   uint64 `json:"order_id"`
    Method    string `json:"method"`
    PaidAt    string `json:"paid_at"`
}
