package model

import "time"

// Order statuses. "paid" is reached only through the payment path, never
// through the plain status-update endpoint.
const (
    OrderPending    = "pending"
    OrderInProgress = "in_progress"
    OrderServed     = "served"
    OrderPaid       = "paid"
    OrderCancelled  = "cancelled"
)

// OrderStatuses lists the valid order statuses in a stable order.
var OrderStatuses = []string{OrderPending, OrderInProgress, OrderServed, OrderPaid, OrderCancelled}

// ValidOrderStatus reports whether s is a member of the order status set.
func ValidOrderStatus(s string) bool {
    for _, v := range OrderStatuses {
        if s == v {
            return true
        }
    }
    return false
}

// ActiveOrderStatus reports whether an order in status s still occupies its
// table. Paid and cancelled orders are closed; everything else is active.
func ActiveOrderStatus(s string) bool {
    return s != OrderPaid && s != OrderCancelled
}

// Order item statuses, tracked per line so the kitchen can progress dishes
// independently.
const (
    ItemPending   = "pending"
    ItemPreparing = "preparing"
    ItemReady     = "ready"
    ItemServed    = "served"
    ItemCancelled = "cancelled"
)

// OrderItemStatuses lists the valid order item statuses in a stable order.
var OrderItemStatuses = []string{ItemPending, ItemPreparing, ItemReady, ItemServed, ItemCancelled}

// ValidOrderItemStatus reports whether s is a member of the item status set.
func ValidOrderItemStatus(s string) bool {
    for _, v := range OrderItemStatuses {
        if s == v {
            return true
        }
    }
    return false
}

// Order represents a row in the `orders` table. TotalCents is fixed when
// the order is placed as the sum of quantity × captured item price and is
// never recomputed from current menu prices.
type Order struct {
    ID           uint64    // orders.id
    TableNumber  uint32    // orders.table_number
    CustomerName *string   // orders.customer_name (nullable)
    Status       string    // orders.status
    TotalCents   uint32    // orders.total_cents
    Notes        *string   // orders.notes (nullable)
    CreatedAt    time.Time // orders.created_at
    UpdatedAt    time.Time // orders.updated_at
}

// OrderItem represents a row in the `order_items` table. ItemPriceCents is
// the menu price captured when the order was placed.
type OrderItem struct {
    ID             uint64  // order_items.id
    OrderID        uint64  // order_items.order_id
    MenuItemID     uint64  // order_items.menu_item_id
    Quantity       uint32  // order_items.quantity
    ItemPriceCents uint32  // order_items.item_price_cents
    Status         string  // order_items.status
    Notes          *string // order_items.notes (nullable)
}
