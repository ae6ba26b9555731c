package handler

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-pos/internal/model"
    "github.com/iliyamo/restaurant-pos/internal/queue"
    "github.com/iliyamo/restaurant-pos/internal/repository"
)

// OrderEvents is the slice of the event publisher the order handler needs.
// A nil publisher disables publishing; the request flow never fails because
// the broker is down.
type OrderEvents interface {
    PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
}

// OrderHandler serves order and order item endpoints.
type OrderHandler struct {
    Orders *repository.OrderRepo
    Events OrderEvents
}

func NewOrderHandler(orders *repository.OrderRepo, events OrderEvents) *OrderHandler {
    if orders == nil {
        panic("nil repository passed to NewOrderHandler")
    }
    return &OrderHandler{Orders: orders, Events: events}
}

type orderItemReq struct {
    MenuItemID uint64  `json:"menu_item_id"`
    Quantity   uint32  `json:"quantity"`
    Notes      *string `json:"notes"`
}

type createOrderReq struct {
    TableNumber  uint32         `json:"table_number"`
    CustomerName *string        `json:"customer_name"`
    Notes        *string        `json:"notes"`
    Items        []orderItemReq `json:"items"`
}

func orderItemJSON(it model.OrderItem) echo.Map {
    return echo.Map{
        "id":               it.ID,
        "order_id":         it.OrderID,
        "menu_item_id":     it.MenuItemID,
        "quantity":         it.Quantity,
        "item_price_cents": it.ItemPriceCents,
        "status":           it.Status,
        "notes":            it.Notes,
    }
}

func orderJSON(o model.Order) echo.Map {
    return echo.Map{
        "id":            o.ID,
        "table_number":  o.TableNumber,
        "customer_name": o.CustomerName,
        "status":        o.Status,
        "total_cents":   o.TotalCents,
        "notes":         o.Notes,
        "created_at":    o.CreatedAt,
        "updated_at":    o.UpdatedAt,
    }
}

// Create handles POST /v1/orders. The order and all of its lines commit in
// one transaction; the line prices are snapshots of the menu prices at
// this moment and the total is their sum. The table must exist, must not
// be cleaning and must not already have an active order.
func (h *OrderHandler) Create(c echo.Context) error {
    var req createOrderReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.TableNumber == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number is required"})
    }
    if len(req.Items) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one item is required"})
    }
    items := make([]model.OrderItem, 0, len(req.Items))
    for _, it := range req.Items {
        if it.MenuItemID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "menu_item_id is required"})
        }
        if it.Quantity < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
        }
        items = append(items, model.OrderItem{
            MenuItemID: it.MenuItemID,
            Quantity:   it.Quantity,
            Notes:      it.Notes,
        })
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    o := model.Order{
        TableNumber:  req.TableNumber,
        CustomerName: req.CustomerName,
        Notes:        req.Notes,
    }
    if err := h.Orders.Create(ctx, &o, items); err != nil {
        switch {
        case isNotFound(err):
            return notFound(c, fmt.Sprintf("table %d not found", req.TableNumber))
        case errors.Is(err, repository.ErrTableUnavailable):
            return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("table %d is being cleaned", req.TableNumber)})
        case errors.Is(err, repository.ErrActiveOrder):
            return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("table %d already has an active order", req.TableNumber)})
        case errors.Is(err, repository.ErrMenuItemUnavailable):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "order references a missing or unavailable menu item"})
        case errors.Is(err, repository.ErrOrderTooLarge):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "order total is out of range"})
        }
        return storageError(c, "create order", err)
    }

    if h.Events != nil {
        ev := queue.OrderPlacedEvent{
            OrderID:     o.ID,
            TableNumber: o.TableNumber,
            TotalCents:  o.TotalCents,
            PlacedAt:    o.CreatedAt.UTC().Format(time.RFC3339),
        }
        for _, it := range items {
            ev.Items = append(ev.Items, queue.OrderPlacedItem{
                MenuItemID: it.MenuItemID,
                Quantity:   it.Quantity,
            })
        }
        // Fire-and-forget: the order is committed either way.
        _ = h.Events.PublishOrderPlaced(ctx, ev)
    }

    resp := orderJSON(o)
    lines := make([]echo.Map, 0, len(items))
    for _, it := range items {
        lines = append(lines, orderItemJSON(it))
    }
    resp["items"] = lines
    return c.JSON(http.StatusCreated, resp)
}

// List handles GET /v1/orders.
func (h *OrderHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    orders, err := h.Orders.List(ctx)
    if err != nil {
        return storageError(c, "list orders", err)
    }
    out := make([]echo.Map, 0, len(orders))
    for _, o := range orders {
        out = append(out, orderJSON(o))
    }
    return c.JSON(http.StatusOK, echo.Map{"orders": out})
}

// Get handles GET /v1/orders/:id and returns the order with its lines.
func (h *OrderHandler) Get(c echo.Context) error {
    id, ok := pathUint(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    o, items, err := h.Orders.Get(ctx, id)
    if err != nil {
        if isNotFound(err) {
            return notFound(c, "order not found")
        }
        return storageError(c, "get order", err)
    }
    resp := orderJSON(o)
    lines := make([]echo.Map, 0, len(items))
    for _, it := range items {
        lines = append(lines, orderItemJSON(it))
    }
    resp["items"] = lines
    return c.JSON(http.StatusOK, resp)
}

type statusReq struct {
    Status string `json:"status"`
}

// UpdateStatus handles PUT /v1/orders/:id/status. The target must be a
// member of the order status set; "paid" is refused here because an order
// becomes paid only through the payment path.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
    id, ok := pathUint(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    if status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
    }
    if !model.ValidOrderStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": fmt.Sprintf("invalid status, allowed statuses are: %s",
                strings.Join(model.OrderStatuses, ", ")),
        })
    }
    if status == model.OrderPaid {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "orders are marked paid through payments"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    o, err := h.Orders.UpdateStatus(ctx, id, status)
    if err != nil {
        if isNotFound(err) {
            return notFound(c, "order not found")
        }
        return storageError(c, "update order status", err)
    }
    return c.JSON(http.StatusOK, orderJSON(o))
}

// UpdateItemStatus handles PUT /v1/orders/:id/items/:item_id/status so the
// kitchen can progress individual dishes.
func (h *OrderHandler) UpdateItemStatus(c echo.Context) error {
    orderID, ok := pathUint(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }
    itemID, ok := pathUint(c, "item_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order item id"})
    }
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    if status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
    }
    if !model.ValidOrderItemStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": fmt.Sprintf("invalid status, allowed statuses are: %s",
                strings.Join(model.OrderItemStatuses, ", ")),
        })
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    it, err := h.Orders.UpdateItemStatus(ctx, orderID, itemID, status)
    if err != nil {
        if isNotFound(err) {
            return notFound(c, "order item not found")
        }
        return storageError(c, "update order item status", err)
    }
    return c.JSON(http.StatusOK, orderItemJSON(it))
}
