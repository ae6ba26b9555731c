package handler

import (
    "context"
    "errors"
    "math"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-pos/internal/model"
    "github.com/iliyamo/restaurant-pos/internal/queue"
    "github.com/iliyamo/restaurant-pos/internal/repository"
)

// PaymentEvents is the slice of the event publisher the payment handler
// needs; nil disables publishing.
type PaymentEvents interface {
    PublishPaymentCompleted(ctx context.Context, ev queue.PaymentCompletedEvent) error
}

// PaymentHandler serves the payment endpoints. Payments are append-only;
// there is deliberately no update or delete surface.
type PaymentHandler struct {
    Payments *repository.PaymentRepo
    Events   PaymentEvents
}

func NewPaymentHandler(payments *repository.PaymentRepo, events PaymentEvents) *PaymentHandler {
    if payments == nil {
        panic("nil repository passed to NewPaymentHandler")
    }
    return &PaymentHandler{Payments: payments, Events: events}
}

type createPaymentReq struct {
    OrderID       uint64  `json:"order_id"`
    AmountCents   *int64  `json:"amount_cents"`
    Method        string  `json:"method"`
    TransactionID *string `json:"transaction_id"`
    Status        string  `json:"status"`
}

func paymentJSON(p model.Payment) echo.Map {
    return echo.Map{
        "id":             p.ID,
        "order_id":       p.OrderID,
        "amount_cents":   p.AmountCents,
        "method":         p.Method,
        "transaction_id": p.TransactionID,
        "status":         p.Status,
        "created_at":     p.CreatedAt,
    }
}

// Create handles POST /v1/payments. Split payments are allowed: several
// payments may be recorded against one order until the completed sum
// reaches the total, at which point the order is marked paid and further
// payments are refused with 409. A payment can never exceed the
// outstanding balance.
func (h *PaymentHandler) Create(c echo.Context) error {
    var req createPaymentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.OrderID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
    }
    if req.AmountCents == nil || *req.AmountCents <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be positive"})
    }
    if *req.AmountCents > math.MaxUint32 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents is out of range"})
    }
    method := strings.ToLower(strings.TrimSpace(req.Method))
    if !model.ValidPaymentMethod(method) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "invalid method, allowed methods are: " + strings.Join(model.PaymentMethods, ", "),
        })
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    if status == "" {
        status = model.PaymentCompleted
    }
    if status != model.PaymentPending && status != model.PaymentCompleted && status != model.PaymentFailed {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p := model.Payment{
        OrderID:       req.OrderID,
        AmountCents:   uint32(*req.AmountCents),
        Method:        method,
        TransactionID: req.TransactionID,
        Status:        status,
    }
    orderPaid, err := h.Payments.Create(ctx, &p)
    if err != nil {
        switch {
        case isNotFound(err):
            return notFound(c, "order not found")
        case errors.Is(err, repository.ErrOrderClosed):
            return c.JSON(http.StatusConflict, echo.Map{"error": "order is already paid or cancelled"})
        case errors.Is(err, repository.ErrOverpayment):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount exceeds outstanding balance"})
        }
        return storageError(c, "create payment", err)
    }

    if orderPaid && h.Events != nil {
        _ = h.Events.PublishPaymentCompleted(ctx, queue.PaymentCompletedEvent{
            PaymentID: p.ID,
            OrderID:   p.OrderID,
            Method:    p.Method,
            PaidAt:    p.CreatedAt.UTC().Format(time.RFC3339),
        })
    }

    resp := paymentJSON(p)
    resp["order_paid"] = orderPaid
    return c.JSON(http.StatusCreated, resp)
}

// ListByOrder handles GET /v1/orders/:id/payments.
func (h *PaymentHandler) ListByOrder(c echo.Context) error {
    orderID, ok := pathUint(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    payments, err := h.Payments.ListByOrder(ctx, orderID)
    if err != nil {
        return storageError(c, "list payments", err)
    }
    out := make([]echo.Map, 0, len(payments))
    for _, p := range payments {
        out = append(out, paymentJSON(p))
    }
    return c.JSON(http.StatusOK, echo.Map{"payments": out})
}
