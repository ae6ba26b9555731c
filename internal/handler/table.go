package handler

import (
    "context"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-pos/internal/model"
    "github.com/iliyamo/restaurant-pos/internal/repository"
)

// TableHandler serves the table endpoints. Tables are seeded at bootstrap
// and only ever change status, so the surface is a list plus the status
// update.
type TableHandler struct {
    Tables *repository.TableRepo
}

func NewTableHandler(tables *repository.TableRepo) *TableHandler {
    if tables == nil {
        panic("nil repository passed to NewTableHandler")
    }
    return &TableHandler{Tables: tables}
}

type tableStatusReq struct {
    Status string `json:"status"`
}

// UpdateStatus handles PUT /api/tables/:table_number/status. The caller
// must hold the waiter or admin role (enforced by route middleware).
// Validation happens entirely before any SQL runs: a missing status is a
// 400, a status outside the enumerated set is a 400 whose message lists
// the valid values. The update and read-back run in one transaction so the
// response body is exactly the persisted row.
func (h *TableHandler) UpdateStatus(c echo.Context) error {
    tableNumber, ok := pathUint32(c, "table_number")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table number"})
    }

    var req tableStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    if status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
    }
    if !model.ValidTableStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": fmt.Sprintf("invalid status, allowed statuses are: %s",
                strings.Join(model.TableStatuses, ", ")),
        })
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tables.UpdateStatus(ctx, tableNumber, status)
    if err != nil {
        if isNotFound(err) {
            return notFound(c, fmt.Sprintf("table %d not found", tableNumber))
        }
        return storageError(c, "update table status", err)
    }

    return c.JSON(http.StatusOK, echo.Map{
        "message":      fmt.Sprintf("table %d status updated to %s", t.TableNumber, t.Status),
        "table_number": t.TableNumber,
        "status":       t.Status,
    })
}

// List handles GET /api/tables and returns every table with its current
// status, ordered by table number.
func (h *TableHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tables, err := h.Tables.List(ctx)
    if err != nil {
        return storageError(c, "list tables", err)
    }

    out := make([]echo.Map, 0, len(tables))
    for _, t := range tables {
        out = append(out, echo.Map{
            "table_number": t.TableNumber,
            "status":       t.Status,
            "updated_at":   t.UpdatedAt,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"tables": out})
}
