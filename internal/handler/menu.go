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
    "github.com/iliyamo/restaurant-pos/internal/repository"
)

// MenuHandler serves the menu endpoints. Reads are public so front-of-house
// displays can browse without a token; mutations are admin-only (enforced
// by route middleware).
type MenuHandler struct {
    Menu *repository.MenuRepo
}

func NewMenuHandler(menu *repository.MenuRepo) *MenuHandler {
    if menu == nil {
        panic("nil repository passed to NewMenuHandler")
    }
    return &MenuHandler{Menu: menu}
}

type menuItemReq struct {
    Name        string  `json:"name"`
    Description *string `json:"description"`
    PriceCents  *int64  `json:"price_cents"`
    Category    *string `json:"category"`
    ImageURL    *string `json:"image_url"`
    IsAvailable *bool   `json:"is_available"`
}

func menuItemJSON(m model.MenuItem) echo.Map {
    return echo.Map{
        "id":           m.ID,
        "name":         m.Name,
        "description":  m.Description,
        "price_cents":  m.PriceCents,
        "category":     m.Category,
        "image_url":    m.ImageURL,
        "is_available": m.IsAvailable,
        "created_at":   m.CreatedAt,
        "updated_at":   m.UpdatedAt,
    }
}

// validate checks payload shape; prices are integer cents and must not be
// negative.
func (r *menuItemReq) validate() (model.MenuItem, string) {
    name := strings.TrimSpace(r.Name)
    if name == "" {
        return model.MenuItem{}, "name is required"
    }
    if r.PriceCents == nil {
        return model.MenuItem{}, "price_cents is required"
    }
    if *r.PriceCents < 0 {
        return model.MenuItem{}, "price_cents must not be negative"
    }
    if *r.PriceCents > math.MaxUint32 {
        return model.MenuItem{}, "price_cents is out of range"
    }
    m := model.MenuItem{
        Name:        name,
        Description: r.Description,
        PriceCents:  uint32(*r.PriceCents),
        Category:    r.Category,
        ImageURL:    r.ImageURL,
        IsAvailable: true,
    }
    if r.IsAvailable != nil {
        m.IsAvailable = *r.IsAvailable
    }
    return m, ""
}

// List handles GET /v1/menu. Unauthenticated callers browse the available
// items; ?all=true includes unavailable ones for staff screens.
func (h *MenuHandler) List(c echo.Context) error {
    onlyAvailable := c.QueryParam("all") != "true"

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Menu.List(ctx, onlyAvailable)
    if err != nil {
        return storageError(c, "list menu", err)
    }
    out := make([]echo.Map, 0, len(items))
    for _, m := range items {
        out = append(out, menuItemJSON(m))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/menu/:id.
func (h *MenuHandler) Get(c echo.Context) error {
    id, ok := pathUint(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Menu.Get(ctx, id)
    if err != nil {
        if isNotFound(err) {
            return notFound(c, "menu item not found")
        }
        return storageError(c, "get menu item", err)
    }
    return c.JSON(http.StatusOK, menuItemJSON(m))
}

// Create handles POST /v1/menu (admin).
func (h *MenuHandler) Create(c echo.Context) error {
    var req menuItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    m, msg := req.validate()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    created, err := h.Menu.Create(ctx, m)
    if err != nil {
        return storageError(c, "create menu item", err)
    }
    return c.JSON(http.StatusCreated, menuItemJSON(created))
}

// Update handles PUT /v1/menu/:id (admin).
func (h *MenuHandler) Update(c echo.Context) error {
    id, ok := pathUint(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
    }
    var req menuItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    m, msg := req.validate()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    m.ID = id

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    updated, err := h.Menu.Update(ctx, m)
    if err != nil {
        if isNotFound(err) {
            return notFound(c, "menu item not found")
        }
        return storageError(c, "update menu item", err)
    }
    return c.JSON(http.StatusOK, menuItemJSON(updated))
}

// Delete handles DELETE /v1/menu/:id (admin). Items referenced by order
// lines are kept (409): order history must not lose its price snapshots'
// parent rows.
func (h *MenuHandler) Delete(c echo.Context) error {
    id, ok := pathUint(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    err := h.Menu.Delete(ctx, id)
    if err != nil {
        if isNotFound(err) {
            return notFound(c, "menu item not found")
        }
        if errors.Is(err, repository.ErrMenuItemReferenced) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "menu item is referenced by existing orders"})
        }
        return storageError(c, "delete menu item", err)
    }
    return c.NoContent(http.StatusNoContent)
}
