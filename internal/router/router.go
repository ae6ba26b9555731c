// Package router defines how HTTP routes are registered for the API.
// Every mutating endpoint is composed the same way: JWTAuth verifies the
// token and injects identity, RequireRole checks the role claim, then the
// handler validates the payload and talks to storage. Authentication and
// authorization stay two separate, independently testable stages.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// RegisterRoutes registers routes that require no authentication: the
// health check and the public menu browse used by customer-facing screens.
func RegisterRoutes(e *echo.Echo, m *handler.MenuHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/menu", m.List)
	e.GET("/v1/menu/:id", m.Get)
}

// RegisterAuth registers the authentication endpoints. Register, login,
// refresh and logout live under /v1/auth and need no token; /v1/me is
// protected and echoes the verified claims.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleWaiter, model.RoleKitchen, model.RoleCashier),
	)
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout_all", a.LogoutAll)
}

// RegisterTables registers the table endpoints under /api to match the
// path the floor terminals call. Status updates are restricted to waiters
// and admins; the list is open to all staff.
func RegisterTables(e *echo.Echo, t *handler.TableHandler, jwtSecret string) {
	staff := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleWaiter, model.RoleKitchen, model.RoleCashier),
	)
	staff.GET("/tables", t.List)

	floor := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleWaiter, model.RoleAdmin),
	)
	floor.PUT("/tables/:table_number/status", t.UpdateStatus)
}

// RegisterMenuAdmin registers the menu mutation endpoints (admin only);
// reads are public, see RegisterRoutes.
func RegisterMenuAdmin(e *echo.Echo, m *handler.MenuHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/menu", m.Create)
	g.PUT("/menu/:id", m.Update)
	g.DELETE("/menu/:id", m.Delete)
}

// RegisterOrders registers the order endpoints. Placement and reads are
// open to front-of-house staff; status transitions include the kitchen.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, p *handler.PaymentHandler, jwtSecret string) {
	front := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleWaiter, model.RoleAdmin, model.RoleCashier),
	)
	front.POST("/orders", o.Create)
	front.POST("/payments", p.Create)

	staff := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleWaiter, model.RoleKitchen, model.RoleCashier),
	)
	staff.GET("/orders", o.List)
	staff.GET("/orders/:id", o.Get)
	staff.GET("/orders/:id/payments", p.ListByOrder)

	progress := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleKitchen, model.RoleWaiter, model.RoleAdmin),
	)
	progress.PUT("/orders/:id/status", o.UpdateStatus)
	progress.PUT("/orders/:id/items/:item_id/status", o.UpdateItemStatus)
}
