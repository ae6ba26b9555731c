package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// user holds one of the specified roles. The roles correspond to the
// values carried in the JWT's "role" claim, which JWTAuth has already
// placed in the context; the claim is trusted as-is and never re-checked
// against storage while the token is valid. A missing or disallowed role
// yields 403 Forbidden — distinct from the 401 the auth gate produces,
// because here the token itself is fine.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
