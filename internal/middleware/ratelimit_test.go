package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/restaurant-pos/internal/config"
)

func rateCtx(e *echo.Echo) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/tables")
	return c
}

func TestBuildRateKeyDefaultUsesIPAndRoute(t *testing.T) {
	// The limiter runs before authentication, so the default key must not
	// depend on a user identity that is never populated at that point.
	e := echo.New()
	c := rateCtx(e)

	key := buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c)
	assert.Contains(t, key, ":ip:")
	assert.Contains(t, key, ":route:")
	assert.NotContains(t, key, ":user:")
}

func TestBuildRateKeyUserStrategy(t *testing.T) {
	e := echo.New()
	c := rateCtx(e)
	c.Set("user_id", float64(7))

	key := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}, c)
	assert.Contains(t, key, ":user:7")
}
