package handler // handler defines the HTTP handlers for the POS API

import (
    "errors"
    "log"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-pos/internal/repository"
)

// getUserID extracts the user_id placed in context by the JWT middleware
// and converts it to uint64. JWT numeric claims decode as float64, so a
// few shapes are tolerated.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathUint parses a positive integer path parameter, returning ok=false
// for anything that is not a positive number.
func pathUint(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// pathUint32 is pathUint bounded to 32 bits, for parameters that address
// 32-bit columns. Out-of-range values must be rejected here: a silent cast
// would wrap around and address a different row.
func pathUint32(c echo.Context, name string) (uint32, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 32)
    if err != nil || n == 0 {
        return 0, false
    }
    return uint32(n), true
}

// storageError logs the underlying error and answers with a generic 500.
// Driver detail never reaches the response body; it is only written to the
// operational log.
func storageError(c echo.Context, op string, err error) error {
    log.Printf("%s: storage error: %v", op, err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
}

// notFound answers 404 with a resource-specific message.
func notFound(c echo.Context, msg string) error {
    return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
}

// isNotFound reports whether err is the repository's missing-row sentinel.
func isNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }
