package handler_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/router"
)

const menuCols = "id, name, description, price_cents, category, image_url, is_available, created_at, updated_at"

func newMenuServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	e := echo.New()
	h := handler.NewMenuHandler(repository.NewMenuRepo(db))
	router.RegisterRoutes(e, h)
	router.RegisterMenuAdmin(e, h, testSecret)
	return e, mock, db
}

func menuRow(id int, name string, price int, available bool) *sqlmock.Rows {
	return sqlmock.NewRows(strings.Split(menuCols, ", ")).
		AddRow(id, name, nil, price, "mains", nil, available, time.Now(), time.Now())
}

func TestCreateMenuItem(t *testing.T) {
	e, mock, db := newMenuServer(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO menu_items (name, description, price_cents, category, image_url, is_available) VALUES (?,?,?,?,?,?)")).
		WithArgs("Margherita", nil, 950, nil, nil, true).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+menuCols+" FROM menu_items WHERE id=? LIMIT 1")).
		WithArgs(4).
		WillReturnRows(menuRow(4, "Margherita", 950, true))

	body := `{"name":"Margherita","price_cents":950}`
	rec := doJSON(e, http.MethodPost, "/v1/menu", body, bearer(t, "admin"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID         uint64 `json:"id"`
		PriceCents uint32 `json:"price_cents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(4), resp.ID)
	assert.Equal(t, uint32(950), resp.PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMenuItemValidation(t *testing.T) {
	e, mock, db := newMenuServer(t)
	defer db.Close()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"price_cents":100}`, "name is required"},
		{"missing price", `{"name":"Soup"}`, "price_cents is required"},
		{"negative price", `{"name":"Soup","price_cents":-100}`, "price_cents must not be negative"},
		{"price too large", `{"name":"Soup","price_cents":4294967396}`, "price_cents is out of range"},
	}
	for _, tc := range cases {
		rec := doJSON(e, http.MethodPost, "/v1/menu", tc.body, bearer(t, "admin"))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
		assert.Contains(t, rec.Body.String(), tc.want, tc.name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMenuFiltersUnavailable(t *testing.T) {
	e, mock, db := newMenuServer(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+menuCols+" FROM menu_items WHERE is_available=1 ORDER BY category, name")).
		WillReturnRows(menuRow(1, "Margherita", 950, true))

	// Browsing the menu needs no token.
	rec := doJSON(e, http.MethodGet, "/v1/menu", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Margherita")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMenuItemReferencedByOrders(t *testing.T) {
	e, mock, db := newMenuServer(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM menu_items WHERE id=?")).
		WithArgs(4).
		WillReturnError(errors.New("Error 1451: Cannot delete or update a parent row"))

	rec := doJSON(e, http.MethodDelete, "/v1/menu/4", "", bearer(t, "admin"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "referenced by existing orders")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMenuItemNotFound(t *testing.T) {
	e, mock, db := newMenuServer(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM menu_items WHERE id=?")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doJSON(e, http.MethodDelete, "/v1/menu/99", "", bearer(t, "admin"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuMutationsAreAdminOnly(t *testing.T) {
	e, mock, db := newMenuServer(t)
	defer db.Close()

	body := `{"name":"Soup","price_cents":400}`
	rec := doJSON(e, http.MethodPost, "/v1/menu", body, bearer(t, "waiter"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/menu", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
