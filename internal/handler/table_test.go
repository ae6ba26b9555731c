package handler_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
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
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

const testSecret = "test-secret"

// newTableServer wires the table routes exactly as main does, backed by a
// mock database, so requests exercise the JWT and role middleware too.
func newTableServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	e := echo.New()
	router.RegisterTables(e, handler.NewTableHandler(repository.NewTableRepo(db)), testSecret)
	return e, mock, db
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, 1, role, 5)
	require.NoError(t, err)
	return "Bearer " + at.Token
}

func putStatus(e *echo.Echo, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func expectStatusUpdate(mock sqlmock.Sqlmock, tableNumber int, status string) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM restaurant_tables WHERE table_number=? FOR UPDATE")).
		WithArgs(tableNumber).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("available"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE restaurant_tables SET status=? WHERE table_number=?")).
		WithArgs(status, tableNumber).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_number, status, updated_at FROM restaurant_tables WHERE table_number=?")).
		WithArgs(tableNumber).
		WillReturnRows(sqlmock.NewRows([]string{"table_number", "status", "updated_at"}).
			AddRow(tableNumber, status, time.Now()))
	mock.ExpectCommit()
}

func TestUpdateTableStatusAsWaiter(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()
	expectStatusUpdate(mock, 3, "occupied")

	rec := putStatus(e, "/api/tables/3/status", `{"status":"occupied"}`, bearer(t, "waiter"))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message     string `json:"message"`
		TableNumber int    `json:"table_number"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TableNumber)
	assert.Equal(t, "occupied", body.Status)
	assert.NotEmpty(t, body.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusAsAdmin(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()
	expectStatusUpdate(mock, 5, "reserved")

	rec := putStatus(e, "/api/tables/5/status", `{"status":"reserved"}`, bearer(t, "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusInvalidStatus(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()
	// Rejected before any SQL runs: no expectations on the mock.

	rec := putStatus(e, "/api/tables/3/status", `{"status":"invalid_status"}`, bearer(t, "waiter"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	for _, s := range []string{"available", "occupied", "cleaning", "reserved"} {
		assert.Contains(t, rec.Body.String(), s)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusMissingStatus(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()

	rec := putStatus(e, "/api/tables/3/status", `{}`, bearer(t, "waiter"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"status is required"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusUnknownTable(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM restaurant_tables WHERE table_number=? FOR UPDATE")).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	rec := putStatus(e, "/api/tables/999/status", `{"status":"available"}`, bearer(t, "admin"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "999")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusNumberOutOfRange(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()
	// 2^32+3 would wrap around to table 3 if cast blindly; it must be
	// rejected before any SQL runs. No expectations on the mock.

	rec := putStatus(e, "/api/tables/4294967299/status", `{"status":"occupied"}`, bearer(t, "admin"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusNoToken(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()

	rec := putStatus(e, "/api/tables/3/status", `{"status":"available"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusWrongRole(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()

	rec := putStatus(e, "/api/tables/3/status", `{"status":"occupied"}`, bearer(t, "customer"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableStatusStorageFailure(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM restaurant_tables WHERE table_number=? FOR UPDATE")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("available"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE restaurant_tables SET status=? WHERE table_number=?")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	rec := putStatus(e, "/api/tables/3/status", `{"status":"cleaning"}`, bearer(t, "waiter"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Driver detail stays in the log, not the body.
	assert.JSONEq(t, `{"error":"storage failure"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTables(t *testing.T) {
	e, mock, db := newTableServer(t)
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_number, status, updated_at FROM restaurant_tables ORDER BY table_number")).
		WillReturnRows(sqlmock.NewRows([]string{"table_number", "status", "updated_at"}).
			AddRow(1, "available", time.Now()).
			AddRow(2, "occupied", time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("Authorization", bearer(t, "kitchen"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"occupied"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
