package handler_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/router"
)

const userCols = "id,username,password_hash,role,is_active,created_at,updated_at"

func newAuthServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:      testSecret,
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost, // keep hashing cheap under test
	}
	e := echo.New()
	h := handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
	router.RegisterAuth(e, h, testSecret)
	return e, mock, db
}

func expectStoreRefresh(mock sqlmock.Sqlmock, userID int) {
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(userID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, password_hash, role) VALUES (?,?,?)")).
		WithArgs("alice", sqlmock.AnyArg(), "waiter").
		WillReturnResult(sqlmock.NewResult(3, 1))
	expectStoreRefresh(mock, 3)

	body := `{"username":"Alice","password":"s3cret","role":"waiter"}`
	rec := doJSON(e, http.MethodPost, "/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			ID       uint64 `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(3), resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "waiter", resp.User.Role)
	assert.NotEmpty(t, resp.Access.Token)
	assert.Len(t, resp.Refresh.Token, 96)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUnknownRoleBecomesWaiter(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, password_hash, role) VALUES (?,?,?)")).
		WithArgs("bob", sqlmock.AnyArg(), "waiter").
		WillReturnResult(sqlmock.NewResult(4, 1))
	expectStoreRefresh(mock, 4)

	body := `{"username":"bob","password":"pw","role":"superuser"}`
	rec := doJSON(e, http.MethodPost, "/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"waiter"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, password_hash, role) VALUES (?,?,?)")).
		WithArgs("alice", sqlmock.AnyArg(), "waiter").
		WillReturnError(errors.New("Error 1062: Duplicate entry 'alice' for key 'username'"))

	body := `{"username":"alice","password":"pw","role":"waiter"}`
	rec := doJSON(e, http.MethodPost, "/v1/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func userRow(id int, username, hash, role string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "is_active", "created_at", "updated_at"}).
		AddRow(id, username, hash, role, active, time.Now(), time.Now())
}

func TestLoginSuccess(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userCols+" FROM users WHERE username=? LIMIT 1")).
		WithArgs("alice").
		WillReturnRows(userRow(3, "alice", string(hash), "cashier", true))
	expectStoreRefresh(mock, 3)

	body := `{"username":"alice","password":"s3cret"}`
	rec := doJSON(e, http.MethodPost, "/v1/auth/login", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"cashier"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userCols+" FROM users WHERE username=? LIMIT 1")).
		WithArgs("alice").
		WillReturnRows(userRow(3, "alice", string(hash), "cashier", true))

	body := `{"username":"alice","password":"wrong"}`
	rec := doJSON(e, http.MethodPost, "/v1/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownUser(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userCols+" FROM users WHERE username=? LIMIT 1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	body := `{"username":"ghost","password":"pw"}`
	rec := doJSON(e, http.MethodPost, "/v1/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginInactiveUser(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userCols+" FROM users WHERE username=? LIMIT 1")).
		WithArgs("alice").
		WillReturnRows(userRow(3, "alice", string(hash), "cashier", false))

	body := `{"username":"alice","password":"s3cret"}`
	rec := doJSON(e, http.MethodPost, "/v1/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	rec := doJSON(e, http.MethodPost, "/v1/auth/logout_all", "", bearer(t, "waiter"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutAllRequiresToken(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	rec := doJSON(e, http.MethodPost, "/v1/auth/logout_all", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeEchoesClaims(t *testing.T) {
	e, mock, db := newAuthServer(t)
	defer db.Close()

	rec := doJSON(e, http.MethodGet, "/v1/me", "", bearer(t, "kitchen"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"kitchen"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
