package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func TestTableUpdateStatusReturnsCommittedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM restaurant_tables WHERE table_number=? FOR UPDATE")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("available"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE restaurant_tables SET status=? WHERE table_number=?")).
		WithArgs("occupied", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_number, status, updated_at FROM restaurant_tables WHERE table_number=?")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"table_number", "status", "updated_at"}).
			AddRow(3, "occupied", time.Now()))
	mock.ExpectCommit()

	got, err := NewTableRepo(db).UpdateStatus(context.Background(), 3, model.TableOccupied)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), got.TableNumber)
	assert.Equal(t, model.TableOccupied, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableUpdateStatusUnknownTableRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM restaurant_tables WHERE table_number=? FOR UPDATE")).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	_, err = NewTableRepo(db).UpdateStatus(context.Background(), 999, model.TableCleaning)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_number, status, updated_at FROM restaurant_tables ORDER BY table_number")).
		WillReturnRows(sqlmock.NewRows([]string{"table_number", "status", "updated_at"}).
			AddRow(1, "available", time.Now()).
			AddRow(2, "reserved", time.Now()))

	tables, err := NewTableRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, model.TableReserved, tables[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
