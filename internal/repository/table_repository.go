package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/restaurant-pos/internal/model"
)

// TableRepo provides access to the restaurant_tables table. Table rows are
// seeded at bootstrap; this repository only reads them and mutates their
// status.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the provided database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// List returns all tables ordered by table number.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT table_number, status, updated_at FROM restaurant_tables ORDER BY table_number")
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var tables []model.Table
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.TableNumber, &t.Status, &t.UpdatedAt); err != nil {
            return nil, err
        }
        tables = append(tables, t)
    }
    return tables, rows.Err()
}

// Get fetches a single table by number.
func (r *TableRepo) Get(ctx context.Context, tableNumber uint32) (model.Table, error) {
    var t model.Table
    err := r.db.QueryRowContext(ctx,
        "SELECT table_number, status, updated_at FROM restaurant_tables WHERE table_number=? LIMIT 1",
        tableNumber).Scan(&t.TableNumber, &t.Status, &t.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Table{}, ErrNotFound
    }
    return t, err
}

// UpdateStatus sets the status of one table and returns the row as it was
// persisted. Lock, update and read-back run in a single transaction so the
// returned row reflects exactly what committed; there is no separate
// read-after-write race. A missing table number returns ErrNotFound and
// leaves the table set untouched.
func (r *TableRepo) UpdateStatus(ctx context.Context, tableNumber uint32, status string) (model.Table, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Table{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if _, err := lockTableTx(ctx, tx, tableNumber); err != nil {
        return model.Table{}, err
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE restaurant_tables SET status=? WHERE table_number=?",
        status, tableNumber); err != nil {
        return model.Table{}, err
    }
    var t model.Table
    if err := tx.QueryRowContext(ctx,
        "SELECT table_number, status, updated_at FROM restaurant_tables WHERE table_number=?",
        tableNumber).Scan(&t.TableNumber, &t.Status, &t.UpdatedAt); err != nil {
        return model.Table{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Table{}, err
    }
    committed = true
    return t, nil
}

// lockTableTx reads a table's status under FOR UPDATE within the given
// transaction, returning ErrNotFound when the table does not exist. The
// row lock serializes concurrent writers against the same table.
func lockTableTx(ctx context.Context, tx *sql.Tx, tableNumber uint32) (string, error) {
    var status string
    err := tx.QueryRowContext(ctx,
        "SELECT status FROM restaurant_tables WHERE table_number=? FOR UPDATE",
        tableNumber).Scan(&status)
    if errors.Is(err, sql.ErrNoRows) {
        return "", ErrNotFound
    }
    return status, err
}
