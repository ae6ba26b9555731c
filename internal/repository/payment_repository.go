package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/restaurant-pos/internal/model"
)

// PaymentRepo provides access to the payments table. Payments are
// append-only: rows are inserted and their status may transition, but
// identity fields are never rewritten and nothing is deleted.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the provided database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = "id, order_id, amount_cents, method, transaction_id, status, created_at"

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
    var (
        p    model.Payment
        txID sql.NullString
    )
    err := row.Scan(&p.ID, &p.OrderID, &p.AmountCents, &p.Method, &txID, &p.Status, &p.CreatedAt)
    if err != nil {
        return model.Payment{}, err
    }
    if txID.Valid {
        p.TransactionID = &txID.String
    }
    return p, nil
}

// Create records a payment against an order. Split payments are allowed:
// several payments may accumulate against one order, but the sum of
// completed payments can never exceed the order total, and once the order
// is paid (or cancelled) further payments are rejected with ErrOrderClosed.
// When a completed payment settles the remaining balance, the same
// transaction marks the order paid and moves its table to cleaning.
//
// The populated payment row is written back into p; the returned bool
// reports whether this payment closed the order.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) (bool, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return false, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var (
        orderStatus string
        totalCents  uint32
        tableNumber uint32
    )
    err = tx.QueryRowContext(ctx,
        "SELECT status, total_cents, table_number FROM orders WHERE id=? FOR UPDATE",
        p.OrderID).Scan(&orderStatus, &totalCents, &tableNumber)
    if errors.Is(err, sql.ErrNoRows) {
        return false, ErrNotFound
    }
    if err != nil {
        return false, err
    }
    if !model.ActiveOrderStatus(orderStatus) {
        return false, ErrOrderClosed
    }

    var paidCents uint32
    if err := tx.QueryRowContext(ctx,
        "SELECT COALESCE(SUM(amount_cents),0) FROM payments WHERE order_id=? AND status='completed'",
        p.OrderID).Scan(&paidCents); err != nil {
        return false, err
    }
    outstanding := totalCents - paidCents
    if p.AmountCents > outstanding {
        return false, ErrOverpayment
    }

    res, err := tx.ExecContext(ctx,
        "INSERT INTO payments (order_id, amount_cents, method, transaction_id, status) VALUES (?,?,?,?,?)",
        p.OrderID, p.AmountCents, p.Method, p.TransactionID, p.Status)
    if err != nil {
        return false, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return false, err
    }

    orderPaid := false
    if p.Status == model.PaymentCompleted && paidCents+p.AmountCents >= totalCents {
        if _, err := tx.ExecContext(ctx,
            "UPDATE orders SET status=? WHERE id=?", model.OrderPaid, p.OrderID); err != nil {
            return false, err
        }
        if _, err := tx.ExecContext(ctx,
            "UPDATE restaurant_tables SET status=? WHERE table_number=?",
            model.TableCleaning, tableNumber); err != nil {
            return false, err
        }
        orderPaid = true
    }

    persisted, err := scanPayment(tx.QueryRowContext(ctx,
        "SELECT "+paymentCols+" FROM payments WHERE id=?", id))
    if err != nil {
        return false, err
    }
    if err := tx.Commit(); err != nil {
        return false, err
    }
    committed = true
    *p = persisted
    return orderPaid, nil
}

// ListByOrder returns all payments recorded against an order, oldest first.
func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID uint64) ([]model.Payment, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+paymentCols+" FROM payments WHERE order_id=? ORDER BY id", orderID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var payments []model.Payment
    for rows.Next() {
        p, err := scanPayment(rows)
        if err != nil {
            return nil, err
        }
        payments = append(payments, p)
    }
    return payments, rows.Err()
}
