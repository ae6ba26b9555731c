package repository

import (
    "context"
    "database/sql"
    "errors"
    "math"

    "github.com/iliyamo/restaurant-pos/internal/model"
)

// OrderRepo provides access to the orders and order_items tables. All
// mutations run inside a single transaction: an order and its lines either
// commit together or not at all, and the table row is locked first so two
// concurrent placements against the same table serialize.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the provided database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = "id, table_number, customer_name, status, total_cents, notes, created_at, updated_at"

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
    var (
        o        model.Order
        customer sql.NullString
        notes    sql.NullString
    )
    err := row.Scan(&o.ID, &o.TableNumber, &customer, &o.Status, &o.TotalCents,
        &notes, &o.CreatedAt, &o.UpdatedAt)
    if err != nil {
        return model.Order{}, err
    }
    if customer.Valid {
        o.CustomerName = &customer.String
    }
    if notes.Valid {
        o.Notes = &notes.String
    }
    return o, nil
}

// Create places an order with its line items in one transaction:
//
//  1. lock the table row (missing table -> ErrNotFound, cleaning ->
//     ErrTableUnavailable),
//  2. reject when the table already has an active order (ErrActiveOrder),
//  3. snapshot each menu item's current price into the line
//     (missing/unavailable item -> ErrMenuItemUnavailable),
//  4. insert the order with total = Σ quantity × captured price,
//  5. mark the table occupied.
//
// The captured prices are what the order total is built from; later menu
// price changes never touch an existing order. On success the order and
// item slices are populated with the persisted rows.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order, items []model.OrderItem) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    tableStatus, err := lockTableTx(ctx, tx, o.TableNumber)
    if err != nil {
        return err
    }
    if tableStatus == model.TableCleaning {
        return ErrTableUnavailable
    }

    var active int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM orders WHERE table_number=? AND status NOT IN ('paid','cancelled')",
        o.TableNumber).Scan(&active); err != nil {
        return err
    }
    if active > 0 {
        return ErrActiveOrder
    }

    // Snapshot prices and compute the total from the captured values.
    // The sum runs in 64 bits; quantity × price can overflow the 32-bit
    // cents column even when each factor is in range.
    var total uint64
    for i := range items {
        var (
            price     uint32
            available bool
        )
        err := tx.QueryRowContext(ctx,
            "SELECT price_cents, is_available FROM menu_items WHERE id=? LIMIT 1",
            items[i].MenuItemID).Scan(&price, &available)
        if errors.Is(err, sql.ErrNoRows) {
            return ErrMenuItemUnavailable
        }
        if err != nil {
            return err
        }
        if !available {
            return ErrMenuItemUnavailable
        }
        items[i].ItemPriceCents = price
        items[i].Status = model.ItemPending
        total += uint64(items[i].Quantity) * uint64(price)
        if total > math.MaxUint32 {
            return ErrOrderTooLarge
        }
    }

    res, err := tx.ExecContext(ctx,
        "INSERT INTO orders (table_number, customer_name, status, total_cents, notes) VALUES (?,?,?,?,?)",
        o.TableNumber, o.CustomerName, model.OrderPending, total, o.Notes)
    if err != nil {
        return err
    }
    orderID, err := res.LastInsertId()
    if err != nil {
        return err
    }

    for i := range items {
        items[i].OrderID = uint64(orderID)
        lineRes, err := tx.ExecContext(ctx,
            "INSERT INTO order_items (order_id, menu_item_id, quantity, item_price_cents, status, notes) VALUES (?,?,?,?,?,?)",
            items[i].OrderID, items[i].MenuItemID, items[i].Quantity,
            items[i].ItemPriceCents, items[i].Status, items[i].Notes)
        if err != nil {
            return err
        }
        lineID, err := lineRes.LastInsertId()
        if err != nil {
            return err
        }
        items[i].ID = uint64(lineID)
    }

    if _, err := tx.ExecContext(ctx,
        "UPDATE restaurant_tables SET status=? WHERE table_number=?",
        model.TableOccupied, o.TableNumber); err != nil {
        return err
    }

    // Read the order back inside the transaction so timestamps and
    // defaults are exactly what committed.
    persisted, err := scanOrder(tx.QueryRowContext(ctx,
        "SELECT "+orderCols+" FROM orders WHERE id=?", orderID))
    if err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    *o = persisted
    return nil
}

// Get fetches one order with its line items.
func (r *OrderRepo) Get(ctx context.Context, id uint64) (model.Order, []model.OrderItem, error) {
    o, err := scanOrder(r.db.QueryRowContext(ctx,
        "SELECT "+orderCols+" FROM orders WHERE id=? LIMIT 1", id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Order{}, nil, ErrNotFound
    }
    if err != nil {
        return model.Order{}, nil, err
    }

    rows, err := r.db.QueryContext(ctx,
        "SELECT id, order_id, menu_item_id, quantity, item_price_cents, status, notes FROM order_items WHERE order_id=? ORDER BY id",
        id)
    if err != nil {
        return model.Order{}, nil, err
    }
    defer rows.Close()

    var items []model.OrderItem
    for rows.Next() {
        var (
            it    model.OrderItem
            notes sql.NullString
        )
        if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity,
            &it.ItemPriceCents, &it.Status, &notes); err != nil {
            return model.Order{}, nil, err
        }
        if notes.Valid {
            it.Notes = &notes.String
        }
        items = append(items, it)
    }
    return o, items, rows.Err()
}

// List returns all orders, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+orderCols+" FROM orders ORDER BY id DESC")
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var orders []model.Order
    for rows.Next() {
        o, err := scanOrder(rows)
        if err != nil {
            return nil, err
        }
        orders = append(orders, o)
    }
    return orders, rows.Err()
}

// UpdateStatus transitions an order and returns the persisted row. When an
// active order is cancelled its table goes back to available, all in the
// same transaction. The caller validates the target status; this method
// only enforces existence.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Order, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Order{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var (
        current     string
        tableNumber uint32
    )
    err = tx.QueryRowContext(ctx,
        "SELECT status, table_number FROM orders WHERE id=? FOR UPDATE",
        id).Scan(&current, &tableNumber)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Order{}, ErrNotFound
    }
    if err != nil {
        return model.Order{}, err
    }

    if _, err := tx.ExecContext(ctx,
        "UPDATE orders SET status=? WHERE id=?", status, id); err != nil {
        return model.Order{}, err
    }
    if status == model.OrderCancelled && model.ActiveOrderStatus(current) {
        if _, err := tx.ExecContext(ctx,
            "UPDATE restaurant_tables SET status=? WHERE table_number=?",
            model.TableAvailable, tableNumber); err != nil {
            return model.Order{}, err
        }
    }

    o, err := scanOrder(tx.QueryRowContext(ctx,
        "SELECT "+orderCols+" FROM orders WHERE id=?", id))
    if err != nil {
        return model.Order{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Order{}, err
    }
    committed = true
    return o, nil
}

// UpdateItemStatus transitions a single order line. The line must belong
// to the given order; otherwise ErrNotFound is returned.
func (r *OrderRepo) UpdateItemStatus(ctx context.Context, orderID, itemID uint64, status string) (model.OrderItem, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.OrderItem{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var exists uint64
    err = tx.QueryRowContext(ctx,
        "SELECT id FROM order_items WHERE id=? AND order_id=? FOR UPDATE",
        itemID, orderID).Scan(&exists)
    if errors.Is(err, sql.ErrNoRows) {
        return model.OrderItem{}, ErrNotFound
    }
    if err != nil {
        return model.OrderItem{}, err
    }

    if _, err := tx.ExecContext(ctx,
        "UPDATE order_items SET status=? WHERE id=?", status, itemID); err != nil {
        return model.OrderItem{}, err
    }

    var (
        it    model.OrderItem
        notes sql.NullString
    )
    if err := tx.QueryRowContext(ctx,
        "SELECT id, order_id, menu_item_id, quantity, item_price_cents, status, notes FROM order_items WHERE id=?",
        itemID).Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity,
        &it.ItemPriceCents, &it.Status, &notes); err != nil {
        return model.OrderItem{}, err
    }
    if notes.Valid {
        it.Notes = &notes.String
    }
    if err := tx.Commit(); err != nil {
        return model.OrderItem{}, err
    }
    committed = true
    return it, nil
}
