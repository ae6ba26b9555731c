package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/restaurant-pos/internal/model"
)

// MenuRepo provides CRUD access to the menu_items table.
type MenuRepo struct {
    db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the provided database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

const menuCols = "id, name, description, price_cents, category, image_url, is_available, created_at, updated_at"

func scanMenuItem(row interface{ Scan(...any) error }) (model.MenuItem, error) {
    var (
        m           model.MenuItem
        description sql.NullString
        category    sql.NullString
        imageURL    sql.NullString
    )
    err := row.Scan(&m.ID, &m.Name, &description, &m.PriceCents, &category, &imageURL,
        &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return model.MenuItem{}, err
    }
    if description.Valid {
        m.Description = &description.String
    }
    if category.Valid {
        m.Category = &category.String
    }
    if imageURL.Valid {
        m.ImageURL = &imageURL.String
    }
    return m, nil
}

// List returns menu items, optionally restricted to available ones.
func (r *MenuRepo) List(ctx context.Context, onlyAvailable bool) ([]model.MenuItem, error) {
    q := "SELECT " + menuCols + " FROM menu_items"
    if onlyAvailable {
        q += " WHERE is_available=1"
    }
    q += " ORDER BY category, name"
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var items []model.MenuItem
    for rows.Next() {
        m, err := scanMenuItem(rows)
        if err != nil {
            return nil, err
        }
        items = append(items, m)
    }
    return items, rows.Err()
}

// Get fetches one menu item by id.
func (r *MenuRepo) Get(ctx context.Context, id uint64) (model.MenuItem, error) {
    m, err := scanMenuItem(r.db.QueryRowContext(ctx,
        "SELECT "+menuCols+" FROM menu_items WHERE id=? LIMIT 1", id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.MenuItem{}, ErrNotFound
    }
    return m, err
}

// Create inserts a menu item and returns the persisted row.
func (r *MenuRepo) Create(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO menu_items (name, description, price_cents, category, image_url, is_available) VALUES (?,?,?,?,?,?)",
        m.Name, m.Description, m.PriceCents, m.Category, m.ImageURL, m.IsAvailable)
    if err != nil {
        return model.MenuItem{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.MenuItem{}, err
    }
    return r.Get(ctx, uint64(id))
}

// Update rewrites a menu item's mutable fields and returns the persisted
// row. Missing id returns ErrNotFound.
func (r *MenuRepo) Update(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE menu_items SET name=?, description=?, price_cents=?, category=?, image_url=?, is_available=? WHERE id=?",
        m.Name, m.Description, m.PriceCents, m.Category, m.ImageURL, m.IsAvailable, m.ID)
    if err != nil {
        return model.MenuItem{}, err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // RowsAffected is 0 both for a missing row and an unchanged one;
        // probe existence to tell them apart.
        if _, getErr := r.Get(ctx, m.ID); getErr != nil {
            return model.MenuItem{}, getErr
        }
    }
    return r.Get(ctx, m.ID)
}

// Delete removes a menu item. Items referenced by existing order lines are
// never deleted; the foreign key violation is surfaced as
// ErrMenuItemReferenced so handlers can answer 409.
func (r *MenuRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM menu_items WHERE id=?", id)
    if err != nil {
        // 1451 = MySQL cannot delete parent row, foreign key constraint
        if strings.Contains(err.Error(), "1451") {
            return ErrMenuItemReferenced
        }
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
