package model

import "time"

// MenuItem represents a row in the `menu_items` table. Prices are stored
// as integer cents; order items snapshot the price at order time, so a
// later price change never rewrites an existing order.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the dish or drink.
//  Description – optional free-text description.
//  PriceCents  – current price in minor units.
//  Category    – optional grouping (e.g. "mains", "drinks").
//  ImageURL    – optional image reference.
//  IsAvailable – whether the item can currently be ordered.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type MenuItem struct {
    ID          uint64    // menu_items.id
    Name        string    // menu_items.name
    Description *string   // menu_items.description (nullable)
    PriceCents  uint32    // menu_items.price_cents
    Category    *string   // menu_items.category (nullable)
    ImageURL    *string   // menu_items.image_url (nullable)
    IsAvailable bool      // menu_items.is_available
    CreatedAt   time.Time // menu_items.created_at
    UpdatedAt   time.Time // menu_items.updated_at
}
