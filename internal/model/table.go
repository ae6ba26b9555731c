package model

import "time"

// Table statuses. Writes outside this set are rejected before any SQL runs.
const (
    TableAvailable = "available"
    TableOccupied  = "occupied"
    TableCleaning  = "cleaning"
    TableReserved  = "reserved"
)

// TableStatuses lists the valid table statuses in a stable order; the
// validation error for a bad status enumerates this set.
var TableStatuses = []string{TableAvailable, TableOccupied, TableCleaning, TableReserved}

// ValidTableStatus reports whether s is a member of the table status set.
func ValidTableStatus(s string) bool {
    for _, v := range TableStatuses {
        if s == v {
            return true
        }
    }
    return false
}

// Table represents a row in the `restaurant_tables` table. Tables are
// identified by their physical table number rather than a surrogate key;
// rows are seeded at bootstrap and only their status is ever mutated.
type Table struct {
    TableNumber uint32    // restaurant_tables.table_number
    Status      string    // restaurant_tables.status
    UpdatedAt   time.Time // restaurant_tables.updated_at
}
