package model

import "time"

// Staff roles. The role string is stored on the users row, embedded in the
// access token at login and trusted from the token on every request; a
// revoked role therefore stays effective until the token expires.
const (
    RoleAdmin   = "admin"
    RoleWaiter  = "waiter"
    RoleKitchen = "kitchen"
    RoleCashier = "cashier"
)

// ValidRole reports whether role is one of the known staff roles.
func ValidRole(role string) bool {
    switch role {
    case RoleAdmin, RoleWaiter, RoleKitchen, RoleCashier:
        return true
    }
    return false
}

// User represents a row in the `users` table. The json tags are omitted
// because these structs are used by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – staff role (admin, waiter, kitchen, cashier).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user and carries metadata for expiry and revocation.
// The plain token is never stored; only its SHA-256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
