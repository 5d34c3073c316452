package model

import "time"

// User represents an application account and its denormalized profile as
// stored in the `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs are
// primarily used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – uuid primary key of the user, issued at sign-up.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed account password.
//  DisplayName  – name shown on posts and member lists.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of sign-up.
//  UpdatedAt    – timestamp of last update.
//  LastLogin    – timestamp of last successful sign-in (nil if never).
type User struct {
	ID           string     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	DisplayName  string     // users.display_name
	IsActive     bool       // users.is_active
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
	LastLogin    *time.Time // users.last_login (nullable)
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
