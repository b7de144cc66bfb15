package domain

// Role identifies the capability set of a caller.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"

	// RoleGuest is never persisted: guests bypass credentials entirely and
	// may only submit tickets and follow their own thread.
	RoleGuest Role = "guest"
)

// GuestDisplayName is the identity label attached to guest sessions.
const GuestDisplayName = "Guest"

// User is a stored identity. In practice the table holds the bootstrapped
// administrator; guest access never creates rows.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}
