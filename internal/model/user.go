package model

import "time"

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleGuest UserRole = "guest" // Unauthenticated caller
	UserRoleUser  UserRole = "user"  // Default role for registered users
	UserRoleAdmin UserRole = "admin" // Can manage events and evict attendees
)

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Hash      *string   `json:"-"` // Never expose password hash
	Role      UserRole  `json:"role"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Identity is the caller identity resolved from a bearer token.
//
// Resolution is total: a request without a verifiable token carries the guest
// identity rather than being rejected at the transport layer. Authorization
// decisions belong to the operations that require more than guest access.
type Identity struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email,omitempty"`
	Name   string   `json:"name,omitempty"`
	Role   UserRole `json:"role"`
}

// GuestIdentity returns the identity assigned to unauthenticated callers.
func GuestIdentity() Identity {
	return Identity{Role: UserRoleGuest}
}

// IsGuest returns true if the identity belongs to an unauthenticated caller
func (i Identity) IsGuest() bool {
	return i.Role == UserRoleGuest || i.UserID == ""
}

// IsAdmin returns true if the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == UserRoleAdmin
}
