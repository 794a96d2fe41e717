// Package identity describes who is invoking a ledger operation.
package identity

import (
	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
)

// Role is the caller's role as asserted by the token issuer
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
	RoleSystem Role = "SYSTEM"
)

// Caller is the authenticated principal of a request. It is passed
// explicitly to every application operation.
type Caller struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	// Staff marks operator accounts that act as administrators
	// regardless of role
	Staff bool
}

// SystemCaller identifies batch jobs such as the overdue sweep
func SystemCaller() Caller {
	return Caller{Username: "system", Role: RoleSystem}
}

// IsAdmin reports whether the caller may act on any unit
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleSystem || c.Staff
}

// RequireAdmin returns ErrForbidden for non-administrative callers
func (c Caller) RequireAdmin() error {
	if !c.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}

// UserRef returns a pointer to the user id for audit columns, or nil
// for callers without a user, such as the system caller
func (c Caller) UserRef() *uuid.UUID {
	if c.UserID == uuid.Nil {
		return nil
	}
	id := c.UserID
	return &id
}

// VisibleOwner returns the owner filter a query must apply. Non-admin
// callers are always restricted to their own units, whatever they asked
// for. Admins get the requested filter, if any.
func (c Caller) VisibleOwner(requested *uuid.UUID) *uuid.UUID {
	if !c.IsAdmin() {
		id := c.UserID
		return &id
	}
	return requested
}
