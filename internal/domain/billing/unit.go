package billing

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
)

const (
	maxUnitCodeLength     = 20
	maxUnitLocationLength = 10
)

// Unit is a billable apartment or space, optionally owned by a user
type Unit struct {
	shared.BaseAggregateRoot
	Code    string
	Tower   string
	Number  string
	OwnerID *uuid.UUID
	Active  bool
}

// NewUnit creates an active unit
func NewUnit(code, tower, number string, ownerID *uuid.UUID) (*Unit, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewValidationError("code", "code is required")
	}
	if utf8.RuneCountInString(code) > maxUnitCodeLength {
		return nil, shared.NewValidationError("code", "code must be at most 20 characters")
	}
	u := &Unit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Active:            true,
	}
	if err := u.SetLocation(tower, number); err != nil {
		return nil, err
	}
	u.AssignOwner(ownerID)
	return u, nil
}

// SetLocation updates the tower and number labels
func (u *Unit) SetLocation(tower, number string) error {
	tower = strings.TrimSpace(tower)
	number = strings.TrimSpace(number)
	if utf8.RuneCountInString(tower) > maxUnitLocationLength {
		return shared.NewValidationError("tower", "tower must be at most 10 characters")
	}
	if utf8.RuneCountInString(number) > maxUnitLocationLength {
		return shared.NewValidationError("number", "number must be at most 10 characters")
	}
	u.Tower = tower
	u.Number = number
	u.Touch()
	return nil
}

// AssignOwner sets or clears the owning user
func (u *Unit) AssignOwner(ownerID *uuid.UUID) {
	if ownerID != nil && *ownerID == uuid.Nil {
		ownerID = nil
	}
	u.OwnerID = ownerID
	u.Touch()
}

// IsOwnedBy reports whether userID owns the unit
func (u *Unit) IsOwnedBy(userID uuid.UUID) bool {
	return u.OwnerID != nil && *u.OwnerID == userID
}

// Activate makes the unit billable
func (u *Unit) Activate() {
	u.Active = true
	u.Touch()
}

// Deactivate stops billing the unit in future issuance runs
func (u *Unit) Deactivate() {
	u.Active = false
	u.Touch()
}
