package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateExpenseTypeRequest adds a catalog entry
type CreateExpenseTypeRequest struct {
	Name          string          `json:"name" binding:"required,max=80"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
}

// UpdateExpenseTypeRequest changes the fields that are present
type UpdateExpenseTypeRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=80"`
	DefaultAmount *decimal.Decimal `json:"default_amount"`
	Active        *bool            `json:"active"`
}

// ExpenseTypeListFilter filters the catalog listing
type ExpenseTypeListFilter struct {
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ExpenseTypeResponse represents an expense type in API responses
type ExpenseTypeResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	DefaultAmount valueobject.Money `json:"default_amount"`
	Active        bool              `json:"active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToExpenseTypeResponse converts a domain ExpenseType
func ToExpenseTypeResponse(et *billing.ExpenseType) ExpenseTypeResponse {
	return ExpenseTypeResponse{
		ID:            et.ID,
		Name:          et.Name,
		DefaultAmount: valueobject.MoneyOf(et.DefaultAmount),
		Active:        et.Active,
		CreatedAt:     et.CreatedAt,
		UpdatedAt:     et.UpdatedAt,
	}
}

// CreateUnitRequest registers a unit
type CreateUnitRequest struct {
	Code    string     `json:"code" binding:"required,max=20"`
	Tower   string     `json:"tower" binding:"max=10"`
	Number  string     `json:"number" binding:"max=10"`
	OwnerID *uuid.UUID `json:"owner_id"`
}

// UpdateUnitRequest changes the fields that are present. An owner_id
// of the nil UUID removes the owner.
type UpdateUnitRequest struct {
	Tower   *string    `json:"tower" binding:"omitempty,max=10"`
	Number  *string    `json:"number" binding:"omitempty,max=10"`
	OwnerID *uuid.UUID `json:"owner_id"`
	Active  *bool      `json:"active"`
}

// UnitListFilter filters the registry listing
type UnitListFilter struct {
	OwnerID  *uuid.UUID `form:"-"`
	Active   *bool      `form:"active"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Tower     string     `json:"tower"`
	Number    string     `json:"number"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToUnitResponse converts a domain Unit
func ToUnitResponse(u *billing.Unit) UnitResponse {
	return UnitResponse{
		ID:        u.ID,
		Code:      u.Code,
		Tower:     u.Tower,
		Number:    u.Number,
		OwnerID:   u.OwnerID,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
