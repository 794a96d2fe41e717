package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseTypeFilter narrows catalog listings
type ExpenseTypeFilter struct {
	shared.Filter
	Active *bool
}

// UnitFilter narrows registry listings
type UnitFilter struct {
	shared.Filter
	OwnerID *uuid.UUID
	Active  *bool
}

// FeeFilter narrows ledger listings. OwnerID restricts results to
// fees on units owned by that user.
type FeeFilter struct {
	shared.Filter
	OwnerID       *uuid.UUID
	Period        *valueobject.Period
	ExpenseTypeID *uuid.UUID
	UnitID        *uuid.UUID
	Status        *FeeStatus
}

// FeeListItem is a fee joined with its unit, type and paid total
type FeeListItem struct {
	Fee             Fee
	UnitCode        string
	ExpenseTypeName string
	Paid            decimal.Decimal
}

// ExpenseTypeRepository persists the expense catalog
type ExpenseTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseType, error)
	FindAll(ctx context.Context, filter ExpenseTypeFilter) ([]ExpenseType, int64, error)
	// FindActive returns active types, narrowed to one id when given
	FindActive(ctx context.Context, id *uuid.UUID) ([]ExpenseType, error)
	// Save creates or updates. A duplicate name yields shared.ErrAlreadyExists.
	Save(ctx context.Context, et *ExpenseType) error
}

// UnitRepository persists the unit registry
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindAll(ctx context.Context, filter UnitFilter) ([]Unit, int64, error)
	FindActive(ctx context.Context) ([]Unit, error)
	// Save creates or updates. A duplicate code yields shared.ErrAlreadyExists.
	Save(ctx context.Context, u *Unit) error
}

// FeeRepository persists the fee ledger
type FeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Fee, error)
	// FindByIDForUpdate loads the fee holding an exclusive row lock
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Fee, error)
	FindByKey(ctx context.Context, key FeeKey) (*Fee, error)
	// InsertIfAbsent inserts the fee unless its (unit, type, period) key
	// already exists. Returns false when the key was taken.
	InsertIfAbsent(ctx context.Context, fee *Fee) (bool, error)
	// Update persists amount, status and version changes
	Update(ctx context.Context, fee *Fee) error
	FindAll(ctx context.Context, filter FeeFilter) ([]FeeListItem, int64, error)
	// MarkOverdue flips ISSUED fees whose due date is before asOf
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// PaymentRepository is the append-only payment journal
type PaymentRepository interface {
	Append(ctx context.Context, payment *Payment) error
	FindByFee(ctx context.Context, feeID uuid.UUID) ([]Payment, error)
	SumByFee(ctx context.Context, feeID uuid.UUID) (decimal.Decimal, error)
	ExistsForFee(ctx context.Context, feeID uuid.UUID) (bool, error)
}
