package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AggregateTypeFee is the aggregate name used in fee events
const AggregateTypeFee = "Fee"

// Fee is a single charge for one unit, one expense type and one period
type Fee struct {
	shared.BaseAggregateRoot
	UnitID        uuid.UUID
	ExpenseTypeID uuid.UUID
	Period        valueobject.Period
	Amount        decimal.Decimal
	Status        FeeStatus
	IssuedAt      time.Time
	DueDate       *time.Time
}

// NewFee creates a fee in ISSUED status and records a FeeIssued event
func NewFee(unitID, expenseTypeID uuid.UUID, period valueobject.Period, amount decimal.Decimal, dueDate *time.Time) (*Fee, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewValidationError("unit_id", "unit is required")
	}
	if expenseTypeID == uuid.Nil {
		return nil, shared.NewValidationError("expense_type_id", "expense type is required")
	}
	if period.IsZero() {
		return nil, shared.NewValidationError("period", valueobject.ErrInvalidPeriod.Error())
	}
	if err := validateFeeAmount(amount); err != nil {
		return nil, err
	}

	f := &Fee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UnitID:            unitID,
		ExpenseTypeID:     expenseTypeID,
		Period:            period,
		Amount:            amount,
		Status:            FeeStatusIssued,
		DueDate:           dueDate,
	}
	f.IssuedAt = f.CreatedAt
	f.AddDomainEvent(NewFeeIssuedEvent(f))
	return f, nil
}

// Key returns the fee's natural identity
func (f *Fee) Key() FeeKey {
	return FeeKey{UnitID: f.UnitID, ExpenseTypeID: f.ExpenseTypeID, Period: f.Period.String()}
}

// CorrectAmount replaces the amount owed. Corrections are only allowed
// while no payment has been applied. Returns false when the amount
// already matches.
func (f *Fee) CorrectAmount(amount decimal.Decimal, hasPayments bool) (bool, error) {
	if err := validateFeeAmount(amount); err != nil {
		return false, err
	}
	if f.Amount.Equal(amount) {
		return false, nil
	}
	if hasPayments {
		return false, shared.NewDomainError(shared.CodeInvalidState, "Cannot correct the amount of a fee that has payments")
	}

	previous := f.Amount
	f.Amount = amount
	f.MarkChanged()
	f.AddDomainEvent(NewFeeAmountCorrectedEvent(f, previous))
	return true, nil
}

// ApplyPaidTotal reconciles the status against the cumulative paid total.
// Returns true when the status changed.
func (f *Fee) ApplyPaidTotal(paid decimal.Decimal) (bool, error) {
	next := DeriveStatus(f.Status, f.Amount, paid)
	if next == f.Status {
		return false, nil
	}
	if err := f.transitionTo(next); err != nil {
		return false, err
	}
	if next == FeeStatusPaid {
		f.AddDomainEvent(NewFeePaidEvent(f, paid))
	}
	return true, nil
}

// MarkOverdue moves an unpaid fee past its due date to OVERDUE
func (f *Fee) MarkOverdue(asOf time.Time) error {
	if !f.IsOverdueAt(asOf) {
		return shared.NewDomainError(shared.CodeInvalidState, "Fee is not past its due date")
	}
	return f.transitionTo(FeeStatusOverdue)
}

// IsOverdueAt reports whether the fee is ISSUED with a due date before asOf
func (f *Fee) IsOverdueAt(asOf time.Time) bool {
	return f.Status == FeeStatusIssued && f.DueDate != nil && f.DueDate.Before(asOf)
}

// Balance returns the reconciliation view for a paid total
func (f *Fee) Balance(paid decimal.Decimal) FeeBalance {
	return FeeBalance{
		FeeID:       f.ID,
		Period:      f.Period.String(),
		Amount:      f.Amount,
		Paid:        paid,
		Outstanding: f.Amount.Sub(paid),
		Status:      f.Status,
	}
}

func (f *Fee) transitionTo(next FeeStatus) error {
	if !f.Status.CanTransitionTo(next) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot move fee from %s to %s", f.Status, next))
	}
	f.Status = next
	f.MarkChanged()
	return nil
}

func validateFeeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("amount", "amount cannot be negative")
	}
	if _, err := valueobject.NewMoney(amount); err != nil {
		return shared.NewValidationError("amount", err.Error())
	}
	return nil
}

// FeeKey is the (unit, expense type, period) identity of a fee
type FeeKey struct {
	UnitID        uuid.UUID
	ExpenseTypeID uuid.UUID
	Period        string
}

// FeeBalance is the state of a fee after reconciliation
type FeeBalance struct {
	FeeID       uuid.UUID
	Period      string
	Amount      decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
	Status      FeeStatus
}
