package billing

import (
	"strings"
	"unicode/utf8"

	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const maxExpenseTypeNameLength = 80

// ExpenseType is a kind of recurring charge, e.g. maintenance or water,
// with the amount billed by default when fees are issued.
type ExpenseType struct {
	shared.BaseAggregateRoot
	Name          string
	DefaultAmount decimal.Decimal
	Active        bool
}

// NewExpenseType creates an active expense type
func NewExpenseType(name string, defaultAmount decimal.Decimal) (*ExpenseType, error) {
	et := &ExpenseType{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
	}
	if err := et.Rename(name); err != nil {
		return nil, err
	}
	if err := et.SetDefaultAmount(defaultAmount); err != nil {
		return nil, err
	}
	return et, nil
}

// Rename changes the display name
func (e *ExpenseType) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxExpenseTypeNameLength {
		return shared.NewValidationError("name", "name must be at most 80 characters")
	}
	e.Name = name
	e.touch()
	return nil
}

// SetDefaultAmount changes the amount used for newly issued fees.
// Fees already issued keep their amount.
func (e *ExpenseType) SetDefaultAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("default_amount", "default amount cannot be negative")
	}
	if _, err := valueobject.NewMoney(amount); err != nil {
		return shared.NewValidationError("default_amount", err.Error())
	}
	e.DefaultAmount = amount
	e.touch()
	return nil
}

// Activate makes the type eligible for issuance
func (e *ExpenseType) Activate() {
	if !e.Active {
		e.Active = true
		e.touch()
	}
}

// Deactivate excludes the type from future issuance runs
func (e *ExpenseType) Deactivate() {
	if e.Active {
		e.Active = false
		e.touch()
	}
}

func (e *ExpenseType) touch() {
	e.Touch()
}
