package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseTypeModel is the persistence model for the expense catalog
type ExpenseTypeModel struct {
	VersionedModel
	Name          string          `gorm:"type:varchar(80);not null;uniqueIndex:uq_expense_types_name"`
	DefaultAmount decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Active        bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ExpenseTypeModel) TableName() string {
	return "expense_types"
}

// ToDomain converts the persistence model to a domain ExpenseType
func (m *ExpenseTypeModel) ToDomain() *billing.ExpenseType {
	et := &billing.ExpenseType{
		Name:          m.Name,
		DefaultAmount: m.DefaultAmount,
		Active:        m.Active,
	}
	m.loadRoot(&et.BaseAggregateRoot)
	return et
}

// FromDomain populates the persistence model from a domain ExpenseType
func (m *ExpenseTypeModel) FromDomain(et *billing.ExpenseType) {
	m.storeRoot(et.BaseAggregateRoot)
	m.Name = et.Name
	m.DefaultAmount = et.DefaultAmount
	m.Active = et.Active
}

// ExpenseTypeModelFromDomain creates a persistence model from a domain ExpenseType
func ExpenseTypeModelFromDomain(et *billing.ExpenseType) *ExpenseTypeModel {
	m := &ExpenseTypeModel{}
	m.FromDomain(et)
	return m
}

// UnitModel is the persistence model for the unit registry
type UnitModel struct {
	VersionedModel
	Code    string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_units_code"`
	Tower   string     `gorm:"type:varchar(10);not null;default:''"`
	Number  string     `gorm:"type:varchar(10);not null;default:''"`
	OwnerID *uuid.UUID `gorm:"type:uuid;index"`
	Active  bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit
func (m *UnitModel) ToDomain() *billing.Unit {
	u := &billing.Unit{
		Code:    m.Code,
		Tower:   m.Tower,
		Number:  m.Number,
		OwnerID: m.OwnerID,
		Active:  m.Active,
	}
	m.loadRoot(&u.BaseAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain Unit
func (m *UnitModel) FromDomain(u *billing.Unit) {
	m.storeRoot(u.BaseAggregateRoot)
	m.Code = u.Code
	m.Tower = u.Tower
	m.Number = u.Number
	m.OwnerID = u.OwnerID
	m.Active = u.Active
}

// UnitModelFromDomain creates a persistence model from a domain Unit
func UnitModelFromDomain(u *billing.Unit) *UnitModel {
	m := &UnitModel{}
	m.FromDomain(u)
	return m
}

// FeeModel is the persistence model for the fee ledger.
// (unit_id, expense_type_id, period) is unique.
type FeeModel struct {
	VersionedModel
	UnitID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_fees_unit_type_period,priority:1"`
	ExpenseTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_fees_unit_type_period,priority:2;index"`
	Period        string          `gorm:"type:char(7);not null;uniqueIndex:uq_fees_unit_type_period,priority:3;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status        string          `gorm:"type:varchar(10);not null;default:'ISSUED';index"`
	IssuedAt      time.Time       `gorm:"not null;index"`
	DueDate       *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (FeeModel) TableName() string {
	return "fees"
}

// ToDomain converts the persistence model to a domain Fee. A row whose
// period does not parse is reported instead of loaded with the zero period.
func (m *FeeModel) ToDomain() (*billing.Fee, error) {
	period, err := valueobject.ParsePeriod(m.Period)
	if err != nil {
		return nil, fmt.Errorf("fee %s has malformed period %q: %w", m.ID, m.Period, err)
	}
	f := &billing.Fee{
		UnitID:        m.UnitID,
		ExpenseTypeID: m.ExpenseTypeID,
		Period:        period,
		Amount:        m.Amount,
		Status:        billing.FeeStatus(m.Status),
		IssuedAt:      m.IssuedAt,
		DueDate:       m.DueDate,
	}
	m.loadRoot(&f.BaseAggregateRoot)
	return f, nil
}

// FromDomain populates the persistence model from a domain Fee
func (m *FeeModel) FromDomain(f *billing.Fee) {
	m.storeRoot(f.BaseAggregateRoot)
	m.UnitID = f.UnitID
	m.ExpenseTypeID = f.ExpenseTypeID
	m.Period = f.Period.String()
	m.Amount = f.Amount
	m.Status = string(f.Status)
	m.IssuedAt = f.IssuedAt
	m.DueDate = f.DueDate
}

// FeeModelFromDomain creates a persistence model from a domain Fee
func FeeModelFromDomain(f *billing.Fee) *FeeModel {
	m := &FeeModel{}
	m.FromDomain(f)
	return m
}

// PaymentModel is the persistence model for the payment journal.
// Rows are never updated.
type PaymentModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	FeeID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	PaidAt     time.Time       `gorm:"not null;index"`
	Method     string          `gorm:"type:varchar(30);not null;default:'cash'"`
	Note       string          `gorm:"type:text;not null;default:''"`
	RecordedBy *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		FeeID:      m.FeeID,
		Amount:     m.Amount,
		PaidAt:     m.PaidAt,
		Method:     m.Method,
		Note:       m.Note,
		RecordedBy: m.RecordedBy,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	return &PaymentModel{
		ID:         p.ID,
		FeeID:      p.FeeID,
		Amount:     p.Amount,
		PaidAt:     p.PaidAt,
		Method:     p.Method,
		Note:       p.Note,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
}
