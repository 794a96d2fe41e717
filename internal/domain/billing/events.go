package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the ledger
const (
	EventTypeFeeIssued          = "FeeIssued"
	EventTypeFeeAmountCorrected = "FeeAmountCorrected"
	EventTypeFeePaid            = "FeePaid"
	EventTypePaymentRegistered  = "PaymentRegistered"
	EventTypeFeesMarkedOverdue  = "FeesMarkedOverdue"
)

// FeeIssuedEvent is raised when issuance creates a new fee
type FeeIssuedEvent struct {
	shared.BaseDomainEvent
	FeeID         uuid.UUID       `json:"fee_id"`
	UnitID        uuid.UUID       `json:"unit_id"`
	ExpenseTypeID uuid.UUID       `json:"expense_type_id"`
	Period        string          `json:"period"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewFeeIssuedEvent creates a new FeeIssuedEvent
func NewFeeIssuedEvent(f *Fee) *FeeIssuedEvent {
	return &FeeIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeIssued, AggregateTypeFee, f.ID),
		FeeID:           f.ID,
		UnitID:          f.UnitID,
		ExpenseTypeID:   f.ExpenseTypeID,
		Period:          f.Period.String(),
		Amount:          f.Amount,
	}
}

// FeeAmountCorrectedEvent is raised when re-issuance changes an amount
type FeeAmountCorrectedEvent struct {
	shared.BaseDomainEvent
	FeeID          uuid.UUID       `json:"fee_id"`
	Period         string          `json:"period"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewFeeAmountCorrectedEvent creates a new FeeAmountCorrectedEvent
func NewFeeAmountCorrectedEvent(f *Fee, previous decimal.Decimal) *FeeAmountCorrectedEvent {
	return &FeeAmountCorrectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeAmountCorrected, AggregateTypeFee, f.ID),
		FeeID:           f.ID,
		Period:          f.Period.String(),
		PreviousAmount:  previous,
		Amount:          f.Amount,
	}
}

// FeePaidEvent is raised when cumulative payments cover a fee
type FeePaidEvent struct {
	shared.BaseDomainEvent
	FeeID  uuid.UUID       `json:"fee_id"`
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
	Paid   decimal.Decimal `json:"paid"`
}

// NewFeePaidEvent creates a new FeePaidEvent
func NewFeePaidEvent(f *Fee, paid decimal.Decimal) *FeePaidEvent {
	return &FeePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeePaid, AggregateTypeFee, f.ID),
		FeeID:           f.ID,
		Period:          f.Period.String(),
		Amount:          f.Amount,
		Paid:            paid,
	}
}

// PaymentRegisteredEvent is raised for every journaled payment
type PaymentRegisteredEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	FeeID      uuid.UUID       `json:"fee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	RecordedBy *uuid.UUID      `json:"recorded_by,omitempty"`
}

// NewPaymentRegisteredEvent creates a new PaymentRegisteredEvent
func NewPaymentRegisteredEvent(p *Payment) *PaymentRegisteredEvent {
	return &PaymentRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRegistered, AggregateTypeFee, p.FeeID),
		PaymentID:       p.ID,
		FeeID:           p.FeeID,
		Amount:          p.Amount,
		Method:          p.Method,
		RecordedBy:      p.RecordedBy,
	}
}

// FeesMarkedOverdueEvent summarises one overdue sweep
type FeesMarkedOverdueEvent struct {
	shared.BaseDomainEvent
	AsOf    time.Time `json:"as_of"`
	Updated int64     `json:"updated"`
}

// NewFeesMarkedOverdueEvent creates a new FeesMarkedOverdueEvent
func NewFeesMarkedOverdueEvent(asOf time.Time, updated int64) *FeesMarkedOverdueEvent {
	return &FeesMarkedOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeesMarkedOverdue, AggregateTypeFee, uuid.Nil),
		AsOf:            asOf,
		Updated:         updated,
	}
}
