package billing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	// DefaultPaymentMethod is used when no method is supplied
	DefaultPaymentMethod = "cash"

	maxPaymentMethodLength = 30
)

// Payment is money applied to a fee. Payments are append-only.
type Payment struct {
	shared.BaseEntity
	FeeID      uuid.UUID
	Amount     decimal.Decimal
	PaidAt     time.Time
	Method     string
	Note       string
	RecordedBy *uuid.UUID
}

// NewPayment validates and builds a journal entry for a fee
func NewPayment(feeID uuid.UUID, amount decimal.Decimal, method, note string, recordedBy *uuid.UUID) (*Payment, error) {
	if feeID == uuid.Nil {
		return nil, shared.NewValidationError("fee_id", "fee is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("amount", "amount must be greater than zero")
	}
	if _, err := valueobject.NewMoney(amount); err != nil {
		return nil, shared.NewValidationError("amount", err.Error())
	}

	method = strings.TrimSpace(method)
	if method == "" {
		method = DefaultPaymentMethod
	}
	if utf8.RuneCountInString(method) > maxPaymentMethodLength {
		return nil, shared.NewValidationError("method", "method must be at most 30 characters")
	}

	base := shared.NewBaseEntity()
	return &Payment{
		BaseEntity: base,
		FeeID:      feeID,
		Amount:     amount,
		PaidAt:     base.CreatedAt,
		Method:     method,
		Note:       strings.TrimSpace(note),
		RecordedBy: recordedBy,
	}, nil
}
