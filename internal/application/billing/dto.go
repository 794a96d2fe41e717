package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// IssueFeesCommand asks for one period's fees to be issued.
// A nil Amount uses each type's default amount.
type IssueFeesCommand struct {
	Period        string
	ExpenseTypeID *uuid.UUID
	Amount        *decimal.Decimal
	DueDate       *time.Time
}

// IssueFeesResult counts what an issuance run did
type IssueFeesResult struct {
	Created   int    `json:"created"`
	Corrected int    `json:"corrected"`
	Skipped   int    `json:"skipped"`
	Period    string `json:"period"`
}

// RegisterPaymentCommand applies money to a fee
type RegisterPaymentCommand struct {
	FeeID          uuid.UUID
	Amount         decimal.Decimal
	Method         string
	Note           string
	IdempotencyKey string
}

// FeeBalanceResponse is the reconciliation view of a fee
type FeeBalanceResponse struct {
	FeeID       uuid.UUID         `json:"fee_id"`
	Period      string            `json:"period"`
	Amount      valueobject.Money `json:"amount"`
	Paid        valueobject.Money `json:"paid"`
	Outstanding valueobject.Money `json:"outstanding"`
	Status      billing.FeeStatus `json:"status"`
}

// ToFeeBalanceResponse converts a domain balance
func ToFeeBalanceResponse(b billing.FeeBalance) *FeeBalanceResponse {
	return &FeeBalanceResponse{
		FeeID:       b.FeeID,
		Period:      b.Period,
		Amount:      valueobject.MoneyOf(b.Amount),
		Paid:        valueobject.MoneyOf(b.Paid),
		Outstanding: valueobject.MoneyOf(b.Outstanding),
		Status:      b.Status,
	}
}

// ListFeesQuery filters a fee listing. Mine restricts an admin to
// their own units; non-admins are always restricted.
type ListFeesQuery struct {
	Mine          bool
	Period        string
	ExpenseTypeID *uuid.UUID
	UnitID        *uuid.UUID
	Status        string
	Page          int
	PageSize      int
	OrderBy       string
	OrderDir      string
}

// FeeResponse is a fee row in listings
type FeeResponse struct {
	ID              uuid.UUID         `json:"id"`
	UnitID          uuid.UUID         `json:"unit_id"`
	UnitCode        string            `json:"unit_code,omitempty"`
	ExpenseTypeID   uuid.UUID         `json:"expense_type_id"`
	ExpenseTypeName string            `json:"expense_type,omitempty"`
	Period          string            `json:"period"`
	Amount          valueobject.Money `json:"amount"`
	Paid            valueobject.Money `json:"paid"`
	Outstanding     valueobject.Money `json:"outstanding"`
	Status          billing.FeeStatus `json:"status"`
	IssuedAt        time.Time         `json:"issued_at"`
	DueDate         *string           `json:"due_date,omitempty"`
}

// ToFeeResponse converts a listing row
func ToFeeResponse(item billing.FeeListItem) FeeResponse {
	resp := newFeeResponse(&item.Fee, item.Paid)
	resp.UnitCode = item.UnitCode
	resp.ExpenseTypeName = item.ExpenseTypeName
	return resp
}

func newFeeResponse(f *billing.Fee, paid decimal.Decimal) FeeResponse {
	resp := FeeResponse{
		ID:            f.ID,
		UnitID:        f.UnitID,
		ExpenseTypeID: f.ExpenseTypeID,
		Period:        f.Period.String(),
		Amount:        valueobject.MoneyOf(f.Amount),
		Paid:          valueobject.MoneyOf(paid),
		Outstanding:   valueobject.MoneyOf(f.Amount.Sub(paid)),
		Status:        f.Status,
		IssuedAt:      f.IssuedAt,
	}
	if f.DueDate != nil {
		due := f.DueDate.Format(time.DateOnly)
		resp.DueDate = &due
	}
	return resp
}

// PaymentResponse is a journal entry
type PaymentResponse struct {
	ID         uuid.UUID         `json:"id"`
	Amount     valueobject.Money `json:"amount"`
	PaidAt     time.Time         `json:"paid_at"`
	Method     string            `json:"method"`
	Note       string            `json:"note"`
	RecordedBy *uuid.UUID        `json:"recorded_by,omitempty"`
}

// FeeDetailResponse is a fee with its payment history
type FeeDetailResponse struct {
	FeeResponse
	Payments []PaymentResponse `json:"payments"`
}

// ToFeeDetailResponse converts a fee and its payments
func ToFeeDetailResponse(f *billing.Fee, payments []billing.Payment) *FeeDetailResponse {
	paid := decimal.Zero
	items := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		paid = paid.Add(p.Amount)
		items[i] = PaymentResponse{
			ID:         p.ID,
			Amount:     valueobject.MoneyOf(p.Amount),
			PaidAt:     p.PaidAt,
			Method:     p.Method,
			Note:       p.Note,
			RecordedBy: p.RecordedBy,
		}
	}
	return &FeeDetailResponse{
		FeeResponse: newFeeResponse(f, paid),
		Payments:    items,
	}
}

// MarkOverdueResult reports a sweep
type MarkOverdueResult struct {
	AsOf    string `json:"as_of"`
	Updated int64  `json:"updated"`
}
