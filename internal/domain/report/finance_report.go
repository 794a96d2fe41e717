// Package report contains read models computed over the ledger.
package report

import (
	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Filter scopes a finance report. Nil fields are unrestricted.
type Filter struct {
	From    *valueobject.Period
	To      *valueobject.Period
	OwnerID *uuid.UUID
}

// Validate checks the period range
func (f Filter) Validate() error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return shared.NewValidationError("to", "to must not be earlier than from")
	}
	return nil
}

// Totals are the figures shared by every level of the report.
// Outstanding is issued minus paid and may be negative on overpayment.
type Totals struct {
	Issued      decimal.Decimal `json:"issued"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Count       int64           `json:"count"`
}

// NewTotals derives outstanding from issued and paid
func NewTotals(issued, paid decimal.Decimal, count int64) Totals {
	return Totals{
		Issued:      issued,
		Paid:        paid,
		Outstanding: issued.Sub(paid),
		Count:       count,
	}
}

// PeriodTotals is one row of the by-period breakdown
type PeriodTotals struct {
	Period string `json:"period"`
	Totals
}

// ExpenseTypeTotals is one row of the by-type breakdown
type ExpenseTypeTotals struct {
	ExpenseTypeID   uuid.UUID `json:"expense_type_id"`
	ExpenseTypeName string    `json:"expense_type"`
	Totals
}

// FinanceReport is the issued/paid/outstanding rollup over a fee set
type FinanceReport struct {
	Filter   Filter              `json:"-"`
	Overall  Totals              `json:"overall"`
	ByPeriod []PeriodTotals      `json:"by_period"`
	ByType   []ExpenseTypeTotals `json:"by_type"`
}

// IssuedRow is a raw fee aggregate keyed by period or type
type IssuedRow struct {
	Key    string
	Name   string
	Issued decimal.Decimal
	Count  int64
}

// PaidRow is a raw payment aggregate keyed by period or type
type PaidRow struct {
	Key  string
	Paid decimal.Decimal
}

// MergeRows joins fee and payment aggregates on their key. Keys present
// only in paid rows cannot occur because payments belong to fees in
// the same filtered set, so issued rows drive the output order.
func MergeRows(issued []IssuedRow, paid []PaidRow) []MergedRow {
	paidByKey := make(map[string]decimal.Decimal, len(paid))
	for _, p := range paid {
		paidByKey[p.Key] = paidByKey[p.Key].Add(p.Paid)
	}
	out := make([]MergedRow, 0, len(issued))
	for _, row := range issued {
		out = append(out, MergedRow{
			Key:    row.Key,
			Name:   row.Name,
			Totals: NewTotals(row.Issued, paidByKey[row.Key], row.Count),
		})
	}
	return out
}

// MergedRow is an issued row with its paid figure attached
type MergedRow struct {
	Key  string
	Name string
	Totals
}

// NewFinanceReport assembles the report from merged breakdown rows.
// Every filtered fee belongs to exactly one period, so the overall
// figures are the sum of the by-period rows.
func NewFinanceReport(filter Filter, byPeriod, byType []MergedRow) *FinanceReport {
	rep := &FinanceReport{
		Filter:   filter,
		ByPeriod: make([]PeriodTotals, 0, len(byPeriod)),
		ByType:   make([]ExpenseTypeTotals, 0, len(byType)),
	}

	issued, paid := decimal.Zero, decimal.Zero
	var count int64
	for _, row := range byPeriod {
		rep.ByPeriod = append(rep.ByPeriod, PeriodTotals{Period: row.Key, Totals: row.Totals})
		issued = issued.Add(row.Issued)
		paid = paid.Add(row.Paid)
		count += row.Count
	}
	rep.Overall = NewTotals(issued, paid, count)

	for _, row := range byType {
		// keys come from uuid columns
		id, _ := uuid.Parse(row.Key)
		rep.ByType = append(rep.ByType, ExpenseTypeTotals{
			ExpenseTypeID:   id,
			ExpenseTypeName: row.Name,
			Totals:          row.Totals,
		})
	}
	return rep
}
