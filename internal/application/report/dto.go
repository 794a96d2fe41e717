package report

import (
	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/report"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
)

// FinanceReportQuery holds the raw report filters. Periods are YYYY-MM.
// Owner is honoured for administrators only.
type FinanceReportQuery struct {
	From    string
	To      string
	OwnerID *uuid.UUID
}

// TotalsResponse is a set of report figures
type TotalsResponse struct {
	Issued      valueobject.Money `json:"issued"`
	Paid        valueobject.Money `json:"paid"`
	Outstanding valueobject.Money `json:"outstanding"`
	Count       int64             `json:"count"`
}

// PeriodTotalsResponse is one by-period row
type PeriodTotalsResponse struct {
	Period string `json:"period"`
	TotalsResponse
}

// ExpenseTypeTotalsResponse is one by-type row
type ExpenseTypeTotalsResponse struct {
	ExpenseTypeID   uuid.UUID `json:"expense_type_id"`
	ExpenseTypeName string    `json:"expense_type"`
	TotalsResponse
}

// FinanceReportResponse is the finance report in API responses
type FinanceReportResponse struct {
	From     *string                     `json:"from,omitempty"`
	To       *string                     `json:"to,omitempty"`
	OwnerID  *uuid.UUID                  `json:"owner_id,omitempty"`
	Overall  TotalsResponse              `json:"overall"`
	ByPeriod []PeriodTotalsResponse      `json:"by_period"`
	ByType   []ExpenseTypeTotalsResponse `json:"by_type"`
}

func toTotalsResponse(t report.Totals) TotalsResponse {
	return TotalsResponse{
		Issued:      valueobject.MoneyOf(t.Issued),
		Paid:        valueobject.MoneyOf(t.Paid),
		Outstanding: valueobject.MoneyOf(t.Outstanding),
		Count:       t.Count,
	}
}

// ToFinanceReportResponse converts a domain FinanceReport
func ToFinanceReportResponse(rep *report.FinanceReport) FinanceReportResponse {
	resp := FinanceReportResponse{
		OwnerID:  rep.Filter.OwnerID,
		Overall:  toTotalsResponse(rep.Overall),
		ByPeriod: make([]PeriodTotalsResponse, len(rep.ByPeriod)),
		ByType:   make([]ExpenseTypeTotalsResponse, len(rep.ByType)),
	}
	if rep.Filter.From != nil {
		from := rep.Filter.From.String()
		resp.From = &from
	}
	if rep.Filter.To != nil {
		to := rep.Filter.To.String()
		resp.To = &to
	}
	for i, row := range rep.ByPeriod {
		resp.ByPeriod[i] = PeriodTotalsResponse{Period: row.Period, TotalsResponse: toTotalsResponse(row.Totals)}
	}
	for i, row := range rep.ByType {
		resp.ByType[i] = ExpenseTypeTotalsResponse{
			ExpenseTypeID:   row.ExpenseTypeID,
			ExpenseTypeName: row.ExpenseTypeName,
			TotalsResponse:  toTotalsResponse(row.Totals),
		}
	}
	return resp
}
