package report

import "context"

// FinanceReportRepository computes ledger rollups. The filter passed in
// has already been scoped to what the caller may see.
type FinanceReportRepository interface {
	GetFinanceReport(ctx context.Context, filter Filter) (*FinanceReport, error)
}
