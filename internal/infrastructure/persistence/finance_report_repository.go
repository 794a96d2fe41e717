package persistence

import (
	"context"
	"fmt"

	"github.com/irenerossetti/condominio-backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormFinanceReportRepository implements FinanceReportRepository using GORM.
// Fee amounts and payment amounts are summed in separate statements so
// that joining payments never repeats a fee's amount.
type GormFinanceReportRepository struct {
	db *gorm.DB
}

// NewGormFinanceReportRepository creates a new GormFinanceReportRepository
func NewGormFinanceReportRepository(db *gorm.DB) *GormFinanceReportRepository {
	return &GormFinanceReportRepository{db: db}
}

// GetFinanceReport returns issued, paid and outstanding totals overall,
// by period and by expense type
func (r *GormFinanceReportRepository) GetFinanceReport(ctx context.Context, filter report.Filter) (*report.FinanceReport, error) {
	var issuedByPeriod []report.IssuedRow
	if err := r.feeScope(ctx, filter).
		Select("f.period AS key, COALESCE(SUM(f.amount), 0) AS issued, COUNT(*) AS count").
		Group("f.period").
		Order("f.period ASC").
		Scan(&issuedByPeriod).Error; err != nil {
		return nil, fmt.Errorf("issued by period: %w", err)
	}

	var paidByPeriod []report.PaidRow
	if err := r.paymentScope(ctx, filter).
		Select("f.period AS key, COALESCE(SUM(p.amount), 0) AS paid").
		Group("f.period").
		Scan(&paidByPeriod).Error; err != nil {
		return nil, fmt.Errorf("paid by period: %w", err)
	}

	var issuedByType []report.IssuedRow
	if err := r.feeScope(ctx, filter).
		Joins("JOIN expense_types et ON et.id = f.expense_type_id").
		Select("f.expense_type_id AS key, et.name AS name, COALESCE(SUM(f.amount), 0) AS issued, COUNT(*) AS count").
		Group("f.expense_type_id, et.name").
		Order("et.name ASC, f.expense_type_id ASC").
		Scan(&issuedByType).Error; err != nil {
		return nil, fmt.Errorf("issued by type: %w", err)
	}

	var paidByType []report.PaidRow
	if err := r.paymentScope(ctx, filter).
		Select("f.expense_type_id AS key, COALESCE(SUM(p.amount), 0) AS paid").
		Group("f.expense_type_id").
		Scan(&paidByType).Error; err != nil {
		return nil, fmt.Errorf("paid by type: %w", err)
	}

	return report.NewFinanceReport(
		filter,
		report.MergeRows(issuedByPeriod, paidByPeriod),
		report.MergeRows(issuedByType, paidByType),
	), nil
}

// feeScope selects the filtered fee set
func (r *GormFinanceReportRepository) feeScope(ctx context.Context, filter report.Filter) *gorm.DB {
	return applyReportFilter(r.db.WithContext(ctx).Table("fees f"), filter)
}

// paymentScope selects payments whose fee is in the filtered fee set
func (r *GormFinanceReportRepository) paymentScope(ctx context.Context, filter report.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("payments p").
		Joins("JOIN fees f ON f.id = p.fee_id")
	return applyReportFilter(query, filter)
}

func applyReportFilter(query *gorm.DB, filter report.Filter) *gorm.DB {
	if filter.OwnerID != nil {
		query = query.
			Joins("JOIN units u ON u.id = f.unit_id").
			Where("u.owner_id = ?", *filter.OwnerID)
	}
	if filter.From != nil {
		query = query.Where("f.period >= ?", filter.From.String())
	}
	if filter.To != nil {
		query = query.Where("f.period <= ?", filter.To.String())
	}
	return query
}

// Ensure GormFinanceReportRepository implements FinanceReportRepository
var _ report.FinanceReportRepository = (*GormFinanceReportRepository)(nil)
