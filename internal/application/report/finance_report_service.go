// Package report serves ledger rollups and their file exports.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/report"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/export"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// FinanceReportService computes issued, paid and outstanding totals.
// Owners only ever see figures for their own units.
type FinanceReportService struct {
	repo     report.FinanceReportRepository
	exporter *export.FinanceReportExporter
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// NewFinanceReportService creates a new FinanceReportService
func NewFinanceReportService(repo report.FinanceReportRepository, exporter *export.FinanceReportExporter, logger *zap.Logger) *FinanceReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewFinanceReportExporter()
	}
	return &FinanceReportService{repo: repo, exporter: exporter, logger: logger}
}

// SetMetrics sets the operation metrics recorder
func (s *FinanceReportService) SetMetrics(metrics *telemetry.Metrics) {
	s.metrics = metrics
}

// GetFinanceReport returns the rollup for the caller-visible fee set
func (s *FinanceReportService) GetFinanceReport(ctx context.Context, caller identity.Caller, query FinanceReportQuery) (*FinanceReportResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "finance_report")
	defer span.End()
	start := time.Now()

	rep, err := s.load(ctx, caller, query)
	s.metrics.ObserveOperation("finance_report", err, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToFinanceReportResponse(rep)
	return &resp, nil
}

// Export renders the same report as an xlsx or pdf file
func (s *FinanceReportService) Export(ctx context.Context, caller identity.Caller, query FinanceReportQuery, format string) (*export.File, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export_finance_report")
	defer span.End()

	f, ok := export.ParseFormat(format)
	if !ok {
		return nil, shared.NewValidationError("format", "format must be xlsx or pdf")
	}

	rep, err := s.load(ctx, caller, query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	file, err := s.exporter.Export(rep, f)
	s.metrics.ObserveExport(string(f), err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Finance report exported",
		zap.String("format", string(f)),
		zap.String("file", file.Name),
		zap.Int("bytes", len(file.Data)),
	)
	return file, nil
}

func (s *FinanceReportService) load(ctx context.Context, caller identity.Caller, query FinanceReportQuery) (*report.FinanceReport, error) {
	filter, err := buildFilter(caller, query)
	if err != nil {
		return nil, err
	}
	rep, err := s.repo.GetFinanceReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute finance report: %w", err)
	}
	return rep, nil
}

func buildFilter(caller identity.Caller, query FinanceReportQuery) (report.Filter, error) {
	filter := report.Filter{OwnerID: caller.VisibleOwner(query.OwnerID)}
	if query.From != "" {
		from, err := valueobject.ParsePeriod(query.From)
		if err != nil {
			return filter, shared.NewValidationError("from", err.Error())
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := valueobject.ParsePeriod(query.To)
		if err != nil {
			return filter, shared.NewValidationError("to", err.Error())
		}
		filter.To = &to
	}
	return filter, filter.Validate()
}
