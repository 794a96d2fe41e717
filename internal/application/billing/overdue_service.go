package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OverdueService flips unpaid fees past their due date to OVERDUE.
// It runs on demand; scheduling belongs to whoever invokes cmd/overdue.
type OverdueService struct {
	feeRepo        billing.FeeRepository
	eventPublisher shared.EventPublisher
	metrics        *telemetry.Metrics
	logger         *zap.Logger
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(feeRepo billing.FeeRepository, logger *zap.Logger) *OverdueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueService{feeRepo: feeRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OverdueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the operation metrics recorder
func (s *OverdueService) SetMetrics(metrics *telemetry.Metrics) {
	s.metrics = metrics
}

// MarkOverdue marks every ISSUED fee whose due date falls before the
// calendar day of asOf. A fee is still current on its due day, whatever
// the time of asOf. A zero asOf means today. Running it again changes nothing.
func (s *OverdueService) MarkOverdue(ctx context.Context, caller identity.Caller, asOf time.Time) (*MarkOverdueResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "mark_overdue")
	defer span.End()
	start := time.Now()

	if err := caller.RequireAdmin(); err != nil {
		s.metrics.ObserveOperation("mark_overdue", err, time.Since(start))
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = startOfDay(asOf)

	updated, err := s.feeRepo.MarkOverdue(ctx, asOf)
	s.metrics.ObserveOperation("mark_overdue", err, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to mark overdue fees: %w", err)
	}

	logger.L(ctx, s.logger).Info("Overdue sweep finished",
		zap.Time("as_of", asOf),
		zap.Int64("updated", updated),
	)
	if s.eventPublisher != nil && updated > 0 {
		if err := s.eventPublisher.Publish(ctx, billing.NewFeesMarkedOverdueEvent(asOf, updated)); err != nil {
			logger.L(ctx, s.logger).Warn("Failed to publish overdue event", zap.Error(err))
		}
	}

	return &MarkOverdueResult{
		AsOf:    asOf.Format(time.DateOnly),
		Updated: updated,
	}, nil
}

// startOfDay truncates t to midnight of its UTC calendar date
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
