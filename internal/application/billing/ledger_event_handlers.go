package billing

import (
	"context"

	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ledgerEventTypes are the events raised by issuance, reconciliation
// and the overdue sweep
var ledgerEventTypes = []string{
	billing.EventTypeFeeIssued,
	billing.EventTypeFeeAmountCorrected,
	billing.EventTypeFeePaid,
	billing.EventTypePaymentRegistered,
	billing.EventTypeFeesMarkedOverdue,
}

// LedgerMetricsHandler turns committed ledger events into Prometheus counters
type LedgerMetricsHandler struct {
	metrics *telemetry.Metrics
}

// NewLedgerMetricsHandler creates a new LedgerMetricsHandler
func NewLedgerMetricsHandler(metrics *telemetry.Metrics) *LedgerMetricsHandler {
	return &LedgerMetricsHandler{metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *LedgerMetricsHandler) EventTypes() []string {
	return ledgerEventTypes
}

// Handle updates the counter matching the event
func (h *LedgerMetricsHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.FeeIssuedEvent:
		h.metrics.AddFeesIssued(1)
	case *billing.FeeAmountCorrectedEvent:
		h.metrics.IncFeeCorrected()
	case *billing.FeePaidEvent:
		h.metrics.IncFeePaid()
	case *billing.PaymentRegisteredEvent:
		h.metrics.ObservePayment(e.Method, e.Amount.InexactFloat64())
	case *billing.FeesMarkedOverdueEvent:
		h.metrics.AddFeesMarkedOverdue(e.Updated)
	}
	return nil
}

// LedgerAuditHandler writes one structured log line per ledger event
type LedgerAuditHandler struct {
	logger *zap.Logger
}

// NewLedgerAuditHandler creates a new LedgerAuditHandler
func NewLedgerAuditHandler(logger *zap.Logger) *LedgerAuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LedgerAuditHandler) EventTypes() []string {
	return ledgerEventTypes
}

// Handle logs the event with its business fields
func (h *LedgerAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *billing.FeeIssuedEvent:
		fields = append(fields,
			zap.String("fee_id", e.FeeID.String()),
			zap.String("unit_id", e.UnitID.String()),
			zap.String("expense_type_id", e.ExpenseTypeID.String()),
			zap.String("period", e.Period),
			zap.String("amount", e.Amount.StringFixed(2)),
		)
	case *billing.FeeAmountCorrectedEvent:
		fields = append(fields,
			zap.String("fee_id", e.FeeID.String()),
			zap.String("period", e.Period),
			zap.String("previous_amount", e.PreviousAmount.StringFixed(2)),
			zap.String("amount", e.Amount.StringFixed(2)),
		)
	case *billing.FeePaidEvent:
		fields = append(fields,
			zap.String("fee_id", e.FeeID.String()),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.String("paid", e.Paid.StringFixed(2)),
		)
	case *billing.PaymentRegisteredEvent:
		fields = append(fields,
			zap.String("payment_id", e.PaymentID.String()),
			zap.String("fee_id", e.FeeID.String()),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.String("method", e.Method),
		)
		if e.RecordedBy != nil {
			fields = append(fields, zap.String("recorded_by", e.RecordedBy.String()))
		}
	case *billing.FeesMarkedOverdueEvent:
		fields = append(fields,
			zap.Time("as_of", e.AsOf),
			zap.Int64("updated", e.Updated),
		)
	}

	logger.L(ctx, h.logger).Named("audit").Info("Ledger event", fields...)
	return nil
}

// Ensure handlers implement EventHandler
var (
	_ shared.EventHandler = (*LedgerMetricsHandler)(nil)
	_ shared.EventHandler = (*LedgerAuditHandler)(nil)
)
