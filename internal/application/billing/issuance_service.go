package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IssuanceService generates one period's fees for every active unit
// and expense type
type IssuanceService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        *telemetry.Metrics
	logger         *zap.Logger
	defaultDueDay  int
}

// NewIssuanceService creates a new IssuanceService
func NewIssuanceService(txScope TransactionScope, logger *zap.Logger) *IssuanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssuanceService{
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *IssuanceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the operation metrics recorder
func (s *IssuanceService) SetMetrics(metrics *telemetry.Metrics) {
	s.metrics = metrics
}

// SetDefaultDueDay sets the day of the following month used as due
// date when a command carries none. Zero leaves fees without due date.
func (s *IssuanceService) SetDefaultDueDay(day int) {
	s.defaultDueDay = day
}

// issueOutcome is what happened to one (unit, type) pair
type issueOutcome int

const (
	outcomeUnchanged issueOutcome = iota
	outcomeCreated
	outcomeCorrected
	outcomeSkipped
)

// IssueFees issues the period's fees inside one transaction. Existing
// fees are left alone unless an override amount differs from theirs,
// in which case the amount is corrected when no payment exists yet.
func (s *IssuanceService) IssueFees(ctx context.Context, caller identity.Caller, cmd IssueFeesCommand) (*IssueFeesResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "issue_fees")
	defer span.End()
	start := time.Now()

	result, err := s.issueFees(ctx, caller, cmd)
	s.metrics.ObserveOperation("issue_fees", err, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPeriod, result.Period,
		telemetry.SpanAttrCreated, result.Created,
	)
	logger.L(ctx, s.logger).Info("Fees issued",
		zap.String("period", result.Period),
		zap.Int("created", result.Created),
		zap.Int("corrected", result.Corrected),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *IssuanceService) issueFees(ctx context.Context, caller identity.Caller, cmd IssueFeesCommand) (*IssueFeesResult, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	period, err := valueobject.ParsePeriod(cmd.Period)
	if err != nil {
		return nil, shared.NewValidationError("period", err.Error())
	}
	if cmd.Amount != nil {
		if !cmd.Amount.IsPositive() {
			return nil, shared.NewValidationError("amount", "amount must be greater than zero")
		}
		if _, err := valueobject.NewMoney(*cmd.Amount); err != nil {
			return nil, shared.NewValidationError("amount", err.Error())
		}
	}

	dueDate := cmd.DueDate
	if dueDate == nil && s.defaultDueDay > 0 {
		due := period.Next().DayOf(s.defaultDueDay)
		dueDate = &due
	}

	result := &IssueFeesResult{Period: period.String()}
	var events []shared.DomainEvent

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// reset in case the scope retries the function
		*result = IssueFeesResult{Period: period.String()}
		events = events[:0]

		types, err := repos.ExpenseTypeRepo().FindActive(ctx, cmd.ExpenseTypeID)
		if err != nil {
			return fmt.Errorf("failed to load expense types: %w", err)
		}
		units, err := repos.UnitRepo().FindActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to load units: %w", err)
		}

		for i := range units {
			for j := range types {
				outcome, pairEvents, err := s.issueOne(ctx, repos, units[i].ID, &types[j], period, cmd.Amount, dueDate)
				if err != nil {
					return err
				}
				events = append(events, pairEvents...)
				switch outcome {
				case outcomeCreated:
					result.Created++
				case outcomeCorrected:
					result.Corrected++
				case outcomeSkipped:
					result.Skipped++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return result, nil
}

// issueOne inserts the fee for one pair or reconciles an existing one
func (s *IssuanceService) issueOne(
	ctx context.Context,
	repos TransactionalRepositories,
	unitID uuid.UUID,
	et *billing.ExpenseType,
	period valueobject.Period,
	override *decimal.Decimal,
	dueDate *time.Time,
) (issueOutcome, []shared.DomainEvent, error) {
	amount := et.DefaultAmount
	if override != nil {
		amount = *override
	}

	fee, err := billing.NewFee(unitID, et.ID, period, amount, dueDate)
	if err != nil {
		return outcomeUnchanged, nil, err
	}

	inserted, err := repos.FeeRepo().InsertIfAbsent(ctx, fee)
	if err != nil {
		return outcomeUnchanged, nil, fmt.Errorf("failed to insert fee: %w", err)
	}
	if inserted {
		return outcomeCreated, fee.GetDomainEvents(), nil
	}
	if override == nil {
		return outcomeUnchanged, nil, nil
	}

	existing, err := repos.FeeRepo().FindByKey(ctx, fee.Key())
	if err != nil {
		return outcomeUnchanged, nil, fmt.Errorf("failed to load existing fee: %w", err)
	}
	if existing.Amount.Equal(*override) {
		return outcomeUnchanged, nil, nil
	}

	locked, err := repos.FeeRepo().FindByIDForUpdate(ctx, existing.ID)
	if err != nil {
		return outcomeUnchanged, nil, fmt.Errorf("failed to lock fee: %w", err)
	}
	hasPayments, err := repos.PaymentRepo().ExistsForFee(ctx, locked.ID)
	if err != nil {
		return outcomeUnchanged, nil, fmt.Errorf("failed to check payments: %w", err)
	}

	changed, err := locked.CorrectAmount(*override, hasPayments)
	if errors.Is(err, shared.ErrInvalidState) {
		return outcomeSkipped, nil, nil
	}
	if err != nil {
		return outcomeUnchanged, nil, err
	}
	if !changed {
		return outcomeUnchanged, nil, nil
	}
	if err := repos.FeeRepo().Update(ctx, locked); err != nil {
		return outcomeUnchanged, nil, fmt.Errorf("failed to correct fee: %w", err)
	}
	return outcomeCorrected, locked.GetDomainEvents(), nil
}

// publish hands committed events to the bus. Delivery failures are
// logged by the bus and never undo the write.
func (s *IssuanceService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx, s.logger).Warn("Failed to publish issuance events", zap.Error(err))
	}
}
