package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ReconciliationService journals payments and keeps fee status in step
// with the cumulative paid total
type ReconciliationService struct {
	txScope        TransactionScope
	feeRepo        billing.FeeRepository
	unitRepo       billing.UnitRepository
	paymentRepo    billing.PaymentRepository
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	eventPublisher shared.EventPublisher
	metrics        *telemetry.Metrics
	logger         *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	txScope TransactionScope,
	feeRepo billing.FeeRepository,
	unitRepo billing.UnitRepository,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		txScope:        txScope,
		feeRepo:        feeRepo,
		unitRepo:       unitRepo,
		paymentRepo:    paymentRepo,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
		logger:         logger,
	}
}

// SetIdempotencyStore enables Idempotency-Key checks on payments
func (s *ReconciliationService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReconciliationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the operation metrics recorder
func (s *ReconciliationService) SetMetrics(metrics *telemetry.Metrics) {
	s.metrics = metrics
}

// RegisterPayment appends a payment and recomputes the fee's status
// while holding the fee row lock, so concurrent payments on one fee
// never derive status from a stale total.
func (s *ReconciliationService) RegisterPayment(ctx context.Context, caller identity.Caller, cmd RegisterPaymentCommand) (*FeeBalanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "register_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFeeID, cmd.FeeID.String(),
		telemetry.SpanAttrAmount, cmd.Amount.String(),
		telemetry.SpanAttrCallerID, caller.UserID.String(),
	)
	start := time.Now()

	balance, err := s.registerPayment(ctx, caller, cmd)
	s.metrics.ObserveOperation("register_payment", err, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrStatus, string(balance.Status))
	logger.L(ctx, s.logger).Info("Payment registered",
		zap.String("fee_id", balance.FeeID.String()),
		zap.String("amount", cmd.Amount.String()),
		zap.String("paid", balance.Paid.String()),
		zap.String("status", string(balance.Status)),
	)
	return ToFeeBalanceResponse(balance), nil
}

func (s *ReconciliationService) registerPayment(ctx context.Context, caller identity.Caller, cmd RegisterPaymentCommand) (billing.FeeBalance, error) {
	if err := caller.RequireAdmin(); err != nil {
		return billing.FeeBalance{}, err
	}

	payment, err := billing.NewPayment(cmd.FeeID, cmd.Amount, cmd.Method, cmd.Note, caller.UserRef())
	if err != nil {
		return billing.FeeBalance{}, err
	}

	key, err := s.claimIdempotencyKey(ctx, cmd.IdempotencyKey)
	if err != nil {
		return billing.FeeBalance{}, err
	}

	var balance billing.FeeBalance
	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		fee, err := repos.FeeRepo().FindByIDForUpdate(ctx, cmd.FeeID)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Append(ctx, payment); err != nil {
			return fmt.Errorf("failed to append payment: %w", err)
		}
		paid, err := repos.PaymentRepo().SumByFee(ctx, fee.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		changed, err := fee.ApplyPaidTotal(paid)
		if err != nil {
			return err
		}
		if changed {
			if err := repos.FeeRepo().Update(ctx, fee); err != nil {
				return fmt.Errorf("failed to update fee status: %w", err)
			}
		}

		balance = fee.Balance(paid)
		events = append([]shared.DomainEvent{billing.NewPaymentRegisteredEvent(payment)}, fee.GetDomainEvents()...)
		return nil
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, key)
		return billing.FeeBalance{}, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			logger.L(ctx, s.logger).Warn("Failed to publish payment events", zap.Error(err))
		}
	}
	return balance, nil
}

// claimIdempotencyKey marks the key processed. An empty key, or no
// store, skips the check and returns "".
func (s *ReconciliationService) claimIdempotencyKey(ctx context.Context, raw string) (string, error) {
	if raw == "" || s.idempotency == nil || !s.idempotencyCfg.Enabled {
		return "", nil
	}
	key := s.idempotencyCfg.KeyPrefix + ":" + raw
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyCfg.TTL)
	if err != nil {
		return "", fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if !fresh {
		return "", shared.ErrDuplicateRequest
	}
	return key, nil
}

// releaseIdempotencyKey frees a key after a rolled back payment so the
// client may retry with it
func (s *ReconciliationService) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Release(ctx, key); err != nil {
		logger.L(ctx, s.logger).Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// GetBalance returns the reconciliation view of a fee without locking.
// Owners only see fees on their own units; other fees are not found.
func (s *ReconciliationService) GetBalance(ctx context.Context, caller identity.Caller, feeID uuid.UUID) (*FeeBalanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "get_balance")
	defer span.End()

	fee, err := loadVisibleFee(ctx, s.feeRepo, s.unitRepo, caller, feeID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	paid, err := s.paymentRepo.SumByFee(ctx, fee.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	return ToFeeBalanceResponse(fee.Balance(paid)), nil
}

// loadVisibleFee loads a fee the caller may see. Fees on units the
// caller does not own are reported as not found.
func loadVisibleFee(
	ctx context.Context,
	feeRepo billing.FeeRepository,
	unitRepo billing.UnitRepository,
	caller identity.Caller,
	feeID uuid.UUID,
) (*billing.Fee, error) {
	fee, err := feeRepo.FindByID(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() {
		return fee, nil
	}
	unit, err := unitRepo.FindByID(ctx, fee.UnitID)
	if err != nil {
		return nil, err
	}
	if !unit.IsOwnedBy(caller.UserID) {
		return nil, shared.NewNotFoundError("fee", feeID.String())
	}
	return fee, nil
}
