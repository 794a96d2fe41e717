package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
)

// FeeQueryService serves fee listings and details
type FeeQueryService struct {
	feeRepo     billing.FeeRepository
	unitRepo    billing.UnitRepository
	paymentRepo billing.PaymentRepository
}

// NewFeeQueryService creates a new FeeQueryService
func NewFeeQueryService(
	feeRepo billing.FeeRepository,
	unitRepo billing.UnitRepository,
	paymentRepo billing.PaymentRepository,
) *FeeQueryService {
	return &FeeQueryService{
		feeRepo:     feeRepo,
		unitRepo:    unitRepo,
		paymentRepo: paymentRepo,
	}
}

// ListFees returns a page of fees the caller may see, newest first
func (s *FeeQueryService) ListFees(ctx context.Context, caller identity.Caller, query ListFeesQuery) (*shared.Paginated[FeeResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "list_fees")
	defer span.End()

	filter, err := s.buildFilter(caller, query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items, total, err := s.feeRepo.FindAll(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}

	responses := make([]FeeResponse, len(items))
	for i := range items {
		responses[i] = ToFeeResponse(items[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *FeeQueryService) buildFilter(caller identity.Caller, query ListFeesQuery) (billing.FeeFilter, error) {
	filter := billing.FeeFilter{
		Filter: shared.Filter{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  query.OrderBy,
			OrderDir: query.OrderDir,
		}.Normalize(),
		ExpenseTypeID: query.ExpenseTypeID,
		UnitID:        query.UnitID,
	}

	switch {
	case !caller.IsAdmin():
		filter.OwnerID = caller.VisibleOwner(nil)
	case query.Mine:
		filter.OwnerID = caller.UserRef()
	}

	if query.Period != "" {
		period, err := valueobject.ParsePeriod(query.Period)
		if err != nil {
			return filter, shared.NewValidationError("period", err.Error())
		}
		filter.Period = &period
	}
	if query.Status != "" {
		status, ok := billing.ParseFeeStatus(strings.ToUpper(query.Status))
		if !ok {
			return filter, shared.NewValidationError("status", "status must be one of ISSUED, PAID, OVERDUE")
		}
		filter.Status = &status
	}
	return filter, nil
}

// GetFee returns a fee with its payments
func (s *FeeQueryService) GetFee(ctx context.Context, caller identity.Caller, id uuid.UUID) (*FeeDetailResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "get_fee")
	defer span.End()

	fee, err := loadVisibleFee(ctx, s.feeRepo, s.unitRepo, caller, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	payments, err := s.paymentRepo.FindByFee(ctx, fee.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return ToFeeDetailResponse(fee, payments), nil
}
