package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ExpenseTypeService manages the expense catalog. Reads are open to
// any authenticated caller; writes need an administrator.
type ExpenseTypeService struct {
	repo   billing.ExpenseTypeRepository
	logger *zap.Logger
}

// NewExpenseTypeService creates a new ExpenseTypeService
func NewExpenseTypeService(repo billing.ExpenseTypeRepository, logger *zap.Logger) *ExpenseTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseTypeService{repo: repo, logger: logger}
}

// Create adds an active expense type
func (s *ExpenseTypeService) Create(ctx context.Context, caller identity.Caller, req CreateExpenseTypeRequest) (*ExpenseTypeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "create_expense_type")
	defer span.End()

	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	et, err := billing.NewExpenseType(req.Name, req.DefaultAmount)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, et); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Expense type created",
		zap.String("expense_type_id", et.ID.String()),
		zap.String("name", et.Name),
	)
	resp := ToExpenseTypeResponse(et)
	return &resp, nil
}

// Get returns one expense type
func (s *ExpenseTypeService) Get(ctx context.Context, id uuid.UUID) (*ExpenseTypeResponse, error) {
	et, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseTypeResponse(et)
	return &resp, nil
}

// List returns a page of expense types
func (s *ExpenseTypeService) List(ctx context.Context, filter ExpenseTypeListFilter) (*shared.Paginated[ExpenseTypeResponse], error) {
	domainFilter := billing.ExpenseTypeFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		Active: filter.Active,
	}

	items, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]ExpenseTypeResponse, len(items))
	for i := range items {
		responses[i] = ToExpenseTypeResponse(&items[i])
	}
	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update changes name, default amount or active flag. Fees already
// issued keep their amounts.
func (s *ExpenseTypeService) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, req UpdateExpenseTypeRequest) (*ExpenseTypeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "update_expense_type")
	defer span.End()

	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	et, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := et.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.DefaultAmount != nil {
		if err := et.SetDefaultAmount(*req.DefaultAmount); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			et.Activate()
		} else {
			et.Deactivate()
		}
	}
	et.MarkChanged()

	if err := s.repo.Save(ctx, et); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToExpenseTypeResponse(et)
	return &resp, nil
}
