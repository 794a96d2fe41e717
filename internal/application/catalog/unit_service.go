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

// UnitService manages the unit registry. Owners only see their own units.
type UnitService struct {
	repo   billing.UnitRepository
	logger *zap.Logger
}

// NewUnitService creates a new UnitService
func NewUnitService(repo billing.UnitRepository, logger *zap.Logger) *UnitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{repo: repo, logger: logger}
}

// Create registers an active unit
func (s *UnitService) Create(ctx context.Context, caller identity.Caller, req CreateUnitRequest) (*UnitResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "create_unit")
	defer span.End()

	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	unit, err := billing.NewUnit(req.Code, req.Tower, req.Number, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, unit); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Unit created",
		zap.String("unit_id", unit.ID.String()),
		zap.String("code", unit.Code),
	)
	resp := ToUnitResponse(unit)
	return &resp, nil
}

// Get returns one unit. Units owned by someone else are not found.
func (s *UnitService) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*UnitResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !unit.IsOwnedBy(caller.UserID) {
		return nil, shared.NewNotFoundError("unit", id.String())
	}
	resp := ToUnitResponse(unit)
	return &resp, nil
}

// List returns a page of units the caller may see
func (s *UnitService) List(ctx context.Context, caller identity.Caller, filter UnitListFilter) (*shared.Paginated[UnitResponse], error) {
	domainFilter := billing.UnitFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		OwnerID: caller.VisibleOwner(filter.OwnerID),
		Active:  filter.Active,
	}

	items, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]UnitResponse, len(items))
	for i := range items {
		responses[i] = ToUnitResponse(&items[i])
	}
	page := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update changes location, owner or active flag
func (s *UnitService) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "update_unit")
	defer span.End()

	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Tower != nil || req.Number != nil {
		tower, number := unit.Tower, unit.Number
		if req.Tower != nil {
			tower = *req.Tower
		}
		if req.Number != nil {
			number = *req.Number
		}
		if err := unit.SetLocation(tower, number); err != nil {
			return nil, err
		}
	}
	if req.OwnerID != nil {
		unit.AssignOwner(req.OwnerID)
	}
	if req.Active != nil {
		if *req.Active {
			unit.Activate()
		} else {
			unit.Deactivate()
		}
	}
	unit.MarkChanged()

	if err := s.repo.Save(ctx, unit); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToUnitResponse(unit)
	return &resp, nil
}
