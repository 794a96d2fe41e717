package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("unit", id.String())
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists units with pagination
func (r *GormUnitRepository) FindAll(ctx context.Context, filter billing.UnitFilter) ([]billing.Unit, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.UnitModel{})
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UnitModel
	err := query.
		Order(orderClause("units", page.OrderBy, defaultDir(page.OrderDir, "ASC"), UnitSortFields, "code")).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]billing.Unit, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// FindActive returns every active unit ordered by code
func (r *GormUnitRepository) FindActive(ctx context.Context) ([]billing.Unit, error) {
	var rows []models.UnitModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]billing.Unit, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, u *billing.Unit) error {
	model := models.UnitModelFromDomain(u)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewAlreadyExistsError("unit", "code", u.Code)
		}
		return err
	}
	return nil
}

// Ensure GormUnitRepository implements UnitRepository
var _ billing.UnitRepository = (*GormUnitRepository)(nil)
