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

// GormExpenseTypeRepository implements ExpenseTypeRepository using GORM
type GormExpenseTypeRepository struct {
	db *gorm.DB
}

// NewGormExpenseTypeRepository creates a new GormExpenseTypeRepository
func NewGormExpenseTypeRepository(db *gorm.DB) *GormExpenseTypeRepository {
	return &GormExpenseTypeRepository{db: db}
}

// FindByID finds an expense type by its ID
func (r *GormExpenseTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.ExpenseType, error) {
	var model models.ExpenseTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("expense type", id.String())
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists expense types with pagination
func (r *GormExpenseTypeRepository) FindAll(ctx context.Context, filter billing.ExpenseTypeFilter) ([]billing.ExpenseType, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ExpenseTypeModel{})
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ExpenseTypeModel
	err := query.
		Order(orderClause("expense_types", page.OrderBy, defaultDir(page.OrderDir, "ASC"), ExpenseTypeSortFields, "name")).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]billing.ExpenseType, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// FindActive returns active expense types ordered by name. A non-nil id
// narrows the result to that type; an unknown or inactive id yields none.
func (r *GormExpenseTypeRepository) FindActive(ctx context.Context, id *uuid.UUID) ([]billing.ExpenseType, error) {
	query := r.db.WithContext(ctx).Where("active = ?", true)
	if id != nil {
		query = query.Where("id = ?", *id)
	}

	var rows []models.ExpenseTypeModel
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]billing.ExpenseType, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates an expense type
func (r *GormExpenseTypeRepository) Save(ctx context.Context, et *billing.ExpenseType) error {
	model := models.ExpenseTypeModelFromDomain(et)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewAlreadyExistsError("expense type", "name", et.Name)
		}
		return err
	}
	return nil
}

// defaultDir substitutes fallback when the caller gave no direction
func defaultDir(dir, fallback string) string {
	if dir == "" {
		return fallback
	}
	return dir
}

// Ensure GormExpenseTypeRepository implements ExpenseTypeRepository
var _ billing.ExpenseTypeRepository = (*GormExpenseTypeRepository)(nil)
