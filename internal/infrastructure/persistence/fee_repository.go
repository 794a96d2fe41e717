package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFeeRepository implements FeeRepository using GORM
type GormFeeRepository struct {
	db *gorm.DB
}

// NewGormFeeRepository creates a new GormFeeRepository
func NewGormFeeRepository(db *gorm.DB) *GormFeeRepository {
	return &GormFeeRepository{db: db}
}

// FindByID finds a fee by its ID
func (r *GormFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	var model models.FeeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("fee", id.String())
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDForUpdate loads the fee with SELECT ... FOR UPDATE. Callers
// must run inside a transaction for the lock to outlive the statement.
func (r *GormFeeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	var model models.FeeModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("fee", id.String())
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByKey finds a fee by its (unit, expense type, period) identity
func (r *GormFeeRepository) FindByKey(ctx context.Context, key billing.FeeKey) (*billing.Fee, error) {
	var model models.FeeModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND expense_type_id = ? AND period = ?", key.UnitID, key.ExpenseTypeID, key.Period).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// InsertIfAbsent inserts with ON CONFLICT DO NOTHING on the natural key.
// RowsAffected tells a fresh insert apart from an existing fee. Conflicts on
// any other constraint are not absorbed by the clause and surface as errors.
func (r *GormFeeRepository) InsertIfAbsent(ctx context.Context, fee *billing.Fee) (bool, error) {
	model := models.FeeModelFromDomain(fee)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unit_id"}, {Name: "expense_type_id"}, {Name: "period"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Update persists the mutable fee columns
func (r *GormFeeRepository) Update(ctx context.Context, fee *billing.Fee) error {
	result := r.db.WithContext(ctx).
		Model(&models.FeeModel{}).
		Where("id = ?", fee.ID).
		Updates(map[string]any{
			"amount":     fee.Amount,
			"status":     string(fee.Status),
			"version":    fee.Version,
			"updated_at": fee.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("fee", fee.ID.String())
	}
	return nil
}

// feeListRow is the scan target for the joined fee listing
type feeListRow struct {
	models.FeeModel
	UnitCode        string
	ExpenseTypeName string
	Paid            decimal.Decimal
}

// FindAll lists fees joined with their unit, type and paid total
func (r *GormFeeRepository) FindAll(ctx context.Context, filter billing.FeeFilter) ([]billing.FeeListItem, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).
		Table("fees").
		Joins("JOIN units ON units.id = fees.unit_id").
		Joins("JOIN expense_types ON expense_types.id = fees.expense_type_id")
	query = applyFeeFilter(query, filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	paid := r.db.Model(&models.PaymentModel{}).
		Select("fee_id, SUM(amount) AS paid").
		Group("fee_id")

	var rows []feeListRow
	err := query.
		Select("fees.*, units.code AS unit_code, expense_types.name AS expense_type_name, COALESCE(p.paid, 0) AS paid").
		Joins("LEFT JOIN (?) AS p ON p.fee_id = fees.id", paid).
		Order(orderClause("fees", page.OrderBy, page.OrderDir, FeeSortFields, "issued_at")).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]billing.FeeListItem, len(rows))
	for i := range rows {
		fee, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		items[i] = billing.FeeListItem{
			Fee:             *fee,
			UnitCode:        rows[i].UnitCode,
			ExpenseTypeName: rows[i].ExpenseTypeName,
			Paid:            rows[i].Paid,
		}
	}
	return items, total, nil
}

func applyFeeFilter(query *gorm.DB, filter billing.FeeFilter) *gorm.DB {
	if filter.OwnerID != nil {
		query = query.Where("units.owner_id = ?", *filter.OwnerID)
	}
	if filter.Period != nil {
		query = query.Where("fees.period = ?", filter.Period.String())
	}
	if filter.ExpenseTypeID != nil {
		query = query.Where("fees.expense_type_id = ?", *filter.ExpenseTypeID)
	}
	if filter.UnitID != nil {
		query = query.Where("fees.unit_id = ?", *filter.UnitID)
	}
	if filter.Status != nil {
		query = query.Where("fees.status = ?", string(*filter.Status))
	}
	return query
}

// MarkOverdue flips every ISSUED fee due before asOf in one statement
func (r *GormFeeRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FeeModel{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", string(billing.FeeStatusIssued), asOf).
		Updates(map[string]any{
			"status":     string(billing.FeeStatusOverdue),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormFeeRepository implements FeeRepository
var _ billing.FeeRepository = (*GormFeeRepository)(nil)
