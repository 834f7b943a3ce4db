package persistence

import (
	"context"
	"errors"

	"github.com/erp/sale-ebay/internal/domain/currency"
	"github.com/erp/sale-ebay/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCurrencyRepository implements currency.Repository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByID finds a currency by its ID
func (r *GormCurrencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*currency.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, currency.ErrCurrencyNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode returns every active currency with the given code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) ([]currency.Currency, error) {
	var rows []models.CurrencyModel
	if err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", code, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	currencies := make([]currency.Currency, len(rows))
	for i := range rows {
		currencies[i] = *rows[i].ToDomain()
	}
	return currencies, nil
}

// Save creates or updates a currency
func (r *GormCurrencyRepository) Save(ctx context.Context, c *currency.Currency) error {
	var model models.CurrencyModel
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(&model).Error
}

var _ currency.Repository = (*GormCurrencyRepository)(nil)
