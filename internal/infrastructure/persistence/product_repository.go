package persistence

import (
	"context"
	"errors"

	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEbayItemID finds the product imported from an eBay listing
func (r *GormProductRepository) FindByEbayItemID(ctx context.Context, itemID string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("ebay_item_id = ?", itemID).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(&model).Error
}

// GormUomRepository implements catalog.UomRepository using GORM
type GormUomRepository struct {
	db *gorm.DB
}

// NewGormUomRepository creates a new GormUomRepository
func NewGormUomRepository(db *gorm.DB) *GormUomRepository {
	return &GormUomRepository{db: db}
}

// FindByName returns every active unit whose name is exactly name
func (r *GormUomRepository) FindByName(ctx context.Context, name string) ([]catalog.UnitOfMeasure, error) {
	var rows []models.UomModel
	if err := r.db.WithContext(ctx).
		Where("name = ? AND active = ?", name, true).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	units := make([]catalog.UnitOfMeasure, len(rows))
	for i := range rows {
		units[i] = *rows[i].ToDomain()
	}
	return units, nil
}

// Save creates or updates a unit of measure
func (r *GormUomRepository) Save(ctx context.Context, u *catalog.UnitOfMeasure) error {
	var model models.UomModel
	model.FromDomain(u)
	return r.db.WithContext(ctx).Save(&model).Error
}

var (
	_ catalog.ProductRepository = (*GormProductRepository)(nil)
	_ catalog.UomRepository     = (*GormUomRepository)(nil)
)
