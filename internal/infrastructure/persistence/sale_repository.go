package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/sale-ebay/internal/domain/sale"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/erp/sale-ebay/internal/infrastructure/event"
	"github.com/erp/sale-ebay/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements sale.Repository using GORM
type GormSaleRepository struct {
	db     *gorm.DB
	outbox *event.OutboxPublisher
}

// NewGormSaleRepository creates a new GormSaleRepository. Pending sale
// events are written to the outbox on every save.
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db, outbox: defaultOutbox}
}

// FindByID finds a sale by its ID, with its lines
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.withLines(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEbayOrderID finds the sale carrying the marketplace order ID
func (r *GormSaleRepository) FindByEbayOrderID(ctx context.Context, orderID string) (*sale.Sale, error) {
	if orderID == "" {
		return nil, sale.ErrSaleNotFound
	}
	var model models.SaleModel
	if err := r.withLines(ctx).
		Where("ebay_order_id = ?", orderID).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists sales matching filter.
// Supported filter keys: channel_id, party_id, state, ebay_order_id.
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	query := r.withLines(ctx).Model(&models.SaleModel{})
	for key, value := range filter.Filters {
		switch key {
		case "channel_id":
			query = query.Where("channel_id = ?", value)
		case "party_id":
			query = query.Where("party_id = ?", value)
		case "state":
			query = query.Where("state = ?", value)
		case "ebay_order_id":
			query = query.Where("ebay_order_id = ?", value)
		}
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.SaleModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	sales := make([]sale.Sale, len(rows))
	for i := range rows {
		sales[i] = *rows[i].ToDomain()
	}
	return sales, nil
}

// ExistsWithEbayOrderID reports whether a sale other than excludeID carries orderID
func (r *GormSaleRepository) ExistsWithEbayOrderID(ctx context.Context, orderID string, excludeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("ebay_order_id = ? AND id <> ?", orderID, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a sale and replaces its lines.
// The duplicate eBay order ID check runs first.
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	if err := sale.CheckEbayOrderIDs(ctx, r, s); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveSale(tx, s); err != nil {
			return err
		}
		return r.outbox.PublishPending(ctx, tx, s)
	})
}

// SaveBatch saves sales atomically after checking the whole batch for
// duplicate eBay order IDs.
func (r *GormSaleRepository) SaveBatch(ctx context.Context, sales []*sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	if err := sale.CheckEbayOrderIDs(ctx, r, sales...); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range sales {
			if err := saveSale(tx, s); err != nil {
				return err
			}
			if err := r.outbox.PublishPending(ctx, tx, s); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveSale(tx *gorm.DB, s *sale.Sale) error {
	var header models.SaleModel
	header.FromDomain(s)
	if err := tx.Save(&header).Error; err != nil {
		return fmt.Errorf("save sale %s: %w", s.ID, err)
	}

	lines := models.SaleLineModelsFromDomain(s)
	keep := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		keep[i] = l.ID
	}

	// Delete lines no longer on the sale
	stale := tx.Where("sale_id = ?", s.ID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.SaleLineModel{}).Error; err != nil {
		return fmt.Errorf("delete stale lines of sale %s: %w", s.ID, err)
	}

	for i := range lines {
		if err := tx.Save(&lines[i]).Error; err != nil {
			return fmt.Errorf("save line %d of sale %s: %w", lines[i].Sequence, s.ID, err)
		}
	}
	return nil
}

func (r *GormSaleRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	})
}

// Ensure GormSaleRepository implements sale.Repository
var _ sale.Repository = (*GormSaleRepository)(nil)
