package integration

import (
	"context"
	"errors"

	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"go.uber.org/zap"
)

// EbayProductImporter resolves eBay listings to products
type EbayProductImporter struct {
	logger *zap.Logger
}

var _ ProductImporter = (*EbayProductImporter)(nil)

// NewEbayProductImporter creates an EbayProductImporter
func NewEbayProductImporter(log *zap.Logger) *EbayProductImporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &EbayProductImporter{logger: log.Named("ebay_product")}
}

// ImportProduct returns the product linked to itemID. Unknown items are
// fetched with GetItem and created with the listing's title and start price.
func (s *EbayProductImporter) ImportProduct(ctx context.Context, repos Repositories, api integration.TradingAPI, itemID string) (*catalog.Product, error) {
	product, err := repos.Products().FindByEbayItemID(ctx, itemID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err := api.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	price, err := item.StartPrice.Decimal()
	if err != nil {
		return nil, err
	}
	product, err = catalog.NewEbayProduct(itemID, item.Title, price)
	if err != nil {
		return nil, err
	}
	product.Description = item.Description
	if err := repos.Products().Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product imported from eBay",
		zap.String("ebay_item_id", itemID),
		zap.String("product_id", product.ID.String()),
	)
	return product, nil
}
