package sale

import (
	"context"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrSaleNotFound is returned when no sale matches a lookup
var ErrSaleNotFound = shared.NewDomainError("SALE_NOT_FOUND", "Sale not found")

// Repository persists sales. Save and SaveBatch run the duplicate
// eBay order ID check before writing.
type Repository interface {
	EbayOrderIDChecker
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByEbayOrderID(ctx context.Context, orderID string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	Save(ctx context.Context, s *Sale) error
	SaveBatch(ctx context.Context, sales []*Sale) error
}
