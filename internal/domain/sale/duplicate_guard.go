package sale

import (
	"context"
	"fmt"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrDuplicateOrder is returned when two sales carry the same eBay order ID.
var ErrDuplicateOrder = shared.NewDomainError("DUPLICATE_ORDER", "Sale with eBay Order ID already exists")

// NewDuplicateOrderError builds the duplicate order error for orderID.
func NewDuplicateOrderError(orderID string) *shared.DomainError {
	return shared.NewDomainError(
		ErrDuplicateOrder.Code,
		fmt.Sprintf("Sale with eBay Order ID \"%s\" already exists", orderID),
	)
}

// EbayOrderIDChecker answers whether a sale other than excludeID
// already carries orderID.
type EbayOrderIDChecker interface {
	ExistsWithEbayOrderID(ctx context.Context, orderID string, excludeID uuid.UUID) (bool, error)
}

// CheckEbayOrderIDs validates that no sale in sales shares its eBay order ID
// with another sale, neither in storage nor within the batch itself.
func CheckEbayOrderIDs(ctx context.Context, checker EbayOrderIDChecker, sales ...*Sale) error {
	seen := make(map[string]uuid.UUID, len(sales))
	for _, s := range sales {
		if s == nil || s.EbayOrderID == "" {
			continue
		}
		if other, ok := seen[s.EbayOrderID]; ok && other != s.ID {
			return NewDuplicateOrderError(s.EbayOrderID)
		}
		seen[s.EbayOrderID] = s.ID

		exists, err := checker.ExistsWithEbayOrderID(ctx, s.EbayOrderID, s.ID)
		if err != nil {
			return fmt.Errorf("check ebay order id %s: %w", s.EbayOrderID, err)
		}
		if exists {
			return NewDuplicateOrderError(s.EbayOrderID)
		}
	}
	return nil
}
