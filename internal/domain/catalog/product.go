// Package catalog holds products and units of measure.
package catalog

import (
	"strings"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when no product matches a lookup
var ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")

// Product is a saleable product. Products imported from eBay carry the
// listing's item ID.
type Product struct {
	shared.BaseAggregateRoot
	Code        string
	Name        string
	Description string
	EbayItemID  string
	ListPrice   decimal.Decimal
	Active      bool
}

// NewProduct creates an active product
func NewProduct(code, name string) (*Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		ListPrice:         decimal.Zero,
		Active:            true,
	}, nil
}

// NewEbayProduct creates a product from an eBay listing
func NewEbayProduct(itemID, title string, price decimal.Decimal) (*Product, error) {
	if itemID == "" {
		return nil, shared.NewDomainError("INVALID_EBAY_ITEM", "eBay item ID cannot be empty")
	}
	p, err := NewProduct(itemID, title)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	p.EbayItemID = itemID
	p.ListPrice = price
	return p, nil
}
