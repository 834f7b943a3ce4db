package catalog

import (
	"github.com/erp/sale-ebay/internal/domain/shared"
)

// UnitName is the name of the unit every imported line is sold in
const UnitName = "Unit"

// ErrUomNotFound is returned when no unit of measure matches a lookup
var ErrUomNotFound = shared.NewDomainError("UOM_NOT_FOUND", "Unit of measure not found")

// UnitOfMeasure is the quantity unit of a sale line
type UnitOfMeasure struct {
	shared.BaseEntity
	Name     string
	Symbol   string
	Category string
	Digits   int
	Active   bool
}

// NewUnitOfMeasure creates an active unit of measure
func NewUnitOfMeasure(name, symbol, category string, digits int) (*UnitOfMeasure, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Unit name cannot be empty")
	}
	if symbol == "" {
		return nil, shared.NewDomainError("INVALID_SYMBOL", "Unit symbol cannot be empty")
	}
	if digits < 0 {
		return nil, shared.NewDomainError("INVALID_DIGITS", "Unit digits cannot be negative")
	}
	return &UnitOfMeasure{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Symbol:     symbol,
		Category:   category,
		Digits:     digits,
		Active:     true,
	}, nil
}
