// Package currency holds the currency master data sales are priced in.
package currency

import (
	"context"
	"regexp"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrCurrencyNotFound is returned when no currency matches a code
var ErrCurrencyNotFound = shared.NewDomainError("CURRENCY_NOT_FOUND", "Currency not found")

var isoCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency
type Currency struct {
	shared.BaseEntity
	Code   string
	Name   string
	Symbol string
	Digits int
	Active bool
}

// NewCurrency creates an active currency
func NewCurrency(code, name, symbol string, digits int) (*Currency, error) {
	if !isoCode.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Currency code must be three upper-case letters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Currency name cannot be empty")
	}
	if digits < 0 {
		return nil, shared.NewDomainError("INVALID_DIGITS", "Currency digits cannot be negative")
	}
	return &Currency{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Symbol:     symbol,
		Digits:     digits,
		Active:     true,
	}, nil
}

// Repository looks up currencies
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Currency, error)
	// FindByCode returns every active currency with the given code.
	FindByCode(ctx context.Context, code string) ([]Currency, error)
	Save(ctx context.Context, c *Currency) error
}
