package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Currency USD not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", err), ErrNotFound))
}

func TestDomainError_EntityNotFoundCodes(t *testing.T) {
	currencyMissing := NewDomainError("CURRENCY_NOT_FOUND", "Currency not found")
	uomMissing := NewDomainError("UOM_NOT_FOUND", "Unit of measure not found")

	assert.ErrorIs(t, NewDomainError("CURRENCY_NOT_FOUND", "Currency EUR not found"), currencyMissing)
	assert.NotErrorIs(t, uomMissing, currencyMissing)
	assert.ErrorIs(t, uomMissing, ErrNotFound)
	assert.NotErrorIs(t, ErrNotFound, uomMissing)

	assert.True(t, IsNotFoundCode("NOT_FOUND"))
	assert.True(t, IsNotFoundCode("SALE_NOT_FOUND"))
	assert.False(t, IsNotFoundCode("NOT_FOUND_YET"))
	assert.False(t, IsNotFoundCode("DUPLICATE_ORDER"))
}

func TestDomainError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapDomainError("INVALID_STATE", "cannot confirm", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cannot confirm", err.Error())
}

func TestFilter_Offset(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())

	f.Page = 3
	assert.Equal(t, 40, f.Offset())

	f.Page = 0
	assert.Equal(t, 0, f.Offset())
}
