package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrency(t *testing.T) {
	c, err := NewCurrency("USD", "US Dollar", "$", 2)
	require.NoError(t, err)
	assert.Equal(t, "USD", c.Code)
	assert.True(t, c.Active)

	for _, code := range []string{"usd", "US", "USDX", ""} {
		_, err := NewCurrency(code, "X", "", 2)
		assert.Error(t, err, code)
	}
}
