package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeDuplicateOrder, http.StatusConflict},
		{ErrCodeImportInProgress, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeChannelConfiguration, http.StatusUnprocessableEntity},
		{ErrCodeAmbiguousLookup, http.StatusUnprocessableEntity},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeMarketplaceNotFound, http.StatusNotFound},
		{ErrCodeMarketplaceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeMarketplaceRateLimited, http.StatusTooManyRequests},
		{ErrCodeMarketplaceFailure, http.StatusBadGateway},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"SALE_NOT_FOUND", ErrCodeNotFound},
		{"CHANNEL_EXCEPTION_NOT_FOUND", ErrCodeNotFound},
		{"DUPLICATE_ORDER", ErrCodeDuplicateOrder},
		{"IMPORT_IN_PROGRESS", ErrCodeImportInProgress},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"CHANNEL_CONFIGURATION", ErrCodeChannelConfiguration},
		{"AMBIGUOUS_LOOKUP", ErrCodeAmbiguousLookup},
		{"INVALID_ORDER_ID", ErrCodeInvalidInput},
		{"INVALID_QUANTITY", ErrCodeInvalidInput},
		{"NO_LINES", ErrCodeBusinessRule},
		{ErrCodeNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestMarketplaceErrorCode(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{fmt.Errorf("GetOrders 110-1: %w", integration.ErrOrderNotFound), ErrCodeMarketplaceNotFound},
		{integration.ErrUserNotFound, ErrCodeMarketplaceNotFound},
		{integration.ErrPlatformUnavailable, ErrCodeMarketplaceUnavailable},
		{integration.ErrPlatformRateLimited, ErrCodeMarketplaceRateLimited},
		{integration.ErrPlatformNotConfigured, ErrCodeChannelConfiguration},
		{integration.ErrPlatformAuthFailed, ErrCodeMarketplaceFailure},
		{integration.ErrPlatformInvalidResponse, ErrCodeMarketplaceFailure},
	}
	for _, tt := range tests {
		code, ok := MarketplaceErrorCode(tt.err)
		assert.True(t, ok, tt.err.Error())
		assert.Equal(t, tt.expected, code, tt.err.Error())
	}

	_, ok := MarketplaceErrorCode(errors.New("disk full"))
	assert.False(t, ok)
}

func TestResponseEnvelope(t *testing.T) {
	data, err := json.Marshal(NewSuccessResponse(map[string]string{"outcome": "confirmed"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"outcome":"confirmed"}}`, string(data))

	data, err = json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "Sale not found", "req-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Sale not found","request_id":"req-1"}}`, string(data))

	data, err = json.Marshal(NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{
		{Field: "code", Message: "This field is required"},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_VALIDATION","message":"Request validation failed","details":[{"field":"code","message":"This field is required"}]}}`, string(data))
}
