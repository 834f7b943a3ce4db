package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/erp/sale-ebay/internal/domain/shared"
)

// Error codes returned to API clients.
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeDuplicateOrder      = "ERR_DUPLICATE_ORDER"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeImportInProgress    = "ERR_IMPORT_IN_PROGRESS"

	ErrCodeInvalidState         = "ERR_INVALID_STATE"
	ErrCodeChannelConfiguration = "ERR_CHANNEL_CONFIGURATION"
	ErrCodeAmbiguousLookup      = "ERR_AMBIGUOUS_LOOKUP"
	ErrCodeBusinessRule         = "ERR_BUSINESS_RULE"

	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeMarketplaceNotFound    = "ERR_MARKETPLACE_NOT_FOUND"
	ErrCodeMarketplaceUnavailable = "ERR_MARKETPLACE_UNAVAILABLE"
	ErrCodeMarketplaceRateLimited = "ERR_MARKETPLACE_RATE_LIMITED"
	ErrCodeMarketplaceFailure     = "ERR_MARKETPLACE_FAILURE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeDuplicateOrder:      http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeImportInProgress:    http.StatusConflict,

	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeChannelConfiguration: http.StatusUnprocessableEntity,
	ErrCodeAmbiguousLookup:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:         http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeMarketplaceNotFound:    http.StatusNotFound,
	ErrCodeMarketplaceUnavailable: http.StatusServiceUnavailable,
	ErrCodeMarketplaceRateLimited: http.StatusTooManyRequests,
	ErrCodeMarketplaceFailure:     http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"DUPLICATE_ORDER":       ErrCodeDuplicateOrder,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"IMPORT_IN_PROGRESS":    ErrCodeImportInProgress,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_STATE":         ErrCodeInvalidState,
	"CHANNEL_CONFIGURATION": ErrCodeChannelConfiguration,
	"AMBIGUOUS_LOOKUP":      ErrCodeAmbiguousLookup,
}

// NormalizeErrorCode converts a domain error code to its API form.
// INVALID_* codes are field-level input errors; anything else unknown is
// treated as a business rule violation.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if shared.IsNotFoundCode(code) {
		return ErrCodeNotFound
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return ErrCodeBusinessRule
}

// MarketplaceErrorCode classifies a Trading API failure. ok is false for
// errors that did not come from the marketplace.
func MarketplaceErrorCode(err error) (code string, ok bool) {
	switch {
	case errors.Is(err, integration.ErrOrderNotFound),
		errors.Is(err, integration.ErrItemNotFound),
		errors.Is(err, integration.ErrUserNotFound):
		return ErrCodeMarketplaceNotFound, true
	case errors.Is(err, integration.ErrPlatformUnavailable):
		return ErrCodeMarketplaceUnavailable, true
	case errors.Is(err, integration.ErrPlatformRateLimited):
		return ErrCodeMarketplaceRateLimited, true
	case errors.Is(err, integration.ErrPlatformNotConfigured):
		return ErrCodeChannelConfiguration, true
	case errors.Is(err, integration.ErrPlatformAuthFailed),
		errors.Is(err, integration.ErrPlatformRequestFailed),
		errors.Is(err, integration.ErrPlatformInvalidResponse),
		errors.Is(err, integration.ErrInvalidOrderData):
		return ErrCodeMarketplaceFailure, true
	}
	return "", false
}
