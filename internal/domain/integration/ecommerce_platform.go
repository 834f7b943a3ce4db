package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Platform Errors
// ---------------------------------------------------------------------------

var (
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformAuthFailed      = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")

	ErrOrderNotFound    = errors.New("integration: platform order not found")
	ErrInvalidOrderData = errors.New("integration: invalid order data")
	ErrItemNotFound     = errors.New("integration: platform item not found")
	ErrUserNotFound     = errors.New("integration: platform user not found")
)

// ---------------------------------------------------------------------------
// Trading API port
// ---------------------------------------------------------------------------

// DetailLevelReturnAll asks the Trading API for the complete record
const DetailLevelReturnAll = "ReturnAll"

// GetOrdersRequest selects orders by ID
type GetOrdersRequest struct {
	OrderIDs    []string
	DetailLevel string
}

// GetOrdersResult is the decoded GetOrders response.
// Raw holds the undecoded response body.
type GetOrdersResult struct {
	Orders []EbayOrder
	Raw    []byte
}

// TradingAPI is the subset of the eBay Trading API used by the importer.
// Implementations are bound to one channel's credentials.
type TradingAPI interface {
	GetOrders(ctx context.Context, req GetOrdersRequest) (*GetOrdersResult, error)
	GetItem(ctx context.Context, itemID string) (*EbayItem, error)
	// GetUser returns buyer details. eBay only discloses contact data when
	// an item linking buyer and seller is cited.
	GetUser(ctx context.Context, userID, itemID string) (*EbayUser, error)
}

// ---------------------------------------------------------------------------
// API error details
// ---------------------------------------------------------------------------

// APIError is one entry of the Errors list of a failed Trading API call
type APIError struct {
	ShortMessage string `xml:"ShortMessage" json:"ShortMessage"`
	LongMessage  string `xml:"LongMessage" json:"LongMessage"`
	ErrorCode    string `xml:"ErrorCode" json:"ErrorCode"`
	SeverityCode string `xml:"SeverityCode" json:"SeverityCode"`
}

// APIErrors is the error list of a failed call
type APIErrors []APIError

// Error joins the error messages
func (e APIErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ae := range e {
		msg := ae.LongMessage
		if msg == "" {
			msg = ae.ShortMessage
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", ae.ErrorCode, msg))
	}
	return strings.Join(parts, "; ")
}

// HasCode reports whether any entry carries code
func (e APIErrors) HasCode(code string) bool {
	for _, ae := range e {
		if ae.ErrorCode == code {
			return true
		}
	}
	return false
}
