package ecommerce

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResponseSize is the largest Trading API response accepted (10MB)
const maxResponseSize = 10 * 1024 * 1024

const headerCallName = "X-EBAY-API-CALL-NAME"

// EbayClient calls the eBay Trading API with one account's credentials
type EbayClient struct {
	config *EbayConfig
	http   *resty.Client
	logger *zap.Logger
}

var _ integration.TradingAPI = (*EbayClient)(nil)

// NewEbayClient creates a client. config is validated and completed with defaults.
func NewEbayClient(config *EbayConfig, log *zap.Logger) (*EbayClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformNotConfigured, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("ebay_client")

	httpClient := resty.New().
		SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second).
		SetResponseBodyLimit(maxResponseSize).
		SetHeader("User-Agent", "sale-ebay/1.0")
	httpClient.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		log.Debug("trading api call",
			zap.String("call", r.Request.Header.Get(headerCallName)),
			zap.Int("status", r.StatusCode()),
			zap.Duration("elapsed", r.Time()),
			zap.Int("bytes", len(r.Body())),
		)
		return nil
	})

	return &EbayClient{config: config, http: httpClient, logger: log}, nil
}

// GetOrders fetches orders by ID
func (c *EbayClient) GetOrders(ctx context.Context, req integration.GetOrdersRequest) (*integration.GetOrdersResult, error) {
	if len(req.OrderIDs) == 0 {
		return nil, fmt.Errorf("%w: no order IDs", integration.ErrInvalidOrderData)
	}

	var resp getOrdersResponse
	raw, err := c.call(ctx, "GetOrders", getOrdersRequest{
		RequesterCredentials: c.credentials(),
		OrderIDArray:         orderIDArray{OrderID: req.OrderIDs},
		DetailLevel:          req.DetailLevel,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &integration.GetOrdersResult{Orders: resp.OrderArray.Order, Raw: raw}, nil
}

// GetItem fetches a listing
func (c *EbayClient) GetItem(ctx context.Context, itemID string) (*integration.EbayItem, error) {
	var resp getItemResponse
	_, err := c.call(ctx, "GetItem", getItemRequest{
		RequesterCredentials: c.credentials(),
		ItemID:               itemID,
		DetailLevel:          integration.DetailLevelReturnAll,
	}, &resp)
	if err != nil {
		if apiErrs, ok := asAPIErrors(err); ok && apiErrs.HasCode(errCodeItemNotAccessible) {
			return nil, fmt.Errorf("%w: %s: %v", integration.ErrItemNotFound, itemID, apiErrs)
		}
		return nil, err
	}
	if resp.Item.ItemID == "" {
		return nil, fmt.Errorf("%w: %s", integration.ErrItemNotFound, itemID)
	}
	return &resp.Item, nil
}

// GetUser fetches a user. itemID links the user to one of the seller's
// listings so that contact details are included.
func (c *EbayClient) GetUser(ctx context.Context, userID, itemID string) (*integration.EbayUser, error) {
	var resp getUserResponse
	_, err := c.call(ctx, "GetUser", getUserRequest{
		RequesterCredentials: c.credentials(),
		UserID:               userID,
		ItemID:               itemID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.User.UserID == "" {
		return nil, fmt.Errorf("%w: %s", integration.ErrUserNotFound, userID)
	}
	return &resp.User, nil
}

func (c *EbayClient) credentials() requesterCredentials {
	return requesterCredentials{EbayAuthToken: c.config.AuthToken}
}

// call posts one Trading API request and decodes the response into out.
// It returns the raw response body.
func (c *EbayClient) call(ctx context.Context, callName string, body any, out envelope) ([]byte, error) {
	payload, err := xml.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", callName, err)
	}
	payload = append([]byte(xml.Header), payload...)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.config.headers(callName)).
		SetBody(payload).
		Post(c.config.APIBaseURL)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, fmt.Errorf("%w: %s: response exceeds %d bytes", integration.ErrPlatformInvalidResponse, callName, maxResponseSize)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", integration.ErrPlatformUnavailable, callName, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s: HTTP %d", integration.ErrPlatformRateLimited, callName, status)
	case status >= 500:
		return nil, fmt.Errorf("%w: %s: HTTP %d", integration.ErrPlatformUnavailable, callName, status)
	case status >= 400:
		return nil, fmt.Errorf("%w: %s: HTTP %d", integration.ErrPlatformRequestFailed, callName, status)
	}

	raw := resp.Body()
	if err := xml.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", integration.ErrPlatformInvalidResponse, callName, err)
	}
	if err := ackError(callName, out.header()); err != nil {
		return nil, err
	}
	if h := out.header(); h.Ack == AckWarning && len(h.Errors) > 0 {
		c.logger.Warn("trading api warning", zap.String("call", callName), zap.String("errors", h.Errors.Error()))
	}
	return raw, nil
}

// callError carries the error list of a failed call alongside its category
type callError struct {
	kind   error
	call   string
	errors integration.APIErrors
}

func (e *callError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.kind, e.call, e.errors.Error())
}

func (e *callError) Unwrap() error {
	return e.kind
}

func ackError(callName string, h *ResponseHeader) error {
	switch h.Ack {
	case AckSuccess, AckWarning:
		return nil
	case AckFailure, AckPartialFailure:
	default:
		return fmt.Errorf("%w: %s: unexpected Ack %q", integration.ErrPlatformInvalidResponse, callName, h.Ack)
	}

	kind := integration.ErrPlatformRequestFailed
	switch {
	case h.Errors.HasCode(errCodeAuthTokenInvalid), h.Errors.HasCode(errCodeAuthTokenHardExpired):
		kind = integration.ErrPlatformAuthFailed
	case h.Errors.HasCode(errCodeCallUsageLimit):
		kind = integration.ErrPlatformRateLimited
	}
	return &callError{kind: kind, call: callName, errors: h.Errors}
}

func asAPIErrors(err error) (integration.APIErrors, bool) {
	var ce *callError
	if !errors.As(err, &ce) {
		return nil, false
	}
	return ce.errors, true
}

// ---------------------------------------------------------------------------
// Per-channel clients
// ---------------------------------------------------------------------------

// EbayClientFactory hands out one client per channel, rebuilt when the
// channel's credentials change
type EbayClientFactory struct {
	defaults ClientDefaults
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]cachedClient
}

type cachedClient struct {
	creds  channel.EbayCredentials
	client *EbayClient
}

// NewEbayClientFactory creates an EbayClientFactory
func NewEbayClientFactory(defaults ClientDefaults, log *zap.Logger) *EbayClientFactory {
	return &EbayClientFactory{
		defaults: defaults,
		logger:   log,
		clients:  make(map[uuid.UUID]cachedClient),
	}
}

// ForChannel returns the Trading API client for ch
func (f *EbayClientFactory) ForChannel(ch *channel.Channel) (integration.TradingAPI, error) {
	if err := ch.ValidateEbayChannel(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if cached, ok := f.clients[ch.ID]; ok && cached.creds == ch.Ebay {
		return cached.client, nil
	}

	client, err := NewEbayClient(NewEbayConfigFromChannel(ch, f.defaults), f.logger)
	if err != nil {
		return nil, err
	}
	f.clients[ch.ID] = cachedClient{creds: ch.Ebay, client: client}
	return client, nil
}
