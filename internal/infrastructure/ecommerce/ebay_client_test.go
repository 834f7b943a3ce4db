package ecommerce

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestEbayConfig_Validate(t *testing.T) {
	valid := func() *EbayConfig {
		return &EbayConfig{AppID: "app", DevID: "dev", CertID: "cert", AuthToken: "token"}
	}

	tests := []struct {
		name    string
		mutate  func(c *EbayConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(c *EbayConfig) {}},
		{name: "missing app id", mutate: func(c *EbayConfig) { c.AppID = "" }, wantErr: ErrEbayConfigMissingAppID},
		{name: "missing dev id", mutate: func(c *EbayConfig) { c.DevID = "" }, wantErr: ErrEbayConfigMissingDevID},
		{name: "missing cert id", mutate: func(c *EbayConfig) { c.CertID = "" }, wantErr: ErrEbayConfigMissingCertID},
		{name: "missing token", mutate: func(c *EbayConfig) { c.AuthToken = "" }, wantErr: ErrEbayConfigMissingAuthToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, EbayProductionAPIURL, cfg.APIBaseURL)
			assert.Equal(t, DefaultCompatibilityLevel, cfg.CompatibilityLevel)
			assert.Equal(t, 30, cfg.TimeoutSeconds)
		})
	}
}

func TestEbayConfig_SandboxDefault(t *testing.T) {
	cfg := &EbayConfig{AppID: "app", DevID: "dev", CertID: "cert", AuthToken: "token", IsSandbox: true}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, EbaySandboxAPIURL, cfg.APIBaseURL)
}

func TestNewEbayConfigFromChannel(t *testing.T) {
	ch, err := channel.NewEbayChannel("eBay DE", "ebay-de", channel.EbayCredentials{
		AppID: "app", DevID: "dev", CertID: "cert", AuthToken: "token", SiteID: 77, Sandbox: true,
	})
	require.NoError(t, err)

	cfg := NewEbayConfigFromChannel(ch, ClientDefaults{
		SandboxURL:         "http://sandbox.local/ws/api.dll",
		ProductionURL:      "http://prod.local/ws/api.dll",
		CompatibilityLevel: 1100,
		Timeout:            5 * time.Second,
	})
	assert.Equal(t, "http://sandbox.local/ws/api.dll", cfg.APIBaseURL)
	assert.Equal(t, 77, cfg.SiteID)
	assert.Equal(t, 1100, cfg.CompatibilityLevel)
	assert.Equal(t, 5, cfg.TimeoutSeconds)
}

// ---------------------------------------------------------------------------
// Client Tests
// ---------------------------------------------------------------------------

const getOrdersSingleTransaction = `<?xml version="1.0" encoding="UTF-8"?>
<GetOrdersResponse xmlns="urn:ebay:apis:eBLBaseComponents">
  <Timestamp>2015-03-02T08:00:00.000Z</Timestamp>
  <Ack>Success</Ack>
  <Version>1193</Version>
  <OrderArray>
    <Order>
      <OrderID>110-2233</OrderID>
      <OrderStatus>Completed</OrderStatus>
      <BuyerUserID>buyer_1</BuyerUserID>
      <CreatedTime>2015-03-01T10:20:30.000Z</CreatedTime>
      <Total currencyID="USD">25.50</Total>
      <ShippingAddress>
        <Name>Jane Buyer</Name>
        <Street1>1 Main St</Street1>
        <CityName>Springfield</CityName>
        <StateOrProvince>IL</StateOrProvince>
        <Country>US</Country>
        <Phone>Invalid Request</Phone>
        <PostalCode>12345</PostalCode>
      </ShippingAddress>
      <ShippingServiceSelected>
        <ShippingService>Standard</ShippingService>
        <ShippingServiceCost currencyID="USD">5.50</ShippingServiceCost>
      </ShippingServiceSelected>
      <TransactionArray>
        <Transaction>
          <Item><ItemID>1100</ItemID><Title>Vintage lamp</Title></Item>
          <QuantityPurchased>2</QuantityPurchased>
          <TransactionPrice currencyID="USD">10.00</TransactionPrice>
        </Transaction>
      </TransactionArray>
    </Order>
  </OrderArray>
</GetOrdersResponse>`

type capturedRequest struct {
	header http.Header
	body   string
}

func newTradingServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		captured.header = r.Header.Clone()
		captured.body = string(body)
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func newTestClient(t *testing.T, url string) *EbayClient {
	t.Helper()
	client, err := NewEbayClient(&EbayConfig{
		AppID:      "app-id",
		DevID:      "dev-id",
		CertID:     "cert-id",
		AuthToken:  "secret-token",
		SiteID:     3,
		APIBaseURL: url,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestEbayClient_GetOrders(t *testing.T) {
	server, captured := newTradingServer(t, http.StatusOK, getOrdersSingleTransaction)
	client := newTestClient(t, server.URL)

	result, err := client.GetOrders(context.Background(), integration.GetOrdersRequest{
		OrderIDs:    []string{"110-2233"},
		DetailLevel: integration.DetailLevelReturnAll,
	})
	require.NoError(t, err)

	assert.Equal(t, "GetOrders", captured.header.Get("X-EBAY-API-CALL-NAME"))
	assert.Equal(t, "3", captured.header.Get("X-EBAY-API-SITEID"))
	assert.Equal(t, "1193", captured.header.Get("X-EBAY-API-COMPATIBILITY-LEVEL"))
	assert.Equal(t, "app-id", captured.header.Get("X-EBAY-API-APP-NAME"))
	assert.Equal(t, "dev-id", captured.header.Get("X-EBAY-API-DEV-NAME"))
	assert.Equal(t, "cert-id", captured.header.Get("X-EBAY-API-CERT-NAME"))
	assert.Contains(t, captured.body, `<GetOrdersRequest xmlns="urn:ebay:apis:eBLBaseComponents">`)
	assert.Contains(t, captured.body, "<eBayAuthToken>secret-token</eBayAuthToken>")
	assert.Contains(t, captured.body, "<OrderIDArray><OrderID>110-2233</OrderID></OrderIDArray>")
	assert.Contains(t, captured.body, "<DetailLevel>ReturnAll</DetailLevel>")

	require.Len(t, result.Orders, 1)
	order := result.Orders[0]
	assert.Equal(t, "110-2233", order.OrderID)
	assert.Equal(t, "buyer_1", order.BuyerUserID)
	assert.Equal(t, "USD", order.Total.CurrencyID)
	assert.Equal(t, "25.50", order.Total.Value)
	assert.Equal(t, "Standard", order.ShippingServiceSelected.Label())
	require.Len(t, order.Transactions(), 1)
	assert.Equal(t, "1100", order.FirstItemID())
	assert.Equal(t, "2", order.Transactions()[0].QuantityPurchased)

	date, err := order.SaleDate()
	require.NoError(t, err)
	assert.Equal(t, "2015-03-01", date.Format("2006-01-02"))

	assert.Equal(t, getOrdersSingleTransaction, string(result.Raw))
}

func TestEbayClient_GetOrders_MultipleTransactions(t *testing.T) {
	response := strings.Replace(getOrdersSingleTransaction, "</TransactionArray>", `<Transaction>
          <Item><ItemID>2200</ItemID><Title>Brass candlestick</Title></Item>
          <QuantityPurchased>1</QuantityPurchased>
          <TransactionPrice currencyID="USD">15.00</TransactionPrice>
        </Transaction>
      </TransactionArray>`, 1)
	server, _ := newTradingServer(t, http.StatusOK, response)

	result, err := newTestClient(t, server.URL).GetOrders(context.Background(), integration.GetOrdersRequest{OrderIDs: []string{"110-2233"}})
	require.NoError(t, err)
	txs := result.Orders[0].Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "1100", txs[0].Item.ItemID)
	assert.Equal(t, "2200", txs[1].Item.ItemID)
}

func TestEbayClient_FailureAck(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "invalid token", code: "931", wantErr: integration.ErrPlatformAuthFailed},
		{name: "usage limit", code: "518", wantErr: integration.ErrPlatformRateLimited},
		{name: "other", code: "10007", wantErr: integration.ErrPlatformRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTradingServer(t, http.StatusOK, `<GetOrdersResponse xmlns="urn:ebay:apis:eBLBaseComponents">
  <Ack>Failure</Ack>
  <Errors>
    <ShortMessage>Call failed.</ShortMessage>
    <LongMessage>The call failed.</LongMessage>
    <ErrorCode>`+tt.code+`</ErrorCode>
    <SeverityCode>Error</SeverityCode>
  </Errors>
</GetOrdersResponse>`)

			_, err := newTestClient(t, server.URL).GetOrders(context.Background(), integration.GetOrdersRequest{OrderIDs: []string{"1"}})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "["+tt.code+"] The call failed.")
		})
	}
}

func TestEbayClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{status: http.StatusTooManyRequests, wantErr: integration.ErrPlatformRateLimited},
		{status: http.StatusServiceUnavailable, wantErr: integration.ErrPlatformUnavailable},
		{status: http.StatusBadRequest, wantErr: integration.ErrPlatformRequestFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server, _ := newTradingServer(t, tt.status, "")
			_, err := newTestClient(t, server.URL).GetOrders(context.Background(), integration.GetOrdersRequest{OrderIDs: []string{"1"}})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEbayClient_InvalidXML(t *testing.T) {
	server, _ := newTradingServer(t, http.StatusOK, "<GetOrdersResponse><Ack>")
	_, err := newTestClient(t, server.URL).GetOrders(context.Background(), integration.GetOrdersRequest{OrderIDs: []string{"1"}})
	assert.ErrorIs(t, err, integration.ErrPlatformInvalidResponse)
}

func TestEbayClient_OversizedResponse(t *testing.T) {
	oversized := "<GetOrdersResponse>" + strings.Repeat(" ", maxResponseSize) + "</GetOrdersResponse>"
	server, _ := newTradingServer(t, http.StatusOK, oversized)

	_, err := newTestClient(t, server.URL).GetOrders(context.Background(), integration.GetOrdersRequest{OrderIDs: []string{"1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, integration.ErrPlatformInvalidResponse)
	assert.NotErrorIs(t, err, integration.ErrPlatformUnavailable)
	assert.Contains(t, err.Error(), "response exceeds")
}

func TestEbayClient_GetOrdersRequiresIDs(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.GetOrders(context.Background(), integration.GetOrdersRequest{})
	assert.ErrorIs(t, err, integration.ErrInvalidOrderData)
}

func TestEbayClient_GetItem(t *testing.T) {
	server, captured := newTradingServer(t, http.StatusOK, `<GetItemResponse xmlns="urn:ebay:apis:eBLBaseComponents">
  <Ack>Success</Ack>
  <Item>
    <ItemID>1100</ItemID>
    <Title>Vintage lamp</Title>
    <SKU>LAMP-1</SKU>
    <StartPrice currencyID="USD">12.99</StartPrice>
  </Item>
</GetItemResponse>`)

	item, err := newTestClient(t, server.URL).GetItem(context.Background(), "1100")
	require.NoError(t, err)
	assert.Equal(t, "GetItem", captured.header.Get("X-EBAY-API-CALL-NAME"))
	assert.Contains(t, captured.body, "<ItemID>1100</ItemID>")
	assert.Equal(t, "Vintage lamp", item.Title)
	assert.Equal(t, "LAMP-1", item.SKU)
	price, err := item.StartPrice.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "12.99", price.StringFixed(2))
}

func TestEbayClient_GetItemNotAccessible(t *testing.T) {
	server, _ := newTradingServer(t, http.StatusOK, `<GetItemResponse>
  <Ack>Failure</Ack>
  <Errors><ShortMessage>Item cannot be accessed.</ShortMessage><ErrorCode>17</ErrorCode></Errors>
</GetItemResponse>`)

	_, err := newTestClient(t, server.URL).GetItem(context.Background(), "999")
	assert.ErrorIs(t, err, integration.ErrItemNotFound)
}

func TestEbayClient_GetUser(t *testing.T) {
	server, captured := newTradingServer(t, http.StatusOK, `<GetUserResponse xmlns="urn:ebay:apis:eBLBaseComponents">
  <Ack>Warning</Ack>
  <Errors><ShortMessage>Deprecated field.</ShortMessage><ErrorCode>21917</ErrorCode><SeverityCode>Warning</SeverityCode></Errors>
  <User>
    <UserID>buyer_1</UserID>
    <Email>jane@example.com</Email>
    <RegistrationAddress><Name>Jane Buyer</Name><Phone>555 0100</Phone></RegistrationAddress>
  </User>
</GetUserResponse>`)

	user, err := newTestClient(t, server.URL).GetUser(context.Background(), "buyer_1", "1100")
	require.NoError(t, err)
	assert.Contains(t, captured.body, "<UserID>buyer_1</UserID>")
	assert.Contains(t, captured.body, "<ItemID>1100</ItemID>")
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "Jane Buyer", user.DisplayName())
}

func TestEbayClient_NetworkError(t *testing.T) {
	server, _ := newTradingServer(t, http.StatusOK, "")
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url).GetUser(context.Background(), "buyer_1", "")
	assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
}

func TestNewEbayClient_InvalidConfig(t *testing.T) {
	_, err := NewEbayClient(&EbayConfig{}, nil)
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
}

// ---------------------------------------------------------------------------
// Factory Tests
// ---------------------------------------------------------------------------

func TestEbayClientFactory_ForChannel(t *testing.T) {
	factory := NewEbayClientFactory(ClientDefaults{}, zap.NewNop())
	ch, err := channel.NewEbayChannel("eBay US", "ebay-us", channel.EbayCredentials{
		AppID: "app", DevID: "dev", CertID: "cert", AuthToken: "token",
	})
	require.NoError(t, err)

	first, err := factory.ForChannel(ch)
	require.NoError(t, err)
	again, err := factory.ForChannel(ch)
	require.NoError(t, err)
	assert.Same(t, first, again)

	ch.Ebay.AuthToken = "rotated"
	rotated, err := factory.ForChannel(ch)
	require.NoError(t, err)
	assert.NotSame(t, first, rotated)
	assert.Equal(t, "rotated", rotated.(*EbayClient).config.AuthToken)
}

func TestEbayClientFactory_RejectsMisconfiguredChannel(t *testing.T) {
	factory := NewEbayClientFactory(ClientDefaults{}, nil)
	ch, err := channel.NewChannel("Shop", "shop", channel.SourceManual)
	require.NoError(t, err)

	_, err = factory.ForChannel(ch)
	assert.ErrorIs(t, err, channel.ErrChannelMisconfigured)
}
