package ecommerce

import (
	"encoding/xml"

	"github.com/erp/sale-ebay/internal/domain/integration"
)

// Ack values of a Trading API response
const (
	AckSuccess        = "Success"
	AckWarning        = "Warning"
	AckFailure        = "Failure"
	AckPartialFailure = "PartialFailure"
)

// Trading API error codes with a dedicated mapping
const (
	errCodeAuthTokenInvalid     = "931"
	errCodeAuthTokenHardExpired = "932"
	errCodeCallUsageLimit       = "518"
	errCodeItemNotAccessible    = "17"
)

type requesterCredentials struct {
	EbayAuthToken string `xml:"eBayAuthToken"`
}

type orderIDArray struct {
	OrderID []string `xml:"OrderID"`
}

type getOrdersRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetOrdersRequest"`
	RequesterCredentials requesterCredentials `xml:"RequesterCredentials"`
	OrderIDArray         orderIDArray         `xml:"OrderIDArray"`
	DetailLevel          string               `xml:"DetailLevel,omitempty"`
}

type getItemRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetItemRequest"`
	RequesterCredentials requesterCredentials `xml:"RequesterCredentials"`
	ItemID               string               `xml:"ItemID"`
	DetailLevel          string               `xml:"DetailLevel,omitempty"`
}

type getUserRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GetUserRequest"`
	RequesterCredentials requesterCredentials `xml:"RequesterCredentials"`
	UserID               string               `xml:"UserID"`
	ItemID               string               `xml:"ItemID,omitempty"`
}

// ResponseHeader holds the fields common to every Trading API response
type ResponseHeader struct {
	Timestamp string                `xml:"Timestamp"`
	Ack       string                `xml:"Ack"`
	Errors    integration.APIErrors `xml:"Errors"`
	Version   string                `xml:"Version"`
}

func (h *ResponseHeader) header() *ResponseHeader { return h }

// envelope is implemented by every response type
type envelope interface {
	header() *ResponseHeader
}

type getOrdersResponse struct {
	XMLName xml.Name `xml:"GetOrdersResponse"`
	ResponseHeader
	OrderArray struct {
		Order []integration.EbayOrder `xml:"Order"`
	} `xml:"OrderArray"`
}

type getItemResponse struct {
	XMLName xml.Name `xml:"GetItemResponse"`
	ResponseHeader
	Item integration.EbayItem `xml:"Item"`
}

type getUserResponse struct {
	XMLName xml.Name `xml:"GetUserResponse"`
	ResponseHeader
	User integration.EbayUser `xml:"User"`
}
