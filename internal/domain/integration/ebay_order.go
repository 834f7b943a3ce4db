package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a currency-tagged amount as the Trading API reports it
type Amount struct {
	CurrencyID string `xml:"currencyID,attr" json:"_currencyID"`
	Value      string `xml:",chardata" json:"value"`
}

// IsZero reports whether no value is present
func (a *Amount) IsZero() bool {
	return a == nil || strings.TrimSpace(a.Value) == ""
}

// Decimal parses the amount exactly
func (a *Amount) Decimal() (decimal.Decimal, error) {
	if a.IsZero() {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(a.Value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q: %v", ErrInvalidOrderData, a.Value, err)
	}
	return d, nil
}

// Item identifies the listing a transaction bought from
type Item struct {
	ItemID string `xml:"ItemID" json:"ItemID"`
	Title  string `xml:"Title" json:"Title"`
	SKU    string `xml:"SKU" json:"SKU,omitempty"`
}

// Transaction is one purchased line of an order
type Transaction struct {
	TransactionID     string `xml:"TransactionID" json:"TransactionID,omitempty"`
	Item              Item   `xml:"Item" json:"Item"`
	TransactionPrice  Amount `xml:"TransactionPrice" json:"TransactionPrice"`
	QuantityPurchased string `xml:"QuantityPurchased" json:"QuantityPurchased"`
}

// Quantity parses QuantityPurchased exactly
func (t Transaction) Quantity() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(t.QuantityPurchased))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: quantity %q: %v", ErrInvalidOrderData, t.QuantityPurchased, err)
	}
	return d, nil
}

// TransactionList is the ordered list of an order's transactions.
// The API sends a one-transaction order as a bare object and larger
// orders as an array; both decode to the same list. XML repeats the
// element and decodes natively.
type TransactionList []Transaction

// UnmarshalJSON accepts either a single transaction object or an array
func (l *TransactionList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*l = TransactionList{}
		return nil
	case trimmed[0] == '[':
		var many []Transaction
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return fmt.Errorf("%w: transaction array: %v", ErrInvalidOrderData, err)
		}
		*l = many
		return nil
	case trimmed[0] == '{':
		var one Transaction
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return fmt.Errorf("%w: transaction: %v", ErrInvalidOrderData, err)
		}
		*l = TransactionList{one}
		return nil
	}
	return fmt.Errorf("%w: unexpected transaction shape", ErrInvalidOrderData)
}

// TransactionArray wraps the order's transactions
type TransactionArray struct {
	Transaction TransactionList `xml:"Transaction" json:"Transaction"`
}

// ShippingAddress is the buyer's shipping address
type ShippingAddress struct {
	Name            string `xml:"Name" json:"Name"`
	Street1         string `xml:"Street1" json:"Street1"`
	Street2         string `xml:"Street2" json:"Street2,omitempty"`
	CityName        string `xml:"CityName" json:"CityName"`
	StateOrProvince string `xml:"StateOrProvince" json:"StateOrProvince,omitempty"`
	Country         string `xml:"Country" json:"Country"`
	CountryName     string `xml:"CountryName" json:"CountryName,omitempty"`
	Phone           string `xml:"Phone" json:"Phone,omitempty"`
	PostalCode      string `xml:"PostalCode" json:"PostalCode"`
}

// ShippingServiceSelected is the shipping option the buyer chose
type ShippingServiceSelected struct {
	ShippingService     string  `xml:"ShippingService" json:"ShippingService,omitempty"`
	ShippingServiceCost *Amount `xml:"ShippingServiceCost" json:"ShippingServiceCost,omitempty"`
}

// Cost returns the shipping cost, zero when absent
func (s *ShippingServiceSelected) Cost() (decimal.Decimal, error) {
	if s == nil {
		return decimal.Zero, nil
	}
	return s.ShippingServiceCost.Decimal()
}

// Label returns the shipping service name, empty when absent
func (s *ShippingServiceSelected) Label() string {
	if s == nil {
		return ""
	}
	return s.ShippingService
}

// EbayOrder is one order from GetOrders
type EbayOrder struct {
	OrderID                 string                   `xml:"OrderID" json:"OrderID"`
	OrderStatus             string                   `xml:"OrderStatus" json:"OrderStatus,omitempty"`
	BuyerUserID             string                   `xml:"BuyerUserID" json:"BuyerUserID"`
	CreatedTime             string                   `xml:"CreatedTime" json:"CreatedTime"`
	Total                   Amount                   `xml:"Total" json:"Total"`
	Subtotal                *Amount                  `xml:"Subtotal" json:"Subtotal,omitempty"`
	ShippingAddress         ShippingAddress          `xml:"ShippingAddress" json:"ShippingAddress"`
	ShippingServiceSelected *ShippingServiceSelected `xml:"ShippingServiceSelected" json:"ShippingServiceSelected,omitempty"`
	TransactionArray        TransactionArray         `xml:"TransactionArray" json:"TransactionArray"`
}

// Transactions returns the normalised transaction list
func (o *EbayOrder) Transactions() []Transaction {
	return o.TransactionArray.Transaction
}

// FirstItemID returns the item ID of the first transaction
func (o *EbayOrder) FirstItemID() string {
	txs := o.Transactions()
	if len(txs) == 0 {
		return ""
	}
	return txs[0].Item.ItemID
}

// TotalAmount parses the reported order total exactly
func (o *EbayOrder) TotalAmount() (decimal.Decimal, error) {
	return o.Total.Decimal()
}

// SaleDate returns the date part of CreatedTime with the time discarded.
// Both "2015-03-01 10:20:30" and "2015-03-01T10:20:30.000Z" are accepted.
func (o *EbayOrder) SaleDate() (time.Time, error) {
	return ParseSaleDate(o.CreatedTime)
}

// Validate checks the fields the importer relies on
func (o *EbayOrder) Validate() error {
	switch {
	case o.OrderID == "":
		return fmt.Errorf("%w: missing OrderID", ErrInvalidOrderData)
	case o.BuyerUserID == "":
		return fmt.Errorf("%w: order %s: missing BuyerUserID", ErrInvalidOrderData, o.OrderID)
	case o.Total.CurrencyID == "":
		return fmt.Errorf("%w: order %s: missing Total currency", ErrInvalidOrderData, o.OrderID)
	case len(o.Transactions()) == 0:
		return fmt.Errorf("%w: order %s: no transactions", ErrInvalidOrderData, o.OrderID)
	}
	return nil
}

// ParseSaleDate extracts the date from a marketplace timestamp
func ParseSaleDate(created string) (time.Time, error) {
	created = strings.TrimSpace(created)
	datePart := created
	if i := strings.IndexAny(created, " T"); i >= 0 {
		datePart = created[:i]
	}
	d, err := time.Parse(time.DateOnly, datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: created time %q: %v", ErrInvalidOrderData, created, err)
	}
	return d, nil
}

// EbayItem is a listing from GetItem
type EbayItem struct {
	ItemID      string  `xml:"ItemID" json:"ItemID"`
	Title       string  `xml:"Title" json:"Title"`
	SKU         string  `xml:"SKU" json:"SKU,omitempty"`
	Description string  `xml:"Description" json:"Description,omitempty"`
	StartPrice  *Amount `xml:"StartPrice" json:"StartPrice,omitempty"`
}

// RegistrationAddress is the address an eBay user registered with
type RegistrationAddress struct {
	Name  string `xml:"Name" json:"Name"`
	Phone string `xml:"Phone" json:"Phone,omitempty"`
}

// EbayUser is a user from GetUser
type EbayUser struct {
	UserID              string               `xml:"UserID" json:"UserID"`
	Email               string               `xml:"Email" json:"Email,omitempty"`
	RegistrationAddress *RegistrationAddress `xml:"RegistrationAddress" json:"RegistrationAddress,omitempty"`
}

// DisplayName returns the registered name, falling back to the user ID
func (u *EbayUser) DisplayName() string {
	if u.RegistrationAddress != nil && strings.TrimSpace(u.RegistrationAddress.Name) != "" {
		return strings.TrimSpace(u.RegistrationAddress.Name)
	}
	return u.UserID
}
