package integration

import (
	"context"
	"time"

	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/google/uuid"
)

// TradingAPIFactory builds a Trading API client bound to a channel's credentials
type TradingAPIFactory interface {
	ForChannel(ch *channel.Channel) (integration.TradingAPI, error)
}

// PartyResolver finds or creates the buyer of an order and its contact data
type PartyResolver interface {
	FindOrCreateUsingEbayID(ctx context.Context, repos Repositories, api integration.TradingAPI, ebayUserID, itemID string) (*partner.Party, error)
	AddPhoneUsingEbayData(ctx context.Context, repos Repositories, party *partner.Party, phone string) error
	FindOrCreateAddressUsingEbayData(ctx context.Context, repos Repositories, party *partner.Party, addr integration.ShippingAddress) (*partner.Address, error)
}

// ProductImporter returns the product for an eBay item, importing it when unknown
type ProductImporter interface {
	ImportProduct(ctx context.Context, repos Repositories, api integration.TradingAPI, itemID string) (*catalog.Product, error)
}

// ImportLock serialises imports of the same order ID
type ImportLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// OrderArchive keeps the raw GetOrders response of an import
type OrderArchive interface {
	Store(ctx context.Context, channelID uuid.UUID, orderID string, raw []byte) error
}
