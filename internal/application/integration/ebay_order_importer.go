package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/currency"
	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/erp/sale-ebay/internal/domain/sale"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/erp/sale-ebay/internal/infrastructure/logger"
	"github.com/erp/sale-ebay/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ShippingLineDescription is the description of the synthetic shipping line
const ShippingLineDescription = "eBay Shipping and Handling"

const defaultLockTTL = 2 * time.Minute

// ErrImportInProgress is returned when another import holds the lock for the same order
var ErrImportInProgress = shared.NewDomainError("IMPORT_IN_PROGRESS", "Order is already being imported")

// OrderImporter turns eBay orders into sales.
//
// Every import runs in one transaction: the sale, its lines, the buyer and
// address records and any channel exception are committed together or not
// at all.
type OrderImporter struct {
	uow      UnitOfWork
	apis     TradingAPIFactory
	parties  PartyResolver
	products ProductImporter
	logger   *zap.Logger

	lock    ImportLock
	lockTTL time.Duration
	archive OrderArchive
	metrics *telemetry.ImportMetrics
}

// NewOrderImporter creates an OrderImporter
func NewOrderImporter(uow UnitOfWork, apis TradingAPIFactory, parties PartyResolver, products ProductImporter, log *zap.Logger) *OrderImporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderImporter{
		uow:      uow,
		apis:     apis,
		parties:  parties,
		products: products,
		logger:   log.Named("ebay_order_importer"),
		lockTTL:  defaultLockTTL,
	}
}

// SetImportLock makes imports of the same order ID mutually exclusive
func (s *OrderImporter) SetImportLock(lock ImportLock, ttl time.Duration) {
	s.lock = lock
	if ttl > 0 {
		s.lockTTL = ttl
	}
}

// SetOrderArchive stores every fetched GetOrders response
func (s *OrderImporter) SetOrderArchive(archive OrderArchive) {
	s.archive = archive
}

// SetImportMetrics sets the metrics recorder
func (s *OrderImporter) SetImportMetrics(m *telemetry.ImportMetrics) {
	s.metrics = m
}

// FindOrCreateUsingEbayID returns the sale for orderID. An existing sale
// is returned as is without contacting eBay. Otherwise the order is fetched
// through the current channel's credentials and imported.
func (s *OrderImporter) FindOrCreateUsingEbayID(ctx context.Context, orderID string) (result *ImportResult, err error) {
	if orderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "eBay order ID cannot be empty")
	}

	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "ebay_order", "find_or_create", telemetry.SpanAttrEbayOrderID, orderID)
	defer span.End()
	defer func() { s.finish(ctx, span, result, err, time.Since(start)) }()

	release, err := s.acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = RunInTransaction(ctx, s.uow, func(repos Repositories) error {
		existing, err := repos.Sales().FindByEbayOrderID(ctx, orderID)
		if err == nil {
			result = &ImportResult{Sale: existing, Outcome: ImportOutcomeExisting}
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		ch, err := s.currentChannel(ctx, repos)
		if err != nil {
			return err
		}
		api, err := s.apis.ForChannel(ch)
		if err != nil {
			return err
		}

		resp, err := api.GetOrders(ctx, integration.GetOrdersRequest{
			OrderIDs:    []string{orderID},
			DetailLevel: integration.DetailLevelReturnAll,
		})
		if err != nil {
			return err
		}
		if len(resp.Orders) == 0 {
			return fmt.Errorf("%w: %s", integration.ErrOrderNotFound, orderID)
		}
		s.archiveResponse(ctx, ch.ID, orderID, resp.Raw)

		result, err = s.createUsingEbayData(ctx, repos, ch, api, &resp.Orders[0])
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateUsingEbayData creates a sale from order data already fetched from eBay
func (s *OrderImporter) CreateUsingEbayData(ctx context.Context, order *integration.EbayOrder) (result *ImportResult, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "ebay_order", "create", telemetry.SpanAttrEbayOrderID, order.OrderID)
	defer span.End()
	defer func() { s.finish(ctx, span, result, err, time.Since(start)) }()

	err = RunInTransaction(ctx, s.uow, func(repos Repositories) error {
		ch, err := s.currentChannel(ctx, repos)
		if err != nil {
			return err
		}
		api, err := s.apis.ForChannel(ch)
		if err != nil {
			return err
		}
		result, err = s.createUsingEbayData(ctx, repos, ch, api, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *OrderImporter) createUsingEbayData(
	ctx context.Context,
	repos Repositories,
	ch *channel.Channel,
	api integration.TradingAPI,
	order *integration.EbayOrder,
) (*ImportResult, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	reportedTotal, err := order.TotalAmount()
	if err != nil {
		return nil, err
	}
	saleDate, err := order.SaleDate()
	if err != nil {
		return nil, err
	}

	cur, err := s.currency(ctx, repos, order.Total.CurrencyID)
	if err != nil {
		return nil, err
	}

	party, err := s.parties.FindOrCreateUsingEbayID(ctx, repos, api, order.BuyerUserID, order.FirstItemID())
	if err != nil {
		return nil, err
	}
	if err := s.parties.AddPhoneUsingEbayData(ctx, repos, party, order.ShippingAddress.Phone); err != nil {
		return nil, err
	}
	address, err := s.parties.FindOrCreateAddressUsingEbayData(ctx, repos, party, order.ShippingAddress)
	if err != nil {
		return nil, err
	}

	unit, err := s.unit(ctx, repos)
	if err != nil {
		return nil, err
	}

	sl, err := sale.NewSale(order.OrderID, party.ID, cur.Code, saleDate)
	if err != nil {
		return nil, err
	}
	sl.SetEbayOrderID(order.OrderID)
	sl.SetChannel(ch.ID)
	sl.SetAddresses(address.ID, address.ID)

	for _, tx := range order.Transactions() {
		in, err := s.ItemLineData(ctx, repos, api, tx, unit)
		if err != nil {
			return nil, err
		}
		if _, err := sl.AddLine(in); err != nil {
			return nil, err
		}
	}
	shipping, err := ShippingLineData(order, unit)
	if err != nil {
		return nil, err
	}
	if _, err := sl.AddLine(shipping); err != nil {
		return nil, err
	}

	if err := repos.Sales().Save(ctx, sl); err != nil {
		return nil, err
	}

	log := logger.WithLogger(ctx, s.logger).With(
		zap.String("ebay_order_id", order.OrderID),
		zap.String("sale_id", sl.ID.String()),
		zap.String("channel_id", ch.ID.String()),
	)

	if !sl.TotalAmount().Equal(reportedTotal) {
		exc, err := channel.NewException(ch.ID, channel.SaleOrigin(sl.ID), channel.LogTotalMismatch)
		if err != nil {
			return nil, err
		}
		if err := repos.Exceptions().Save(ctx, exc); err != nil {
			return nil, err
		}
		log.Warn("eBay order total does not match",
			zap.String("computed_total", sl.TotalAmount().String()),
			zap.String("reported_total", reportedTotal.String()),
		)
		return &ImportResult{Sale: sl, Outcome: ImportOutcomeMismatch, Exception: exc}, nil
	}

	// TODO: discounts, taxes and invoicing once the channel reports them
	if err := sl.Quote(); err != nil {
		return nil, err
	}
	if err := sl.Confirm(); err != nil {
		return nil, err
	}
	if err := repos.Sales().Save(ctx, sl); err != nil {
		return nil, err
	}

	log.Info("eBay order imported", zap.Int("lines", len(sl.Lines)))
	return &ImportResult{Sale: sl, Outcome: ImportOutcomeConfirmed}, nil
}

// ItemLineData maps one transaction to a sale line. The product is looked
// up by item ID and imported from eBay when unknown.
func (s *OrderImporter) ItemLineData(
	ctx context.Context,
	repos Repositories,
	api integration.TradingAPI,
	tx integration.Transaction,
	unit *catalog.UnitOfMeasure,
) (sale.LineInput, error) {
	price, err := tx.TransactionPrice.Decimal()
	if err != nil {
		return sale.LineInput{}, err
	}
	qty, err := tx.Quantity()
	if err != nil {
		return sale.LineInput{}, err
	}
	product, err := s.products.ImportProduct(ctx, repos, api, tx.Item.ItemID)
	if err != nil {
		return sale.LineInput{}, err
	}
	productID := product.ID
	return sale.LineInput{
		Description: lineDescription(tx.Item, product),
		Quantity:    qty,
		UnitPrice:   price,
		UnitID:      unit.ID,
		ProductID:   &productID,
	}, nil
}

// lineDescription is the listing title, falling back to the product name
// and then the item ID when eBay sends an empty title.
func lineDescription(item integration.Item, product *catalog.Product) string {
	if title := strings.TrimSpace(item.Title); title != "" {
		return title
	}
	if product != nil && strings.TrimSpace(product.Name) != "" {
		return product.Name
	}
	return item.ItemID
}

// ShippingLineData maps the selected shipping service to the shipping line.
// A missing service or cost gives a zero price and an empty note.
func ShippingLineData(order *integration.EbayOrder, unit *catalog.UnitOfMeasure) (sale.LineInput, error) {
	cost, err := order.ShippingServiceSelected.Cost()
	if err != nil {
		return sale.LineInput{}, err
	}
	return sale.LineInput{
		Description: ShippingLineDescription,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   cost,
		UnitID:      unit.ID,
		Note:        order.ShippingServiceSelected.Label(),
	}, nil
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func (s *OrderImporter) currentChannel(ctx context.Context, repos Repositories) (*channel.Channel, error) {
	id, ok := channel.CurrentChannelID(ctx)
	if !ok {
		return nil, channel.ErrNoCurrentChannel
	}
	ch, err := repos.Channels().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError(channel.ErrChannelMisconfigured.Code,
				fmt.Sprintf("Channel %s does not exist", id), err)
		}
		return nil, err
	}
	if err := ch.ValidateEbayChannel(); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *OrderImporter) currency(ctx context.Context, repos Repositories, code string) (*currency.Currency, error) {
	found, err := repos.Currencies().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, shared.NewDomainError(currency.ErrCurrencyNotFound.Code,
			fmt.Sprintf("Currency %s not found", code))
	case 1:
		return &found[0], nil
	default:
		return nil, shared.NewDomainError(shared.ErrAmbiguousLookup.Code,
			fmt.Sprintf("Currency %s matches %d records", code, len(found)))
	}
}

func (s *OrderImporter) unit(ctx context.Context, repos Repositories) (*catalog.UnitOfMeasure, error) {
	found, err := repos.Uoms().FindByName(ctx, catalog.UnitName)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, shared.NewDomainError(catalog.ErrUomNotFound.Code,
			fmt.Sprintf("Unit of measure %q not found", catalog.UnitName))
	case 1:
		return &found[0], nil
	default:
		return nil, shared.NewDomainError(shared.ErrAmbiguousLookup.Code,
			fmt.Sprintf("Unit of measure %q matches %d records", catalog.UnitName, len(found)))
	}
}

// ---------------------------------------------------------------------------
// Lock, archive, metrics
// ---------------------------------------------------------------------------

func lockKey(orderID string) string {
	return "ebay:order:" + orderID
}

func (s *OrderImporter) acquire(ctx context.Context, orderID string) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	key := lockKey(orderID)
	ok, err := s.lock.TryLock(ctx, key, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return nil, ErrImportInProgress
	}
	return func() {
		if err := s.lock.Unlock(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release import lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *OrderImporter) archiveResponse(ctx context.Context, channelID uuid.UUID, orderID string, raw []byte) {
	if s.archive == nil || len(raw) == 0 {
		return
	}
	if err := s.archive.Store(ctx, channelID, orderID, raw); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("failed to archive eBay order",
			zap.String("ebay_order_id", orderID),
			zap.Error(err),
		)
	}
}

func (s *OrderImporter) finish(ctx context.Context, span trace.Span, result *ImportResult, err error, d time.Duration) {
	outcome := telemetry.OutcomeFailed
	if err != nil {
		telemetry.RecordError(span, err)
	} else if result != nil {
		outcome = string(result.Outcome)
		telemetry.SetAttributes(span,
			telemetry.SpanAttrOutcome, outcome,
			telemetry.SpanAttrSaleID, result.Sale.ID.String(),
			telemetry.SpanAttrLineCount, len(result.Sale.Lines),
		)
	}
	s.metrics.RecordImport(ctx, outcome, d)
}
