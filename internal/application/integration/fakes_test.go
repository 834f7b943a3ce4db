package integration

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/currency"
	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/erp/sale-ebay/internal/domain/sale"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ---------------------------------------------------------------------------
// In-memory unit of work
// ---------------------------------------------------------------------------

type memData struct {
	sales      map[uuid.UUID]*sale.Sale
	parties    map[uuid.UUID]*partner.Party
	addresses  map[uuid.UUID]*partner.Address
	currencies map[uuid.UUID]*currency.Currency
	channels   map[uuid.UUID]*channel.Channel
	exceptions map[uuid.UUID]*channel.Exception
	uoms       map[uuid.UUID]*catalog.UnitOfMeasure
	products   map[uuid.UUID]*catalog.Product
}

func newMemData() *memData {
	return &memData{
		sales:      map[uuid.UUID]*sale.Sale{},
		parties:    map[uuid.UUID]*partner.Party{},
		addresses:  map[uuid.UUID]*partner.Address{},
		currencies: map[uuid.UUID]*currency.Currency{},
		channels:   map[uuid.UUID]*channel.Channel{},
		exceptions: map[uuid.UUID]*channel.Exception{},
		uoms:       map[uuid.UUID]*catalog.UnitOfMeasure{},
		products:   map[uuid.UUID]*catalog.Product{},
	}
}

func (d *memData) clone() *memData {
	return &memData{
		sales:      maps.Clone(d.sales),
		parties:    maps.Clone(d.parties),
		addresses:  maps.Clone(d.addresses),
		currencies: maps.Clone(d.currencies),
		channels:   maps.Clone(d.channels),
		exceptions: maps.Clone(d.exceptions),
		uoms:       maps.Clone(d.uoms),
		products:   maps.Clone(d.products),
	}
}

type memUnitOfWork struct {
	mu        sync.Mutex
	data      *memData
	commits   int
	rollbacks int
	commitErr error
}

func newMemUnitOfWork() *memUnitOfWork {
	return &memUnitOfWork{data: newMemData()}
}

func (u *memUnitOfWork) Begin(ctx context.Context) (Transaction, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &memTx{uow: u, data: u.data.clone()}, nil
}

type memTx struct {
	uow  *memUnitOfWork
	data *memData
}

func (t *memTx) Commit() error {
	t.uow.mu.Lock()
	defer t.uow.mu.Unlock()
	if t.uow.commitErr != nil {
		return t.uow.commitErr
	}
	t.uow.commits++
	t.uow.data = t.data
	return nil
}

func (t *memTx) Rollback() error {
	t.uow.mu.Lock()
	defer t.uow.mu.Unlock()
	t.uow.rollbacks++
	return nil
}

func (t *memTx) Sales() sale.Repository { return memSales{t.data} }
func (t *memTx) Parties() partner.PartyRepository { return memParties{t.data} }
func (t *memTx) Addresses() partner.AddressRepository { return memAddresses{t.data} }
func (t *memTx) Currencies() currency.Repository { return memCurrencies{t.data} }
func (t *memTx) Channels() channel.Repository { return memChannels{t.data} }
func (t *memTx) Exceptions() channel.ExceptionRepository { return memExceptions{t.data} }
func (t *memTx) Uoms() catalog.UomRepository { return memUoms{t.data} }
func (t *memTx) Products() catalog.ProductRepository { return memProducts{t.data} }

var errNotFound = shared.NewDomainError("NOT_FOUND", "not found")

type memSales struct{ d *memData }

func (r memSales) ExistsWithEbayOrderID(ctx context.Context, orderID string, excludeID uuid.UUID) (bool, error) {
	for _, s := range r.d.sales {
		if s.EbayOrderID == orderID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memSales) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	if s, ok := r.d.sales[id]; ok {
		return s, nil
	}
	return nil, errNotFound
}

func (r memSales) FindByEbayOrderID(ctx context.Context, orderID string) (*sale.Sale, error) {
	for _, s := range r.d.sales {
		if s.EbayOrderID == orderID {
			return s, nil
		}
	}
	return nil, errNotFound
}

func (r memSales) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	out := make([]sale.Sale, 0, len(r.d.sales))
	for _, s := range r.d.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r memSales) Save(ctx context.Context, s *sale.Sale) error {
	return r.SaveBatch(ctx, []*sale.Sale{s})
}

func (r memSales) SaveBatch(ctx context.Context, sales []*sale.Sale) error {
	if err := sale.CheckEbayOrderIDs(ctx, r, sales...); err != nil {
		return err
	}
	for _, s := range sales {
		r.d.sales[s.ID] = s
	}
	return nil
}

type memParties struct{ d *memData }

func (r memParties) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	if p, ok := r.d.parties[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (r memParties) FindByEbayUserID(ctx context.Context, ebayUserID string) (*partner.Party, error) {
	for _, p := range r.d.parties {
		if p.EbayUserID == ebayUserID {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r memParties) Save(ctx context.Context, p *partner.Party) error {
	r.d.parties[p.ID] = p
	return nil
}

type memAddresses struct{ d *memData }

func (r memAddresses) FindByParty(ctx context.Context, partyID uuid.UUID) ([]partner.Address, error) {
	var out []partner.Address
	for _, a := range r.d.addresses {
		if a.PartyID == partyID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r memAddresses) Save(ctx context.Context, a *partner.Address) error {
	r.d.addresses[a.ID] = a
	return nil
}

type memCurrencies struct{ d *memData }

func (r memCurrencies) FindByID(ctx context.Context, id uuid.UUID) (*currency.Currency, error) {
	if c, ok := r.d.currencies[id]; ok {
		return c, nil
	}
	return nil, errNotFound
}

func (r memCurrencies) FindByCode(ctx context.Context, code string) ([]currency.Currency, error) {
	var out []currency.Currency
	for _, c := range r.d.currencies {
		if c.Code == code {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r memCurrencies) Save(ctx context.Context, c *currency.Currency) error {
	r.d.currencies[c.ID] = c
	return nil
}

type memChannels struct{ d *memData }

func (r memChannels) FindByID(ctx context.Context, id uuid.UUID) (*channel.Channel, error) {
	if c, ok := r.d.channels[id]; ok {
		return c, nil
	}
	return nil, errNotFound
}

func (r memChannels) FindByCode(ctx context.Context, code string) (*channel.Channel, error) {
	for _, c := range r.d.channels {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (r memChannels) FindAll(ctx context.Context) ([]channel.Channel, error) {
	out := make([]channel.Channel, 0, len(r.d.channels))
	for _, c := range r.d.channels {
		out = append(out, *c)
	}
	return out, nil
}

func (r memChannels) Save(ctx context.Context, c *channel.Channel) error {
	r.d.channels[c.ID] = c
	return nil
}

type memExceptions struct{ d *memData }

func (r memExceptions) FindByID(ctx context.Context, id uuid.UUID) (*channel.Exception, error) {
	if e, ok := r.d.exceptions[id]; ok {
		return e, nil
	}
	return nil, errNotFound
}

func (r memExceptions) FindByOrigin(ctx context.Context, origin string) ([]channel.Exception, error) {
	var out []channel.Exception
	for _, e := range r.d.exceptions {
		if e.Origin == origin {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r memExceptions) FindByChannel(ctx context.Context, channelID uuid.UUID, resolved *bool) ([]channel.Exception, error) {
	var out []channel.Exception
	for _, e := range r.d.exceptions {
		if e.ChannelID != channelID {
			continue
		}
		if resolved != nil && e.IsResolved != *resolved {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r memExceptions) Save(ctx context.Context, e *channel.Exception) error {
	r.d.exceptions[e.ID] = e
	return nil
}

type memUoms struct{ d *memData }

func (r memUoms) FindByName(ctx context.Context, name string) ([]catalog.UnitOfMeasure, error) {
	var out []catalog.UnitOfMeasure
	for _, u := range r.d.uoms {
		if u.Name == name {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r memUoms) Save(ctx context.Context, u *catalog.UnitOfMeasure) error {
	r.d.uoms[u.ID] = u
	return nil
}

type memProducts struct{ d *memData }

func (r memProducts) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.d.products[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (r memProducts) FindByEbayItemID(ctx context.Context, itemID string) (*catalog.Product, error) {
	for _, p := range r.d.products {
		if p.EbayItemID == itemID {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r memProducts) Save(ctx context.Context, p *catalog.Product) error {
	r.d.products[p.ID] = p
	return nil
}

// ---------------------------------------------------------------------------
// Trading API mock
// ---------------------------------------------------------------------------

type MockTradingAPI struct {
	mock.Mock
}

func (m *MockTradingAPI) GetOrders(ctx context.Context, req integration.GetOrdersRequest) (*integration.GetOrdersResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.GetOrdersResult), args.Error(1)
}

func (m *MockTradingAPI) GetItem(ctx context.Context, itemID string) (*integration.EbayItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.EbayItem), args.Error(1)
}

func (m *MockTradingAPI) GetUser(ctx context.Context, userID, itemID string) (*integration.EbayUser, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.EbayUser), args.Error(1)
}

type staticAPIFactory struct {
	api integration.TradingAPI
}

func (f staticAPIFactory) ForChannel(ch *channel.Channel) (integration.TradingAPI, error) {
	return f.api, nil
}

// ---------------------------------------------------------------------------
// Lock and archive fakes
// ---------------------------------------------------------------------------

type stubLock struct {
	held     map[string]bool
	unlocked []string
}

func (l *stubLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *stubLock) Unlock(ctx context.Context, key string) error {
	delete(l.held, key)
	l.unlocked = append(l.unlocked, key)
	return nil
}

type recordingArchive struct {
	stored map[string][]byte
	err    error
}

func (a *recordingArchive) Store(ctx context.Context, channelID uuid.UUID, orderID string, raw []byte) error {
	if a.err != nil {
		return a.err
	}
	a.stored[orderID] = raw
	return nil
}

var errArchiveDown = errors.New("archive unavailable")
