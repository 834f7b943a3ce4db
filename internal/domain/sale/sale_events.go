package sale

import (
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSale is the aggregate type of sale events
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated   = "SaleCreated"
	EventTypeSaleConfirmed = "SaleConfirmed"
)

// SaleCreatedEvent is raised when a new sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID    uuid.UUID `json:"sale_id"`
	Reference string    `json:"reference"`
	PartyID   uuid.UUID `json:"party_id"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		Reference:       s.Reference,
		PartyID:         s.PartyID,
	}
}

// SaleConfirmedEvent is raised when a sale is confirmed
type SaleConfirmedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	EbayOrderID  string          `json:"ebay_order_id,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CurrencyCode string          `json:"currency_code"`
}

// NewSaleConfirmedEvent creates a new SaleConfirmedEvent
func NewSaleConfirmedEvent(s *Sale) *SaleConfirmedEvent {
	return &SaleConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleConfirmed, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		EbayOrderID:     s.EbayOrderID,
		TotalAmount:     s.TotalAmount(),
		CurrencyCode:    s.CurrencyCode,
	}
}
