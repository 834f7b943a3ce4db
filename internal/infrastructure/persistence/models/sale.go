package models

import (
	"time"

	"github.com/erp/sale-ebay/internal/domain/sale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
// ebay_order_id is indexed but not unique; uniqueness is checked on save.
type SaleModel struct {
	ChannelAggregateModel
	Reference         string          `gorm:"type:varchar(100)"`
	EbayOrderID       string          `gorm:"type:varchar(100);index"`
	SaleDate          time.Time       `gorm:"type:date;not null"`
	PartyID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyCode      string          `gorm:"type:varchar(3);not null"`
	InvoiceAddressID  uuid.UUID       `gorm:"type:uuid"`
	ShipmentAddressID uuid.UUID       `gorm:"type:uuid"`
	Lines             []SaleLineModel `gorm:"foreignKey:SaleID;references:ID"`
	State             sale.State      `gorm:"type:varchar(20);not null;default:'draft'"`
	QuotedAt          *time.Time
	ConfirmedAt       *time.Time
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *sale.Sale {
	s := &sale.Sale{
		ChannelAggregateRoot: m.ToChannelAggregateRoot(),
		Reference:            m.Reference,
		EbayOrderID:          m.EbayOrderID,
		SaleDate:             m.SaleDate.UTC(),
		PartyID:              m.PartyID,
		CurrencyCode:         m.CurrencyCode,
		InvoiceAddressID:     m.InvoiceAddressID,
		ShipmentAddressID:    m.ShipmentAddressID,
		State:                m.State,
		QuotedAt:             m.QuotedAt,
		ConfirmedAt:          m.ConfirmedAt,
		Lines:                make([]sale.Line, len(m.Lines)),
	}
	for i := range m.Lines {
		s.Lines[i] = m.Lines[i].ToDomain()
	}
	return s
}

// FromDomain populates the header fields from a domain Sale.
// Lines are mapped separately with SaleLineModelsFromDomain.
func (m *SaleModel) FromDomain(s *sale.Sale) {
	m.FromDomainChannelAggregateRoot(s.ChannelAggregateRoot)
	m.Reference = s.Reference
	m.EbayOrderID = s.EbayOrderID
	m.SaleDate = s.SaleDate
	m.PartyID = s.PartyID
	m.CurrencyCode = s.CurrencyCode
	m.InvoiceAddressID = s.InvoiceAddressID
	m.ShipmentAddressID = s.ShipmentAddressID
	m.State = s.State
	m.QuotedAt = s.QuotedAt
	m.ConfirmedAt = s.ConfirmedAt
}

// SaleLineModel is the persistence model for a sale line.
type SaleLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitID      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	Note        string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (SaleLineModel) TableName() string {
	return "sale_lines"
}

// ToDomain converts the persistence model to a domain Line
func (m *SaleLineModel) ToDomain() sale.Line {
	return sale.Line{
		ID:          m.ID,
		SaleID:      m.SaleID,
		Sequence:    m.Sequence,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		UnitID:      m.UnitID,
		ProductID:   m.ProductID,
		Note:        m.Note,
	}
}

// SaleLineModelsFromDomain maps the lines of s
func SaleLineModelsFromDomain(s *sale.Sale) []SaleLineModel {
	lines := make([]SaleLineModel, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = SaleLineModel{
			ID:          l.ID,
			SaleID:      s.ID,
			Sequence:    l.Sequence,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitID:      l.UnitID,
			ProductID:   l.ProductID,
			Note:        l.Note,
		}
	}
	return lines
}
