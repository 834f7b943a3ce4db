package models

import (
	"github.com/erp/sale-ebay/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	Code        string          `gorm:"type:varchar(50);not null;index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	EbayItemID  string          `gorm:"type:varchar(50);index"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		EbayItemID:        m.EbayItemID,
		ListPrice:         m.ListPrice,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.EbayItemID = p.EbayItemID
	m.ListPrice = p.ListPrice
	m.Active = p.Active
}

// UomModel is the persistence model for a unit of measure
type UomModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);not null;index"`
	Symbol   string `gorm:"type:varchar(20);not null"`
	Category string `gorm:"type:varchar(50)"`
	Digits   int    `gorm:"not null;default:0"`
	Active   bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UomModel) TableName() string {
	return "product_uoms"
}

// ToDomain converts the persistence model to a domain UnitOfMeasure
func (m *UomModel) ToDomain() *catalog.UnitOfMeasure {
	return &catalog.UnitOfMeasure{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Symbol:     m.Symbol,
		Category:   m.Category,
		Digits:     m.Digits,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain UnitOfMeasure
func (m *UomModel) FromDomain(u *catalog.UnitOfMeasure) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Symbol = u.Symbol
	m.Category = u.Category
	m.Digits = u.Digits
	m.Active = u.Active
}
