package models

import (
	"github.com/erp/sale-ebay/internal/domain/currency"
)

// CurrencyModel is the persistence model for a currency
type CurrencyModel struct {
	BaseModel
	Code   string `gorm:"type:varchar(3);not null;index"`
	Name   string `gorm:"type:varchar(100);not null"`
	Symbol string `gorm:"type:varchar(10)"`
	Digits int    `gorm:"not null;default:2"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the persistence model to a domain Currency
func (m *CurrencyModel) ToDomain() *currency.Currency {
	return &currency.Currency{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		Symbol:     m.Symbol,
		Digits:     m.Digits,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Currency
func (m *CurrencyModel) FromDomain(c *currency.Currency) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Code = c.Code
	m.Name = c.Name
	m.Symbol = c.Symbol
	m.Digits = c.Digits
	m.Active = c.Active
}
