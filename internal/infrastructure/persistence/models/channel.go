package models

import (
	"time"

	"github.com/erp/sale-ebay/internal/domain/channel"
)

// ChannelModel is the persistence model for the Channel aggregate root.
type ChannelModel struct {
	AggregateModel
	Name          string         `gorm:"type:varchar(100);not null"`
	Code          string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Source        channel.Source `gorm:"type:varchar(20);not null"`
	Active        bool           `gorm:"not null;default:true"`
	EbayAppID     string         `gorm:"type:varchar(100)"`
	EbayDevID     string         `gorm:"type:varchar(100)"`
	EbayCertID    string         `gorm:"type:varchar(100)"`
	EbayAuthToken string         `gorm:"type:text"`
	EbaySiteID    int            `gorm:"not null;default:0"`
	EbaySandbox   bool           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ChannelModel) TableName() string {
	return "sale_channels"
}

// ToDomain converts the persistence model to a domain Channel entity.
func (m *ChannelModel) ToDomain() *channel.Channel {
	return &channel.Channel{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Code:              m.Code,
		Source:            m.Source,
		Active:            m.Active,
		Ebay: channel.EbayCredentials{
			AppID:     m.EbayAppID,
			DevID:     m.EbayDevID,
			CertID:    m.EbayCertID,
			AuthToken: m.EbayAuthToken,
			SiteID:    m.EbaySiteID,
			Sandbox:   m.EbaySandbox,
		},
	}
}

// FromDomain populates the persistence model from a domain Channel entity.
func (m *ChannelModel) FromDomain(c *channel.Channel) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Code = c.Code
	m.Source = c.Source
	m.Active = c.Active
	m.EbayAppID = c.Ebay.AppID
	m.EbayDevID = c.Ebay.DevID
	m.EbayCertID = c.Ebay.CertID
	m.EbayAuthToken = c.Ebay.AuthToken
	m.EbaySiteID = c.Ebay.SiteID
	m.EbaySandbox = c.Ebay.Sandbox
}

// ChannelExceptionModel is the persistence model for a channel exception
type ChannelExceptionModel struct {
	ChannelAggregateModel
	Origin     string `gorm:"type:varchar(100);not null;index"`
	Log        string `gorm:"type:text"`
	IsResolved bool   `gorm:"not null;default:false;index"`
	ResolvedAt *time.Time
}

// TableName returns the table name for GORM
func (ChannelExceptionModel) TableName() string {
	return "sale_channel_exceptions"
}

// ToDomain converts the persistence model to a domain Exception
func (m *ChannelExceptionModel) ToDomain() *channel.Exception {
	return &channel.Exception{
		ChannelAggregateRoot: m.ToChannelAggregateRoot(),
		Origin:               m.Origin,
		Log:                  m.Log,
		IsResolved:           m.IsResolved,
		ResolvedAt:           m.ResolvedAt,
	}
}

// FromDomain populates the persistence model from a domain Exception
func (m *ChannelExceptionModel) FromDomain(e *channel.Exception) {
	m.FromDomainChannelAggregateRoot(e.ChannelAggregateRoot)
	m.Origin = e.Origin
	m.Log = e.Log
	m.IsResolved = e.IsResolved
	m.ResolvedAt = e.ResolvedAt
}
