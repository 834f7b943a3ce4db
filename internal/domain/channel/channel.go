// Package channel holds sales channels and the reconciliation exceptions
// raised against them.
package channel

import (
	"github.com/erp/sale-ebay/internal/domain/shared"
)

// Source identifies the marketplace a channel connects to
type Source string

const (
	SourceManual Source = "manual"
	SourceEbay   Source = "ebay"
)

// Configuration errors
var (
	ErrChannelMisconfigured = shared.NewDomainError("CHANNEL_CONFIGURATION", "Channel is not configured correctly")
	ErrChannelNotFound      = shared.NewDomainError("CHANNEL_NOT_FOUND", "Channel not found")
	ErrExceptionNotFound    = shared.NewDomainError("CHANNEL_EXCEPTION_NOT_FOUND", "Channel exception not found")
)

// EbayCredentials are the Trading API credentials of an eBay channel
type EbayCredentials struct {
	AppID     string
	DevID     string
	CertID    string
	AuthToken string
	SiteID    int
	Sandbox   bool
}

// Complete reports whether every required credential is set.
func (c EbayCredentials) Complete() bool {
	return c.AppID != "" && c.DevID != "" && c.CertID != "" && c.AuthToken != ""
}

// Channel is a configured connection to a marketplace account
type Channel struct {
	shared.BaseAggregateRoot
	Name   string
	Code   string
	Source Source
	Active bool
	Ebay   EbayCredentials
}

// NewChannel creates an active channel
func NewChannel(name, code string, source Source) (*Channel, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Channel name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Channel code cannot be empty")
	}
	return &Channel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Source:            source,
		Active:            true,
	}, nil
}

// NewEbayChannel creates an eBay channel with the given credentials
func NewEbayChannel(name, code string, creds EbayCredentials) (*Channel, error) {
	ch, err := NewChannel(name, code, SourceEbay)
	if err != nil {
		return nil, err
	}
	ch.Ebay = creds
	return ch, nil
}

// ValidateEbayChannel fails unless the channel is an active, fully
// configured eBay channel.
func (c *Channel) ValidateEbayChannel() error {
	if c.Source != SourceEbay {
		return shared.WrapDomainError(ErrChannelMisconfigured.Code,
			"Channel \""+c.Name+"\" is not an eBay channel", ErrChannelMisconfigured)
	}
	if !c.Active {
		return shared.WrapDomainError(ErrChannelMisconfigured.Code,
			"Channel \""+c.Name+"\" is inactive", ErrChannelMisconfigured)
	}
	if !c.Ebay.Complete() {
		return shared.WrapDomainError(ErrChannelMisconfigured.Code,
			"Channel \""+c.Name+"\" is missing eBay credentials", ErrChannelMisconfigured)
	}
	return nil
}

// Deactivate stops the channel from being used for imports
func (c *Channel) Deactivate() {
	c.Active = false
	c.Touch()
}
