package ecommerce

import (
	"errors"
	"strconv"
	"time"

	"github.com/erp/sale-ebay/internal/domain/channel"
)

const (
	// EbayProductionAPIURL is the production Trading API endpoint
	EbayProductionAPIURL = "https://api.ebay.com/ws/api.dll"
	// EbaySandboxAPIURL is the sandbox Trading API endpoint
	EbaySandboxAPIURL = "https://api.sandbox.ebay.com/ws/api.dll"

	// DefaultCompatibilityLevel is the Trading API schema version requested
	DefaultCompatibilityLevel = 1193

	defaultTimeoutSeconds = 30
)

var (
	ErrEbayConfigMissingAppID     = errors.New("ebay: app id is required")
	ErrEbayConfigMissingDevID     = errors.New("ebay: dev id is required")
	ErrEbayConfigMissingCertID    = errors.New("ebay: cert id is required")
	ErrEbayConfigMissingAuthToken = errors.New("ebay: auth token is required")
)

// EbayConfig holds the Trading API settings of one eBay account
type EbayConfig struct {
	AppID     string
	DevID     string
	CertID    string
	AuthToken string
	// SiteID is the eBay site the calls are made against, 0 is eBay US
	SiteID int
	// APIBaseURL overrides the endpoint chosen from IsSandbox
	APIBaseURL         string
	IsSandbox          bool
	CompatibilityLevel int
	TimeoutSeconds     int
}

// ClientDefaults are the settings shared by every channel's client
type ClientDefaults struct {
	// ProductionURL and SandboxURL replace the public endpoints when set
	ProductionURL      string
	SandboxURL         string
	CompatibilityLevel int
	Timeout            time.Duration
}

// NewEbayConfigFromChannel builds the configuration for a channel's credentials
func NewEbayConfigFromChannel(ch *channel.Channel, defaults ClientDefaults) *EbayConfig {
	cfg := &EbayConfig{
		AppID:              ch.Ebay.AppID,
		DevID:              ch.Ebay.DevID,
		CertID:             ch.Ebay.CertID,
		AuthToken:          ch.Ebay.AuthToken,
		SiteID:             ch.Ebay.SiteID,
		IsSandbox:          ch.Ebay.Sandbox,
		CompatibilityLevel: defaults.CompatibilityLevel,
		TimeoutSeconds:     int(defaults.Timeout / time.Second),
	}
	if cfg.IsSandbox {
		cfg.APIBaseURL = defaults.SandboxURL
	} else {
		cfg.APIBaseURL = defaults.ProductionURL
	}
	return cfg
}

// Validate checks the credentials and fills in defaults
func (c *EbayConfig) Validate() error {
	switch {
	case c.AppID == "":
		return ErrEbayConfigMissingAppID
	case c.DevID == "":
		return ErrEbayConfigMissingDevID
	case c.CertID == "":
		return ErrEbayConfigMissingCertID
	case c.AuthToken == "":
		return ErrEbayConfigMissingAuthToken
	}
	if c.APIBaseURL == "" {
		if c.IsSandbox {
			c.APIBaseURL = EbaySandboxAPIURL
		} else {
			c.APIBaseURL = EbayProductionAPIURL
		}
	}
	if c.CompatibilityLevel <= 0 {
		c.CompatibilityLevel = DefaultCompatibilityLevel
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	return nil
}

// headers returns the HTTP headers every Trading API call carries
func (c *EbayConfig) headers(callName string) map[string]string {
	return map[string]string{
		"Content-Type":                   "text/xml; charset=utf-8",
		"X-EBAY-API-CALL-NAME":           callName,
		"X-EBAY-API-COMPATIBILITY-LEVEL": strconv.Itoa(c.CompatibilityLevel),
		"X-EBAY-API-SITEID":              strconv.Itoa(c.SiteID),
		"X-EBAY-API-DEV-NAME":            c.DevID,
		"X-EBAY-API-APP-NAME":            c.AppID,
		"X-EBAY-API-CERT-NAME":           c.CertID,
	}
}
