package integration

import (
	"time"

	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/sale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportOutcome describes how an import call ended
type ImportOutcome string

const (
	// ImportOutcomeExisting means the sale already existed and nothing was fetched
	ImportOutcomeExisting ImportOutcome = "existing"
	// ImportOutcomeConfirmed means the sale was created, quoted and confirmed
	ImportOutcomeConfirmed ImportOutcome = "confirmed"
	// ImportOutcomeMismatch means the sale was created and left in draft with a channel exception
	ImportOutcomeMismatch ImportOutcome = "mismatch"
)

// ImportResult is the result of importing one order
type ImportResult struct {
	Sale      *sale.Sale
	Outcome   ImportOutcome
	Exception *channel.Exception
}

// Created reports whether this call created the sale
func (r *ImportResult) Created() bool {
	return r.Outcome != ImportOutcomeExisting
}

// SaleLineResponse is a sale line as returned to callers
type SaleLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Sequence    int             `json:"sequence"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	UnitID      uuid.UUID       `json:"unit_id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// SaleResponse is a sale as returned to callers
type SaleResponse struct {
	ID                uuid.UUID          `json:"id"`
	Reference         string             `json:"reference"`
	EbayOrderID       string             `json:"ebay_order_id,omitempty"`
	ChannelID         uuid.UUID          `json:"channel_id"`
	SaleDate          string             `json:"sale_date"`
	PartyID           uuid.UUID          `json:"party_id"`
	CurrencyCode      string             `json:"currency_code"`
	InvoiceAddressID  uuid.UUID          `json:"invoice_address_id"`
	ShipmentAddressID uuid.UUID          `json:"shipment_address_id"`
	State             string             `json:"state"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	Lines             []SaleLineResponse `json:"lines"`
	CreatedAt         time.Time          `json:"created_at"`
	ConfirmedAt       *time.Time         `json:"confirmed_at,omitempty"`
}

// ExceptionResponse is a channel exception as returned to callers
type ExceptionResponse struct {
	ID         uuid.UUID  `json:"id"`
	ChannelID  uuid.UUID  `json:"channel_id"`
	Origin     string     `json:"origin"`
	Log        string     `json:"log"`
	IsResolved bool       `json:"is_resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// ImportResponse is the result of an import call
type ImportResponse struct {
	Outcome   ImportOutcome      `json:"outcome"`
	Sale      SaleResponse       `json:"sale"`
	Exception *ExceptionResponse `json:"exception,omitempty"`
}

// ChannelResponse is a channel without its secrets
type ChannelResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Code    string    `json:"code"`
	Source  string    `json:"source"`
	Active  bool      `json:"active"`
	SiteID  int       `json:"site_id"`
	Sandbox bool      `json:"sandbox"`
}

// CreateEbayChannelRequest holds what is needed to register an eBay account
type CreateEbayChannelRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Code      string `json:"code" binding:"required,max=50"`
	AppID     string `json:"app_id" binding:"required"`
	DevID     string `json:"dev_id" binding:"required"`
	CertID    string `json:"cert_id" binding:"required"`
	AuthToken string `json:"auth_token" binding:"required"`
	SiteID    int    `json:"site_id" binding:"gte=0"`
	Sandbox   bool   `json:"sandbox"`
}

// ToSaleResponse converts a sale to its response form
func ToSaleResponse(s *sale.Sale) SaleResponse {
	lines := make([]SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, SaleLineResponse{
			ID:          l.ID,
			Sequence:    l.Sequence,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount(),
			UnitID:      l.UnitID,
			ProductID:   l.ProductID,
			Note:        l.Note,
		})
	}
	return SaleResponse{
		ID:                s.ID,
		Reference:         s.Reference,
		EbayOrderID:       s.EbayOrderID,
		ChannelID:         s.ChannelID,
		SaleDate:          s.SaleDate.Format(time.DateOnly),
		PartyID:           s.PartyID,
		CurrencyCode:      s.CurrencyCode,
		InvoiceAddressID:  s.InvoiceAddressID,
		ShipmentAddressID: s.ShipmentAddressID,
		State:             s.State.String(),
		TotalAmount:       s.TotalAmount(),
		Lines:             lines,
		CreatedAt:         s.CreatedAt,
		ConfirmedAt:       s.ConfirmedAt,
	}
}

// ToExceptionResponse converts a channel exception to its response form
func ToExceptionResponse(e *channel.Exception) ExceptionResponse {
	return ExceptionResponse{
		ID:         e.ID,
		ChannelID:  e.ChannelID,
		Origin:     e.Origin,
		Log:        e.Log,
		IsResolved: e.IsResolved,
		CreatedAt:  e.CreatedAt,
		ResolvedAt: e.ResolvedAt,
	}
}

// ToImportResponse converts an import result to its response form
func ToImportResponse(r *ImportResult) ImportResponse {
	resp := ImportResponse{Outcome: r.Outcome, Sale: ToSaleResponse(r.Sale)}
	if r.Exception != nil {
		exc := ToExceptionResponse(r.Exception)
		resp.Exception = &exc
	}
	return resp
}

// ToChannelResponse converts a channel to its response form
func ToChannelResponse(ch *channel.Channel) ChannelResponse {
	return ChannelResponse{
		ID:      ch.ID,
		Name:    ch.Name,
		Code:    ch.Code,
		Source:  string(ch.Source),
		Active:  ch.Active,
		SiteID:  ch.Ebay.SiteID,
		Sandbox: ch.Ebay.Sandbox,
	}
}
