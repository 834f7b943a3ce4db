package sale

import (
	"fmt"
	"time"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State represents the workflow state of a sale
type State string

const (
	StateDraft     State = "draft"
	StateQuotation State = "quotation"
	StateConfirmed State = "confirmed"
	StateCancelled State = "cancelled"
)

// IsValid checks if the state is a valid State
func (s State) IsValid() bool {
	switch s {
	case StateDraft, StateQuotation, StateConfirmed, StateCancelled:
		return true
	}
	return false
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateDraft:
		return target == StateQuotation || target == StateCancelled
	case StateQuotation:
		return target == StateConfirmed || target == StateDraft || target == StateCancelled
	case StateConfirmed, StateCancelled:
		return false
	}
	return false
}

// Line is a single line of a sale.
// ProductID is nil for service lines such as shipping.
type Line struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	Sequence    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitID      uuid.UUID
	ProductID   *uuid.UUID
	Note        string
}

// LineInput carries the values needed to add a line to a sale.
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitID      uuid.UUID
	ProductID   *uuid.UUID
	Note        string
}

// Amount returns Quantity * UnitPrice
func (l Line) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Sale is the sale aggregate root.
type Sale struct {
	shared.ChannelAggregateRoot
	Reference         string
	EbayOrderID       string
	SaleDate          time.Time
	PartyID           uuid.UUID
	CurrencyCode      string
	InvoiceAddressID  uuid.UUID
	ShipmentAddressID uuid.UUID
	Lines             []Line
	State             State
	QuotedAt          *time.Time
	ConfirmedAt       *time.Time
}

// NewSale creates a new sale in draft state
func NewSale(reference string, partyID uuid.UUID, currencyCode string, saleDate time.Time) (*Sale, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party cannot be empty")
	}
	if currencyCode == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if len(reference) > 100 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 100 characters")
	}

	s := &Sale{
		ChannelAggregateRoot: shared.NewChannelAggregateRoot(uuid.Nil),
		Reference:            reference,
		SaleDate:             truncateToDate(saleDate),
		PartyID:              partyID,
		CurrencyCode:         currencyCode,
		Lines:                make([]Line, 0),
		State:                StateDraft,
	}
	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// SetEbayOrderID records the marketplace order identifier on the sale
func (s *Sale) SetEbayOrderID(orderID string) {
	s.EbayOrderID = orderID
	s.Touch()
}

// SetChannel assigns the channel the sale was taken from
func (s *Sale) SetChannel(channelID uuid.UUID) {
	s.ChannelID = channelID
	s.Touch()
}

// SetAddresses sets the invoice and shipment addresses
func (s *Sale) SetAddresses(invoiceAddressID, shipmentAddressID uuid.UUID) {
	s.InvoiceAddressID = invoiceAddressID
	s.ShipmentAddressID = shipmentAddressID
	s.Touch()
}

// AddLine appends a line. Only allowed in draft state.
func (s *Sale) AddLine(in LineInput) (*Line, error) {
	if s.State != StateDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft sale")
	}
	if in.Description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if in.Quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if in.UnitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	line := Line{
		ID:          uuid.New(),
		SaleID:      s.ID,
		Sequence:    len(s.Lines) + 1,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		UnitID:      in.UnitID,
		ProductID:   in.ProductID,
		Note:        in.Note,
	}
	s.Lines = append(s.Lines, line)
	s.Touch()

	return &s.Lines[len(s.Lines)-1], nil
}

// TotalAmount sums the amount of every line
func (s *Sale) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Amount())
	}
	return total
}

// Quote moves a draft sale to quotation
func (s *Sale) Quote() error {
	if !s.State.CanTransitionTo(StateQuotation) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot quote sale in %s state", s.State))
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot quote a sale without lines")
	}

	now := time.Now()
	s.State = StateQuotation
	s.QuotedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// Confirm moves a quoted sale to confirmed
func (s *Sale) Confirm() error {
	if !s.State.CanTransitionTo(StateConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm sale in %s state", s.State))
	}

	now := time.Now()
	s.State = StateConfirmed
	s.ConfirmedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleConfirmedEvent(s))

	return nil
}

// Cancel cancels a sale that has not been confirmed
func (s *Sale) Cancel() error {
	if !s.State.CanTransitionTo(StateCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s state", s.State))
	}

	s.State = StateCancelled
	s.Touch()
	s.IncrementVersion()

	return nil
}

// IsConfirmed reports whether the sale reached the confirmed state
func (s *Sale) IsConfirmed() bool {
	return s.State == StateConfirmed
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
