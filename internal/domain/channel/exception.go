package channel

import (
	"fmt"
	"time"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// LogTotalMismatch is recorded when an imported order's total disagrees
// with the marketplace
const LogTotalMismatch = "Order total does not match."

// Event type constants
const (
	AggregateTypeChannelException     = "ChannelException"
	EventTypeChannelExceptionRaised   = "ChannelExceptionRaised"
	EventTypeChannelExceptionResolved = "ChannelExceptionResolved"
)

// Exception is a reconciliation record against a channel
type Exception struct {
	shared.ChannelAggregateRoot
	Origin     string
	Log        string
	IsResolved bool
	ResolvedAt *time.Time
}

// SaleOrigin is the origin reference of a sale
func SaleOrigin(saleID uuid.UUID) string {
	return fmt.Sprintf("sale.sale,%s", saleID)
}

// NewException raises an exception for origin on the channel
func NewException(channelID uuid.UUID, origin, log string) (*Exception, error) {
	if channelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Channel cannot be empty")
	}
	if origin == "" {
		return nil, shared.NewDomainError("INVALID_ORIGIN", "Origin cannot be empty")
	}

	e := &Exception{
		ChannelAggregateRoot: shared.NewChannelAggregateRoot(channelID),
		Origin:               origin,
		Log:                  log,
	}
	e.AddDomainEvent(&ExceptionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChannelExceptionRaised, AggregateTypeChannelException, e.ID),
		ChannelID:       channelID,
		Origin:          origin,
	})
	return e, nil
}

// Resolve marks the exception as handled
func (e *Exception) Resolve() error {
	if e.IsResolved {
		return shared.NewDomainError("INVALID_STATE", "Channel exception is already resolved")
	}
	now := time.Now()
	e.IsResolved = true
	e.ResolvedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()
	e.AddDomainEvent(&ExceptionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChannelExceptionResolved, AggregateTypeChannelException, e.ID),
		ChannelID:       e.ChannelID,
		Origin:          e.Origin,
	})
	return nil
}

// ExceptionEvent is raised when an exception is recorded or resolved
type ExceptionEvent struct {
	shared.BaseDomainEvent
	ChannelID uuid.UUID `json:"channel_id"`
	Origin    string    `json:"origin"`
}
