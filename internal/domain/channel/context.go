package channel

import (
	"context"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

type currentChannelKey struct{}

// ErrNoCurrentChannel is returned when the execution context carries no channel
var ErrNoCurrentChannel = shared.NewDomainError("CHANNEL_CONFIGURATION", "No current channel in context")

// WithCurrentChannel returns a context carrying the current channel ID
func WithCurrentChannel(ctx context.Context, channelID uuid.UUID) context.Context {
	return context.WithValue(ctx, currentChannelKey{}, channelID)
}

// CurrentChannelID returns the channel carried by ctx
func CurrentChannelID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(currentChannelKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
