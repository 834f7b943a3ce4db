package channel

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists channels
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Channel, error)
	FindByCode(ctx context.Context, code string) (*Channel, error)
	FindAll(ctx context.Context) ([]Channel, error)
	Save(ctx context.Context, ch *Channel) error
}

// ExceptionRepository persists channel exceptions
type ExceptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Exception, error)
	FindByOrigin(ctx context.Context, origin string) ([]Exception, error)
	FindByChannel(ctx context.Context, channelID uuid.UUID, resolved *bool) ([]Exception, error)
	Save(ctx context.Context, e *Exception) error
}
