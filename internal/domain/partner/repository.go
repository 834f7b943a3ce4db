package partner

import (
	"context"

	"github.com/google/uuid"
)

// PartyRepository persists parties and their contact mechanisms
type PartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)
	FindByEbayUserID(ctx context.Context, ebayUserID string) (*Party, error)
	Save(ctx context.Context, p *Party) error
}

// AddressRepository persists party addresses
type AddressRepository interface {
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]Address, error)
	Save(ctx context.Context, a *Address) error
}
