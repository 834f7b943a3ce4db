package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByEbayItemID(ctx context.Context, itemID string) (*Product, error)
	Save(ctx context.Context, p *Product) error
}

// UomRepository looks up units of measure
type UomRepository interface {
	// FindByName returns every active unit whose name is exactly name.
	FindByName(ctx context.Context, name string) ([]UnitOfMeasure, error)
	Save(ctx context.Context, u *UnitOfMeasure) error
}
