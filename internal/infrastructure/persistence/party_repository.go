package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/erp/sale-ebay/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartyRepository implements partner.PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a party by its ID
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	var model models.PartyModel
	if err := r.db.WithContext(ctx).Preload("Contacts").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, partner.ErrPartyNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEbayUserID finds the party created for an eBay buyer
func (r *GormPartyRepository) FindByEbayUserID(ctx context.Context, ebayUserID string) (*partner.Party, error) {
	var model models.PartyModel
	if err := r.db.WithContext(ctx).
		Preload("Contacts").
		Where("ebay_user_id = ?", ebayUserID).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, partner.ErrPartyNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a party with its contact mechanisms
func (r *GormPartyRepository) Save(ctx context.Context, p *partner.Party) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var header models.PartyModel
		header.FromDomain(p)
		if err := tx.Save(&header).Error; err != nil {
			return fmt.Errorf("save party %s: %w", p.ID, err)
		}

		contacts := models.ContactModelsFromDomain(p)
		keep := make([]uuid.UUID, len(contacts))
		for i, c := range contacts {
			keep[i] = c.ID
		}
		stale := tx.Where("party_id = ?", p.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&models.ContactMechanismModel{}).Error; err != nil {
			return err
		}
		for i := range contacts {
			if err := tx.Save(&contacts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GormAddressRepository implements partner.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByParty lists the addresses of a party, oldest first
func (r *GormAddressRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]partner.Address, error) {
	var rows []models.AddressModel
	if err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	addresses := make([]partner.Address, len(rows))
	for i := range rows {
		addresses[i] = *rows[i].ToDomain()
	}
	return addresses, nil
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, a *partner.Address) error {
	var model models.AddressModel
	model.FromDomain(a)
	return r.db.WithContext(ctx).Save(&model).Error
}

var (
	_ partner.PartyRepository   = (*GormPartyRepository)(nil)
	_ partner.AddressRepository = (*GormAddressRepository)(nil)
)
