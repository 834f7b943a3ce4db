package models

import (
	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// PartyModel is the persistence model for the Party aggregate root.
type PartyModel struct {
	AggregateModel
	Name       string                  `gorm:"type:varchar(200);not null"`
	EbayUserID string                  `gorm:"type:varchar(100);index"`
	Contacts   []ContactMechanismModel `gorm:"foreignKey:PartyID;references:ID"`
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// ToDomain converts the persistence model to a domain Party entity.
func (m *PartyModel) ToDomain() *partner.Party {
	p := &partner.Party{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		EbayUserID:        m.EbayUserID,
		Contacts:          make([]partner.ContactMechanism, len(m.Contacts)),
	}
	for i, c := range m.Contacts {
		p.Contacts[i] = partner.ContactMechanism{
			ID:      c.ID,
			PartyID: c.PartyID,
			Type:    partner.ContactType(c.Type),
			Value:   c.Value,
		}
	}
	return p
}

// FromDomain populates the header fields from a domain Party
func (m *PartyModel) FromDomain(p *partner.Party) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.EbayUserID = p.EbayUserID
}

// ContactMechanismModel is a phone number or email of a party
type ContactMechanismModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	PartyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type    string    `gorm:"type:varchar(20);not null"`
	Value   string    `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (ContactMechanismModel) TableName() string {
	return "party_contact_mechanisms"
}

// ContactModelsFromDomain maps the contacts of p
func ContactModelsFromDomain(p *partner.Party) []ContactMechanismModel {
	contacts := make([]ContactMechanismModel, len(p.Contacts))
	for i, c := range p.Contacts {
		contacts[i] = ContactMechanismModel{
			ID:      c.ID,
			PartyID: p.ID,
			Type:    string(c.Type),
			Value:   c.Value,
		}
	}
	return contacts
}

// AddressModel is the persistence model for a party address
type AddressModel struct {
	BaseModel
	PartyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200)"`
	Street      string    `gorm:"type:varchar(255)"`
	Street2     string    `gorm:"type:varchar(255)"`
	City        string    `gorm:"type:varchar(100)"`
	Zip         string    `gorm:"type:varchar(20)"`
	CountryCode string    `gorm:"type:varchar(2)"`
	Subdivision string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "party_addresses"
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *partner.Address {
	return &partner.Address{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		PartyID: m.PartyID,
		AddressInput: partner.AddressInput{
			Name:        m.Name,
			Street:      m.Street,
			Street2:     m.Street2,
			City:        m.City,
			Zip:         m.Zip,
			CountryCode: m.CountryCode,
			Subdivision: m.Subdivision,
		},
	}
}

// FromDomain populates the persistence model from a domain Address
func (m *AddressModel) FromDomain(a *partner.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PartyID = a.PartyID
	m.Name = a.Name
	m.Street = a.Street
	m.Street2 = a.Street2
	m.City = a.City
	m.Zip = a.Zip
	m.CountryCode = a.CountryCode
	m.Subdivision = a.Subdivision
}
