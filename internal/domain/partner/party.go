// Package partner models buyers (parties) with their contact mechanisms
// and addresses.
package partner

import (
	"regexp"
	"strings"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactType is the kind of contact mechanism
type ContactType string

const (
	ContactTypePhone ContactType = "phone"
	ContactTypeEmail ContactType = "email"
)

// ErrPartyNotFound is returned when no party matches a lookup
var ErrPartyNotFound = shared.NewDomainError("PARTY_NOT_FOUND", "Party not found")

// ContactMechanism is a phone number or email address of a party
type ContactMechanism struct {
	ID      uuid.UUID
	PartyID uuid.UUID
	Type    ContactType
	Value   string
}

// Party is a customer. Parties imported from eBay carry the buyer's user ID.
type Party struct {
	shared.BaseAggregateRoot
	Name       string
	EbayUserID string
	Contacts   []ContactMechanism
}

var validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)

// NewParty creates a party
func NewParty(name string) (*Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Party name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Party name cannot exceed 200 characters")
	}
	return &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Contacts:          make([]ContactMechanism, 0),
	}, nil
}

// NewEbayParty creates a party for an eBay buyer
func NewEbayParty(name, ebayUserID string) (*Party, error) {
	if ebayUserID == "" {
		return nil, shared.NewDomainError("INVALID_EBAY_USER", "eBay user ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		name = ebayUserID
	}
	p, err := NewParty(name)
	if err != nil {
		return nil, err
	}
	p.EbayUserID = ebayUserID
	return p, nil
}

// HasContact reports whether the party already has value for contact type t
func (p *Party) HasContact(t ContactType, value string) bool {
	for _, c := range p.Contacts {
		if c.Type == t && strings.EqualFold(c.Value, value) {
			return true
		}
	}
	return false
}

// AddContact adds a contact mechanism unless it already exists.
// It returns true when a new contact was added.
func (p *Party) AddContact(t ContactType, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	if t == ContactTypePhone && !validPhone.MatchString(value) {
		return false, shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	if p.HasContact(t, value) {
		return false, nil
	}
	p.Contacts = append(p.Contacts, ContactMechanism{
		ID:      uuid.New(),
		PartyID: p.ID,
		Type:    t,
		Value:   value,
	})
	p.Touch()
	return true, nil
}

// Phone returns the first phone number of the party
func (p *Party) Phone() string {
	for _, c := range p.Contacts {
		if c.Type == ContactTypePhone {
			return c.Value
		}
	}
	return ""
}

// Email returns the first email address of the party
func (p *Party) Email() string {
	for _, c := range p.Contacts {
		if c.Type == ContactTypeEmail {
			return c.Value
		}
	}
	return ""
}
