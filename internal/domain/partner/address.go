package partner

import (
	"strings"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// AddressInput holds the fields of a postal address
type AddressInput struct {
	Name        string
	Street      string
	Street2     string
	City        string
	Zip         string
	CountryCode string
	Subdivision string
}

// Address is a postal address of a party
type Address struct {
	shared.BaseEntity
	PartyID uuid.UUID
	AddressInput
}

// NewAddress creates an address for party
func NewAddress(partyID uuid.UUID, in AddressInput) (*Address, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party cannot be empty")
	}
	in = in.normalize()
	if in.Street == "" && in.City == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address needs a street or a city")
	}
	if len(in.CountryCode) > 2 {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166-1 alpha-2 code")
	}
	return &Address{
		BaseEntity:   shared.NewBaseEntity(),
		PartyID:      partyID,
		AddressInput: in,
	}, nil
}

// Matches reports whether the address holds the same postal data as in.
// Comparison ignores case and surrounding whitespace.
func (a *Address) Matches(in AddressInput) bool {
	in = in.normalize()
	return strings.EqualFold(a.Name, in.Name) &&
		strings.EqualFold(a.Street, in.Street) &&
		strings.EqualFold(a.Street2, in.Street2) &&
		strings.EqualFold(a.City, in.City) &&
		strings.EqualFold(a.Zip, in.Zip) &&
		strings.EqualFold(a.CountryCode, in.CountryCode) &&
		strings.EqualFold(a.Subdivision, in.Subdivision)
}

func (in AddressInput) normalize() AddressInput {
	return AddressInput{
		Name:        strings.TrimSpace(in.Name),
		Street:      strings.TrimSpace(in.Street),
		Street2:     strings.TrimSpace(in.Street2),
		City:        strings.TrimSpace(in.City),
		Zip:         strings.TrimSpace(in.Zip),
		CountryCode: strings.ToUpper(strings.TrimSpace(in.CountryCode)),
		Subdivision: strings.TrimSpace(in.Subdivision),
	}
}
