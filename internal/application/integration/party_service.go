package integration

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/sale-ebay/internal/domain/integration"
	"github.com/erp/sale-ebay/internal/domain/partner"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"go.uber.org/zap"
)

// maskedPhone is what eBay returns in place of a phone number it will not disclose
const maskedPhone = "Invalid Request"

// EbayPartyService resolves eBay buyers to parties
type EbayPartyService struct {
	logger *zap.Logger
}

var _ PartyResolver = (*EbayPartyService)(nil)

// NewEbayPartyService creates an EbayPartyService
func NewEbayPartyService(log *zap.Logger) *EbayPartyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EbayPartyService{logger: log.Named("ebay_party")}
}

// FindOrCreateUsingEbayID returns the party for an eBay user, creating it
// from GetUser when unknown. itemID must link the buyer to one of the
// seller's listings or eBay withholds the buyer's contact details.
func (s *EbayPartyService) FindOrCreateUsingEbayID(
	ctx context.Context,
	repos Repositories,
	api integration.TradingAPI,
	ebayUserID, itemID string,
) (*partner.Party, error) {
	party, err := repos.Parties().FindByEbayUserID(ctx, ebayUserID)
	if err == nil {
		return party, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := api.GetUser(ctx, ebayUserID, itemID)
	if err != nil {
		return nil, err
	}
	party, err = partner.NewEbayParty(user.DisplayName(), ebayUserID)
	if err != nil {
		return nil, err
	}
	if _, err := party.AddContact(partner.ContactTypeEmail, disclosed(user.Email)); err != nil {
		return nil, err
	}
	if user.RegistrationAddress != nil {
		s.addPhone(party, user.RegistrationAddress.Phone)
	}
	if err := repos.Parties().Save(ctx, party); err != nil {
		return nil, err
	}

	s.logger.Info("party created from eBay user",
		zap.String("ebay_user_id", ebayUserID),
		zap.String("party_id", party.ID.String()),
	)
	return party, nil
}

// AddPhoneUsingEbayData records phone on party unless it is empty, masked
// or already known
func (s *EbayPartyService) AddPhoneUsingEbayData(ctx context.Context, repos Repositories, party *partner.Party, phone string) error {
	if !s.addPhone(party, phone) {
		return nil
	}
	return repos.Parties().Save(ctx, party)
}

func (s *EbayPartyService) addPhone(party *partner.Party, phone string) bool {
	added, err := party.AddContact(partner.ContactTypePhone, disclosed(phone))
	if err != nil {
		// eBay phone numbers are free text; an unparseable one is dropped.
		s.logger.Debug("ignoring eBay phone number", zap.String("party_id", party.ID.String()), zap.Error(err))
		return false
	}
	return added
}

// FindOrCreateAddressUsingEbayData returns the party's address matching
// the shipping address, creating one when none matches
func (s *EbayPartyService) FindOrCreateAddressUsingEbayData(
	ctx context.Context,
	repos Repositories,
	party *partner.Party,
	addr integration.ShippingAddress,
) (*partner.Address, error) {
	in := partner.AddressInput{
		Name:        addr.Name,
		Street:      addr.Street1,
		Street2:     addr.Street2,
		City:        addr.CityName,
		Zip:         addr.PostalCode,
		CountryCode: addr.Country,
		Subdivision: addr.StateOrProvince,
	}

	existing, err := repos.Addresses().FindByParty(ctx, party.ID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Matches(in) {
			return &existing[i], nil
		}
	}

	address, err := partner.NewAddress(party.ID, in)
	if err != nil {
		return nil, err
	}
	if err := repos.Addresses().Save(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func disclosed(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, maskedPhone) {
		return ""
	}
	return value
}
