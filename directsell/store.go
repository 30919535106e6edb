package directsell

import (
	"errors"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/ledger"
)

var (
	ErrDuplicateListing = errors.New("a listing already exists for this seller and asset")
	ErrListingNotExist  = errors.New("no listing exists at the derived address")
)

// ListingStore stores Listing records at their derived addresses, on top of
// the ledger's record storage. Uniqueness per (seller, asset) pair falls out
// of the derivation: both map to the same address, and only one record can
// live there.
type ListingStore struct {
	led *ledger.Ledger
	tag string
}

func NewListingStore(led *ledger.Ledger, tag string) *ListingStore {
	return &ListingStore{led: led, tag: tag}
}

// Address returns the derived record address for a seller and asset pair.
func (s *ListingStore) Address(seller common.Address, asset common.Hash) (common.Address, byte) {
	return ListingAddress(s.tag, seller, asset)
}

// Put writes a new Listing record, charging the storage reservation to the
// seller. The listing's salt is filled in from the derivation.
func (s *ListingStore) Put(l *Listing) error {
	address, salt := s.Address(l.Seller, l.Asset)
	l.Salt = salt
	err := s.led.OpenRecord(address, l.Seller, l.MarshalBinary(), l.Seller)
	if err == ledger.ErrRecordExist {
		return ErrDuplicateListing
	}
	return err
}

// Get loads the Listing for a seller and asset pair.
func (s *ListingStore) Get(seller common.Address, asset common.Hash) (*Listing, error) {
	address, _ := s.Address(seller, asset)
	record, err := s.led.GetRecord(address)
	if err == ledger.ErrRecordNotExist {
		return nil, ErrListingNotExist
	}
	if err != nil {
		return nil, err
	}
	listing := new(Listing)
	if err := listing.UnmarshalBinary(record.Payload); err != nil {
		return nil, err
	}
	return listing, nil
}

// Update rewrites the record of an existing listing.
func (s *ListingStore) Update(l *Listing) error {
	address := ListingAddressWithSalt(s.tag, l.Seller, l.Asset, l.Salt)
	err := s.led.UpdateRecord(address, l.MarshalBinary())
	if err == ledger.ErrRecordNotExist {
		return ErrListingNotExist
	}
	return err
}

// Close removes the listing record and refunds its storage reservation.
func (s *ListingStore) Close(seller common.Address, asset common.Hash, refundTo common.Address) error {
	address, _ := s.Address(seller, asset)
	err := s.led.CloseRecord(address, refundTo)
	if err == ledger.ErrRecordNotExist {
		return ErrListingNotExist
	}
	return err
}
