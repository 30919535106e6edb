package directsell

import (
	"encoding/binary"
	"errors"

	"github.com/StorkBison/direct-sell-SC/common"
)

// listingDataLength is the fixed, versionless record layout:
// seller (20) + asset (32) + price (8) + salt (1).
const listingDataLength = common.AddressLength + common.HashLength + 8 + 1

var ErrInvalidListingData = errors.New("listing record data is malformed")

// Listing is a seller's active offer to sell one whole unit of an asset at a
// fixed price.
type Listing struct {
	Seller common.Address `json:"seller"`
	Asset  common.Hash    `json:"asset"`
	Price  uint64         `json:"price"`
	Salt   byte           `json:"salt"`
}

// MarshalBinary encodes the listing into its fixed record layout.
func (l *Listing) MarshalBinary() []byte {
	data := make([]byte, listingDataLength)
	offset := copy(data, l.Seller.Bytes())
	offset += copy(data[offset:], l.Asset.Bytes())
	binary.BigEndian.PutUint64(data[offset:], l.Price)
	data[listingDataLength-1] = l.Salt
	return data
}

// UnmarshalBinary decodes a listing from its fixed record layout.
func (l *Listing) UnmarshalBinary(data []byte) error {
	if len(data) != listingDataLength {
		return ErrInvalidListingData
	}
	l.Seller = common.BytesToAddress(data[:common.AddressLength])
	offset := common.AddressLength
	l.Asset = common.BytesToHash(data[offset : offset+common.HashLength])
	offset += common.HashLength
	l.Price = binary.BigEndian.Uint64(data[offset : offset+8])
	l.Salt = data[listingDataLength-1]
	return nil
}
