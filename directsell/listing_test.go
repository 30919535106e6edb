package directsell

import (
	"testing"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/stretchr/testify/assert"
)

func TestListing_BinaryRoundtrip(t *testing.T) {
	listing := &Listing{
		Seller: common.HexToAddress("0x1001"),
		Asset:  common.HexToHash("0xaa01"),
		Price:  12345678,
		Salt:   0xfe,
	}
	data := listing.MarshalBinary()
	assert.Len(t, data, listingDataLength)

	decoded := new(Listing)
	assert.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, listing, decoded)
}

func TestListing_UnmarshalBadLength(t *testing.T) {
	decoded := new(Listing)
	assert.Equal(t, ErrInvalidListingData, decoded.UnmarshalBinary(nil))
	assert.Equal(t, ErrInvalidListingData, decoded.UnmarshalBinary(make([]byte, listingDataLength-1)))
	assert.Equal(t, ErrInvalidListingData, decoded.UnmarshalBinary(make([]byte, listingDataLength+1)))
}
