package metadata

import (
	"testing"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/stretchr/testify/assert"
)

func TestDeriveAddress(t *testing.T) {
	asset := common.HexToHash("0xaa01")
	addr := DeriveAddress(asset)
	assert.NotEqual(t, common.Address{}, addr)
	// derivation is deterministic and asset-specific
	assert.Equal(t, addr, DeriveAddress(asset))
	assert.NotEqual(t, addr, DeriveAddress(common.HexToHash("0xaa02")))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	asset := common.HexToHash("0xaa01")
	meta := &RoyaltyMetadata{
		SellerFeeBasisPoints: 500,
		Creators: []Creator{
			{Address: common.HexToAddress("0xc1"), Share: 100},
		},
	}

	address := r.Register(asset, meta)
	assert.Equal(t, DeriveAddress(asset), address)

	got, err := r.Get(address)
	assert.NoError(t, err)
	assert.Equal(t, meta, got)

	_, err = r.Get(common.HexToAddress("0xdead"))
	assert.Equal(t, ErrMetadataNotExist, err)
}
