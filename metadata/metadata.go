// Package metadata is the read-only royalty registry consulted during
// settlement. Entries live at addresses derived from a fixed namespace and
// the asset code, so a caller-supplied reference can be re-verified without
// trusting the caller.
package metadata

import (
	"errors"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/crypto"
)

// Namespace is the derivation tag for metadata addresses.
const Namespace = "metadata"

var ErrMetadataNotExist = errors.New("no metadata is registered at this address")

// Creator is one royalty recipient and its share of the total creator fee,
// expressed in percent. Shares are taken as-is: they are not required to sum
// to 100.
type Creator struct {
	Address common.Address `json:"address"`
	Share   uint8          `json:"share"`
}

// RoyaltyMetadata is the asset-level royalty description.
type RoyaltyMetadata struct {
	SellerFeeBasisPoints uint16    `json:"sellerFeeBasisPoints"`
	Creators             []Creator `json:"creators"`
}

// DeriveAddress maps an asset code to its deterministic metadata address.
func DeriveAddress(asset common.Hash) common.Address {
	h := crypto.Keccak256([]byte(Namespace), asset.Bytes())
	return common.BytesToAddress(h[12:])
}

// Registry is the address → metadata lookup table.
type Registry struct {
	entries map[common.Address]*RoyaltyMetadata
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[common.Address]*RoyaltyMetadata),
	}
}

// Register stores metadata for an asset and returns the derived address it
// lives at.
func (r *Registry) Register(asset common.Hash, meta *RoyaltyMetadata) common.Address {
	address := DeriveAddress(asset)
	r.entries[address] = meta
	return address
}

// Get returns the metadata stored at address.
func (r *Registry) Get(address common.Address) (*RoyaltyMetadata, error) {
	meta := r.entries[address]
	if meta == nil {
		return nil, ErrMetadataNotExist
	}
	return meta, nil
}
