package directsell

import (
	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/crypto"
)

// Address derivation is pure: a namespace tag plus a set of seeds maps to a
// salt byte and a 20 byte address. The salt is recorded in the Listing so the
// address can be re-derived and verified later.

func derive(seeds ...[]byte) (common.Address, byte) {
	seed := crypto.Keccak256(seeds...)
	salt := seed[31]
	return deriveWithSalt(salt, seeds...), salt
}

func deriveWithSalt(salt byte, seeds ...[]byte) common.Address {
	h := crypto.Keccak256(append(seeds, []byte{salt})...)
	return common.BytesToAddress(h[12:])
}

// ListingAddress derives the deterministic listing address for a seller and
// asset pair, and the salt byte used in the derivation.
func ListingAddress(tag string, seller common.Address, asset common.Hash) (common.Address, byte) {
	return derive([]byte(tag), seller.Bytes(), asset.Bytes())
}

// ListingAddressWithSalt re-derives a listing address from a recorded salt.
func ListingAddressWithSalt(tag string, seller common.Address, asset common.Hash, salt byte) common.Address {
	return deriveWithSalt(salt, []byte(tag), seller.Bytes(), asset.Bytes())
}

// AuthorityAddress derives the canonical transfer authority address from the
// namespace tag alone.
func AuthorityAddress(tag string) (common.Address, byte) {
	return derive([]byte(tag))
}

// SellerAuthorityAddress derives the per-seller transfer authority address.
// Listings created before the canonical scheme granted their delegation to
// this variant.
func SellerAuthorityAddress(tag string, seller common.Address) (common.Address, byte) {
	return derive([]byte(tag), seller.Bytes())
}
