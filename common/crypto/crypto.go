package crypto

import (
	"errors"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/crypto/sha3"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	d.Sum(h[:0])
	return h
}

// GenerateKey generates a new secp256k1 private key.
func GenerateKey() (*btcec.PrivateKey, error) {
	return btcec.NewPrivateKey(btcec.S256())
}

// PrivKeyFromBytes restores a private key from its raw bytes.
func PrivKeyFromBytes(pk []byte) *btcec.PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), pk)
	return priv
}

// PubkeyToAddress derives the 20 byte identity of a public key: the low 20
// bytes of the Keccak256 hash over the uncompressed point.
func PubkeyToAddress(pub *btcec.PublicKey) common.Address {
	raw := pub.SerializeUncompressed()
	return common.BytesToAddress(Keccak256(raw[1:])[12:])
}

// Sign calculates a recoverable secp256k1 signature over the given 32 byte
// hash. The signature is in compact form, recovery header first.
func Sign(hash []byte, prv *btcec.PrivateKey) ([]byte, error) {
	if len(hash) != common.HashLength {
		return nil, ErrInvalidSignature
	}
	return btcec.SignCompact(btcec.S256(), prv, hash, false)
}

// SignerOf recovers the signer identity from a compact signature over hash.
func SignerOf(hash, sig []byte) (common.Address, error) {
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig, hash)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}
	return PubkeyToAddress(pub), nil
}

// VerifySigner reports whether sig over hash was produced by the key behind
// the expected identity.
func VerifySigner(expected common.Address, hash, sig []byte) bool {
	signer, err := SignerOf(hash, sig)
	if err != nil {
		return false
	}
	return signer == expected
}
