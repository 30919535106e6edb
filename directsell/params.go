package directsell

import (
	"github.com/StorkBison/direct-sell-SC/common"
)

const (
	// Prefix is the derivation namespace for listing and authority addresses.
	Prefix = "directsell"

	// SalesTaxNumerator is the protocol fee rate over a 10000 denominator (0.99%).
	SalesTaxNumerator = uint64(99)
	feeDenominator    = uint64(10000)
)

// Default deployment identities. Live values come from the config file.
var (
	DefaultFeeRecipient = common.HexToAddress("0x3e9f1c77b0b1a26a94f1b1f44a9c3e0f1aacc4d2")
	DefaultAdmin        = common.HexToAddress("0x6dd5ab1a8a6d7c9e40a87b446b2c2e2a661c8a99")
)

// Params carries the deployment constants of the protocol. Admin and fee
// recipient are injected at initialization rather than compiled in, so a
// deployment can rotate them without a rebuild.
type Params struct {
	NamespaceTag string
	FeeRecipient common.Address
	Admin        common.Address
}

func DefaultParams() *Params {
	return &Params{
		NamespaceTag: Prefix,
		FeeRecipient: DefaultFeeRecipient,
		Admin:        DefaultAdmin,
	}
}
