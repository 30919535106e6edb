package ledger

import (
	"errors"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/hexutil"
)

const MaxAssetDecimals = uint32(18)

var ErrAssetDecimals = errors.New("asset decimals must not be more than 18")

// Asset describes a fungible asset class: its 32 byte code and the decimal
// precision that defines one whole unit.
type Asset struct {
	Code     common.Hash    `json:"code"`
	Decimals hexutil.Uint64 `json:"decimals"`
}

// VerifyAsset checks the asset fields against the protocol limits.
func (a *Asset) VerifyAsset() error {
	if uint32(a.Decimals) > MaxAssetDecimals {
		return ErrAssetDecimals
	}
	return nil
}

// WholeUnit returns the number of base units in one whole unit of the asset.
func (a *Asset) WholeUnit() uint64 {
	unit := uint64(1)
	for i := uint64(0); i < uint64(a.Decimals); i++ {
		unit *= 10
	}
	return unit
}
