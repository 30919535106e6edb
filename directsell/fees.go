package directsell

import (
	"errors"
	"math/big"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/metadata"
)

var (
	ErrCreatorMismatch = errors.New("creator payout target mismatched")
	ErrFeeExceedsPrice = errors.New("fees exceed the sale price")
)

// FeeSplit is the result of dividing a sale price between the protocol, the
// asset's creators and the seller.
type FeeSplit struct {
	ProtocolFee     uint64
	CreatorFees     []uint64
	TotalCreatorFee uint64
	SellerRemainder uint64
}

// SplitFees divides price between the protocol fee recipient, the creators
// listed in the royalty metadata, and the seller.
//
// The seller remainder is computed from the aggregate creator fee, not from
// the sum of the individual creator payouts; integer division can therefore
// leave a residual that is neither paid out nor returned to the seller, and
// shares summing over 100 can pay creators more than the aggregate. Both
// behaviors are part of the settlement contract and must not be corrected
// here.
//
// Payout targets are matched positionally against the metadata's creator
// list; any position mismatch or missing target fails with ErrCreatorMismatch.
func SplitFees(price uint64, taxNumerator uint64, meta *metadata.RoyaltyMetadata, payouts []common.Address) (*FeeSplit, error) {
	bigPrice := new(big.Int).SetUint64(price)
	split := new(FeeSplit)

	// Metadata without creators contributes no creator fee at all, even when
	// it carries a non-zero basis point rate.
	if len(meta.Creators) > 0 {
		if len(payouts) < len(meta.Creators) {
			return nil, ErrCreatorMismatch
		}
		// total_creator_fee = floor(price * seller_fee_basis_points / 10000)
		totalCreatorFee := new(big.Int).Mul(bigPrice, big.NewInt(int64(meta.SellerFeeBasisPoints)))
		totalCreatorFee.Div(totalCreatorFee, new(big.Int).SetUint64(feeDenominator))
		split.TotalCreatorFee = totalCreatorFee.Uint64()
		split.CreatorFees = make([]uint64, len(meta.Creators))
		for i, creator := range meta.Creators {
			if payouts[i] != creator.Address {
				return nil, ErrCreatorMismatch
			}
			// creator_fee = floor(share * total_creator_fee / 100)
			fee := new(big.Int).Mul(big.NewInt(int64(creator.Share)), totalCreatorFee)
			fee.Div(fee, big.NewInt(100))
			split.CreatorFees[i] = fee.Uint64()
		}
	}

	// protocol_fee = floor(price * taxNumerator / 10000)
	protocolFee := new(big.Int).Mul(bigPrice, new(big.Int).SetUint64(taxNumerator))
	protocolFee.Div(protocolFee, new(big.Int).SetUint64(feeDenominator))
	split.ProtocolFee = protocolFee.Uint64()

	deducted := split.ProtocolFee + split.TotalCreatorFee
	if deducted < split.ProtocolFee || deducted > price {
		return nil, ErrFeeExceedsPrice
	}
	split.SellerRemainder = price - deducted
	return split, nil
}
