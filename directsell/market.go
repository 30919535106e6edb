package directsell

import (
	"errors"
	"time"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/log"
	"github.com/StorkBison/direct-sell-SC/ledger"
	"github.com/StorkBison/direct-sell-SC/metadata"
	"github.com/StorkBison/direct-sell-SC/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

var (
	ErrHigherPrice      = errors.New("cannot increase price")
	ErrPriceMismatch    = errors.New("price mismatched")
	ErrMetadataMismatch = errors.New("metadata mismatched")
)

// RunMarketEnv executes the listing lifecycle and settlement operations
// against the ledger. Every operation runs inside a ledger snapshot: either
// all of its steps land, or none do.
type RunMarketEnv struct {
	led      *ledger.Ledger
	meta     *metadata.Registry
	listings *ListingStore
	params   *Params

	sellMeter        gometrics.Meter
	lowerPriceMeter  gometrics.Meter
	cancelMeter      gometrics.Meter
	adminCancelMeter gometrics.Meter
	buyMeter         gometrics.Meter
	buyFailedMeter   gometrics.Meter
	settleTimer      gometrics.Timer
	openListings     gometrics.Counter
}

func NewRunMarketEnv(led *ledger.Ledger, meta *metadata.Registry, params *Params) *RunMarketEnv {
	if params == nil {
		params = DefaultParams()
	}
	return &RunMarketEnv{
		led:      led,
		meta:     meta,
		listings: NewListingStore(led, params.NamespaceTag),
		params:   params,

		sellMeter:        metrics.NewMeter(metrics.Sell_meterName),
		lowerPriceMeter:  metrics.NewMeter(metrics.LowerPrice_meterName),
		cancelMeter:      metrics.NewMeter(metrics.Cancel_meterName),
		adminCancelMeter: metrics.NewMeter(metrics.AdminCancel_meterName),
		buyMeter:         metrics.NewMeter(metrics.Buy_meterName),
		buyFailedMeter:   metrics.NewMeter(metrics.BuyFailed_meterName),
		settleTimer:      metrics.NewTimer(metrics.Settlement_timerName),
		openListings:     metrics.NewCounter(metrics.OpenListings_counterName),
	}
}

// Listings exposes the listing store for read access.
func (m *RunMarketEnv) Listings() *ListingStore {
	return m.listings
}

// Sell creates a Listing for one whole unit of the asset at the given price
// and delegates the unit's transfer permission to the derived authority.
// seller must be the verified signer of the operation.
func (m *RunMarketEnv) Sell(seller common.Address, asset common.Hash, price uint64) error {
	return m.led.Run(func() error {
		assetInfo, err := m.led.GetAsset(asset)
		if err != nil {
			return err
		}
		unit := assetInfo.WholeUnit()
		if m.led.TokenBalance(asset, seller) < unit {
			return ledger.ErrInsufficientBalance
		}

		listing := &Listing{Seller: seller, Asset: asset, Price: price}
		if err := m.listings.Put(listing); err != nil {
			return err
		}

		authority, _ := AuthorityAddress(m.params.NamespaceTag)
		if err := m.led.Approve(asset, seller, authority, unit); err != nil {
			return err
		}

		m.sellMeter.Mark(1)
		m.openListings.Inc(1)
		log.Debug("sell", "seller", seller, "asset", asset, "price", price)
		return nil
	})
}

// LowerPrice sets a listing's price to newPrice. The price can only move
// down; equal is allowed.
func (m *RunMarketEnv) LowerPrice(seller common.Address, asset common.Hash, newPrice uint64) error {
	return m.led.Run(func() error {
		listing, err := m.listings.Get(seller, asset)
		if err != nil {
			return err
		}
		if listing.Seller != seller {
			return ledger.ErrUnauthorized
		}
		if newPrice > listing.Price {
			return ErrHigherPrice
		}
		listing.Price = newPrice
		if err := m.listings.Update(listing); err != nil {
			return err
		}

		m.lowerPriceMeter.Mark(1)
		log.Debug("lower price", "seller", seller, "asset", asset, "price", newPrice)
		return nil
	})
}

// Cancel revokes the transfer delegation and closes the listing, refunding
// its storage reservation to the seller.
func (m *RunMarketEnv) Cancel(seller common.Address, asset common.Hash) error {
	return m.led.Run(func() error {
		listing, err := m.listings.Get(seller, asset)
		if err != nil {
			return err
		}
		if listing.Seller != seller {
			return ledger.ErrUnauthorized
		}

		m.led.Revoke(asset, seller)
		if err := m.listings.Close(seller, asset, seller); err != nil {
			return err
		}

		m.cancelMeter.Mark(1)
		m.openListings.Dec(1)
		log.Debug("cancel listing", "seller", seller, "asset", asset)
		return nil
	})
}

// AdminCancel force-closes a listing, refunding its storage reservation to
// the seller. Only the configured administrator may call it.
//
// The transfer delegation granted by Sell is left outstanding; this matches
// the deployed behavior. See DESIGN.md.
func (m *RunMarketEnv) AdminCancel(admin, seller common.Address, asset common.Hash) error {
	return m.led.Run(func() error {
		if admin != m.params.Admin {
			return ledger.ErrUnauthorized
		}
		listing, err := m.listings.Get(seller, asset)
		if err != nil {
			return err
		}
		if err := m.listings.Close(seller, asset, listing.Seller); err != nil {
			return err
		}

		m.adminCancelMeter.Mark(1)
		m.openListings.Dec(1)
		log.Debug("admin cancel listing", "seller", seller, "asset", asset)
		return nil
	})
}

// Buy settles a listing in one atomic sequence: validate the expected price
// and the metadata reference, pay the protocol fee, the creator royalties and
// the seller remainder from the buyer, move one whole asset unit from seller
// to buyer under the delegated authority, and close the listing.
//
// transferAuthority selects the derivation variant: when it differs from the
// canonical authority address the per-seller variant is used, so listings
// delegated before the canonical scheme still settle.
func (m *RunMarketEnv) Buy(buyer, seller common.Address, asset common.Hash, expectedPrice uint64, metadataRef, transferAuthority common.Address, payouts []common.Address) error {
	start := time.Now()
	err := m.led.Run(func() error {
		listing, err := m.listings.Get(seller, asset)
		if err != nil {
			return err
		}
		if expectedPrice != listing.Price {
			return ErrPriceMismatch
		}
		if metadataRef != metadata.DeriveAddress(asset) {
			return ErrMetadataMismatch
		}
		meta, err := m.meta.Get(metadataRef)
		if err != nil {
			return err
		}
		split, err := SplitFees(listing.Price, SalesTaxNumerator, meta, payouts)
		if err != nil {
			return err
		}

		if err := m.led.Transfer(buyer, m.params.FeeRecipient, split.ProtocolFee); err != nil {
			return err
		}
		for i, fee := range split.CreatorFees {
			if fee == 0 {
				continue
			}
			if err := m.led.Transfer(buyer, payouts[i], fee); err != nil {
				return err
			}
		}
		if err := m.led.Transfer(buyer, seller, split.SellerRemainder); err != nil {
			return err
		}

		assetInfo, err := m.led.GetAsset(asset)
		if err != nil {
			return err
		}
		authority, _ := AuthorityAddress(m.params.NamespaceTag)
		if transferAuthority != authority {
			authority, _ = SellerAuthorityAddress(m.params.NamespaceTag, seller)
		}
		if err := m.led.TransferTokenFrom(asset, seller, buyer, assetInfo.WholeUnit(), authority); err != nil {
			return err
		}

		return m.listings.Close(seller, asset, seller)
	})
	if err != nil {
		m.buyFailedMeter.Mark(1)
		return err
	}

	m.buyMeter.Mark(1)
	m.openListings.Dec(1)
	m.settleTimer.UpdateSince(start)
	log.Debug("buy", "buyer", buyer, "seller", seller, "asset", asset, "price", expectedPrice)
	return nil
}
