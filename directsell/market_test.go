package directsell

import (
	"testing"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/ledger"
	"github.com/StorkBison/direct-sell-SC/metadata"
	"github.com/StorkBison/direct-sell-SC/store/leveldb"
	"github.com/stretchr/testify/assert"
)

var (
	testAsset   = common.HexToHash("0xaa01")
	testSeller  = common.HexToAddress("0x1001")
	testBuyer   = common.HexToAddress("0x2002")
	testCreator = common.HexToAddress("0x3003")
	testAdmin   = common.HexToAddress("0x4004")
	testFeeAcct = common.HexToAddress("0x5005")
)

const (
	testPrice     = uint64(10000)
	testUnit      = uint64(100) // decimals 2
	sellerFunds   = uint64(10000)
	buyerFunds    = uint64(50000)
	reservation   = uint64((listingDataLength + 8) * 10)
	protocolFee   = uint64(99)
	creatorFee    = uint64(500) // 500 bps of testPrice, share 100
	sellRemainder = testPrice - protocolFee - creatorFee
)

func testMeta() *metadata.RoyaltyMetadata {
	return &metadata.RoyaltyMetadata{
		SellerFeeBasisPoints: 500,
		Creators:             []metadata.Creator{{Address: testCreator, Share: 100}},
	}
}

func newTestMarket(meta *metadata.RoyaltyMetadata) (*RunMarketEnv, *ledger.Ledger, *leveldb.LevelDBDatabase) {
	db := leveldb.NewMemDatabase()
	led := ledger.NewLedger(db)
	if _, err := led.RegisterAsset(testAsset, 2); err != nil {
		panic(err)
	}
	if err := led.MintToken(testAsset, testSeller, testUnit); err != nil {
		panic(err)
	}
	if err := led.Credit(testSeller, sellerFunds); err != nil {
		panic(err)
	}
	if err := led.Credit(testBuyer, buyerFunds); err != nil {
		panic(err)
	}
	reg := metadata.NewRegistry()
	reg.Register(testAsset, meta)

	params := &Params{NamespaceTag: Prefix, FeeRecipient: testFeeAcct, Admin: testAdmin}
	return NewRunMarketEnv(led, reg, params), led, db
}

func balance(led *ledger.Ledger, address common.Address) uint64 {
	return led.GetAccount(address).GetBalance()
}

func TestMarket_Sell(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	listing, err := market.Listings().Get(testSeller, testAsset)
	assert.NoError(t, err)
	assert.Equal(t, testSeller, listing.Seller)
	assert.Equal(t, testPrice, listing.Price)
	_, salt := ListingAddress(Prefix, testSeller, testAsset)
	assert.Equal(t, salt, listing.Salt)

	// the storage reservation is charged to the seller
	assert.Equal(t, sellerFunds-reservation, balance(led, testSeller))

	// the whole unit is delegated to the canonical authority
	authority, _ := AuthorityAddress(Prefix)
	d := led.DelegationOf(testAsset, testSeller)
	assert.NotNil(t, d)
	assert.Equal(t, authority, d.Delegate)
	assert.Equal(t, testUnit, uint64(d.Amount))

	assert.Equal(t, ErrDuplicateListing, market.Sell(testSeller, testAsset, testPrice))
}

func TestMarket_Sell_InsufficientAsset(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	poor := common.HexToAddress("0x1009")
	assert.NoError(t, led.Credit(poor, sellerFunds))
	assert.NoError(t, led.MintToken(testAsset, poor, testUnit-1))

	assert.Equal(t, ledger.ErrInsufficientBalance, market.Sell(poor, testAsset, testPrice))

	// nothing landed
	_, err := market.Listings().Get(poor, testAsset)
	assert.Equal(t, ErrListingNotExist, err)
	assert.Nil(t, led.DelegationOf(testAsset, poor))
	assert.Equal(t, sellerFunds, balance(led, poor))
}

func TestMarket_Sell_UnknownAsset(t *testing.T) {
	market, _, db := newTestMarket(testMeta())
	defer db.Close()

	err := market.Sell(testSeller, common.HexToHash("0xdead"), testPrice)
	assert.Equal(t, ledger.ErrAssetNotExist, err)
}

func TestMarket_LowerPrice(t *testing.T) {
	market, _, db := newTestMarket(testMeta())
	defer db.Close()

	assert.Equal(t, ErrListingNotExist, market.LowerPrice(testSeller, testAsset, testPrice))

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	assert.NoError(t, market.LowerPrice(testSeller, testAsset, testPrice-1000))
	listing, err := market.Listings().Get(testSeller, testAsset)
	assert.NoError(t, err)
	assert.Equal(t, testPrice-1000, listing.Price)

	// equal is allowed
	assert.NoError(t, market.LowerPrice(testSeller, testAsset, testPrice-1000))

	assert.Equal(t, ErrHigherPrice, market.LowerPrice(testSeller, testAsset, testPrice))
	listing, err = market.Listings().Get(testSeller, testAsset)
	assert.NoError(t, err)
	assert.Equal(t, testPrice-1000, listing.Price)
}

func TestMarket_Cancel(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.Equal(t, ErrListingNotExist, market.Cancel(testSeller, testAsset))

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))
	assert.NoError(t, market.Cancel(testSeller, testAsset))

	_, err := market.Listings().Get(testSeller, testAsset)
	assert.Equal(t, ErrListingNotExist, err)
	assert.Nil(t, led.DelegationOf(testAsset, testSeller))
	// the reservation came back
	assert.Equal(t, sellerFunds, balance(led, testSeller))
}

func TestMarket_AdminCancel(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	err := market.AdminCancel(testBuyer, testSeller, testAsset)
	assert.Equal(t, ledger.ErrUnauthorized, err)

	assert.NoError(t, market.AdminCancel(testAdmin, testSeller, testAsset))
	_, err = market.Listings().Get(testSeller, testAsset)
	assert.Equal(t, ErrListingNotExist, err)
	assert.Equal(t, sellerFunds, balance(led, testSeller))

	// the delegation granted by Sell stays in place
	assert.NotNil(t, led.DelegationOf(testAsset, testSeller))
}

func TestMarket_Buy(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(testBuyer, testSeller, testAsset, testPrice,
		metadata.DeriveAddress(testAsset), authority, []common.Address{testCreator})
	assert.NoError(t, err)

	// payment legs
	assert.Equal(t, buyerFunds-testPrice, balance(led, testBuyer))
	assert.Equal(t, protocolFee, balance(led, testFeeAcct))
	assert.Equal(t, creatorFee, balance(led, testCreator))
	assert.Equal(t, sellerFunds-reservation+sellRemainder+reservation, balance(led, testSeller))

	// the unit moved and the delegation is exhausted
	assert.Equal(t, testUnit, led.TokenBalance(testAsset, testBuyer))
	assert.Equal(t, uint64(0), led.TokenBalance(testAsset, testSeller))
	assert.Nil(t, led.DelegationOf(testAsset, testSeller))

	_, err = market.Listings().Get(testSeller, testAsset)
	assert.Equal(t, ErrListingNotExist, err)
}

func TestMarket_Buy_NoCreators(t *testing.T) {
	market, led, db := newTestMarket(&metadata.RoyaltyMetadata{SellerFeeBasisPoints: 500})
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(testBuyer, testSeller, testAsset, testPrice,
		metadata.DeriveAddress(testAsset), authority, nil)
	assert.NoError(t, err)

	// without creators the whole royalty share stays with the seller
	assert.Equal(t, sellerFunds+testPrice-protocolFee, balance(led, testSeller))
	assert.Equal(t, uint64(0), balance(led, testCreator))
}

func TestMarket_Buy_PriceMismatch(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(testBuyer, testSeller, testAsset, testPrice-1,
		metadata.DeriveAddress(testAsset), authority, []common.Address{testCreator})
	assert.Equal(t, ErrPriceMismatch, err)

	// nothing moved
	assert.Equal(t, buyerFunds, balance(led, testBuyer))
	assert.Equal(t, testUnit, led.TokenBalance(testAsset, testSeller))
	_, err = market.Listings().Get(testSeller, testAsset)
	assert.NoError(t, err)
}

func TestMarket_Buy_MetadataMismatch(t *testing.T) {
	market, _, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(testBuyer, testSeller, testAsset, testPrice,
		common.HexToAddress("0xbad"), authority, []common.Address{testCreator})
	assert.Equal(t, ErrMetadataMismatch, err)
}

func TestMarket_Buy_CreatorMismatch(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(testBuyer, testSeller, testAsset, testPrice,
		metadata.DeriveAddress(testAsset), authority, nil)
	assert.Equal(t, ErrCreatorMismatch, err)
	assert.Equal(t, buyerFunds, balance(led, testBuyer))
}

func TestMarket_Buy_InsufficientFunds(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	poor := common.HexToAddress("0x2009")
	assert.NoError(t, led.Credit(poor, testPrice/2))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(poor, testSeller, testAsset, testPrice,
		metadata.DeriveAddress(testAsset), authority, []common.Address{testCreator})
	assert.Equal(t, ledger.ErrInsufficientBalance, err)

	// a failed settlement rolls back completely
	assert.Equal(t, testPrice/2, balance(led, poor))
	assert.Equal(t, uint64(0), balance(led, testFeeAcct))
	assert.Equal(t, uint64(0), balance(led, testCreator))
	assert.Equal(t, testUnit, led.TokenBalance(testAsset, testSeller))
	assert.NotNil(t, led.DelegationOf(testAsset, testSeller))
	_, err = market.Listings().Get(testSeller, testAsset)
	assert.NoError(t, err)
}

func TestMarket_Buy_LegacyAuthority(t *testing.T) {
	market, led, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))

	// listings delegated before the canonical scheme carry the per-seller
	// authority instead
	legacy, _ := SellerAuthorityAddress(Prefix, testSeller)
	assert.NoError(t, led.Approve(testAsset, testSeller, legacy, testUnit))

	err := market.Buy(testBuyer, testSeller, testAsset, testPrice,
		metadata.DeriveAddress(testAsset), legacy, []common.Address{testCreator})
	assert.NoError(t, err)
	assert.Equal(t, testUnit, led.TokenBalance(testAsset, testBuyer))
}

// The settled amount follows the asset's decimal precision.
func TestMarket_Buy_Decimals(t *testing.T) {
	db := leveldb.NewMemDatabase()
	defer db.Close()

	led := ledger.NewLedger(db)
	asset := common.HexToHash("0xaa04")
	if _, err := led.RegisterAsset(asset, 4); err != nil {
		panic(err)
	}
	unit := uint64(10000)
	assert.NoError(t, led.MintToken(asset, testSeller, unit))
	assert.NoError(t, led.Credit(testSeller, sellerFunds))
	assert.NoError(t, led.Credit(testBuyer, buyerFunds))

	reg := metadata.NewRegistry()
	reg.Register(asset, testMeta())
	market := NewRunMarketEnv(led, reg, &Params{NamespaceTag: Prefix, FeeRecipient: testFeeAcct, Admin: testAdmin})

	assert.NoError(t, market.Sell(testSeller, asset, testPrice))
	d := led.DelegationOf(asset, testSeller)
	assert.Equal(t, unit, uint64(d.Amount))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(testBuyer, testSeller, asset, testPrice,
		metadata.DeriveAddress(asset), authority, []common.Address{testCreator})
	assert.NoError(t, err)
	assert.Equal(t, unit, led.TokenBalance(asset, testBuyer))
	assert.Equal(t, uint64(0), led.TokenBalance(asset, testSeller))
}

func TestMarket_Buy_AfterCancel(t *testing.T) {
	market, _, db := newTestMarket(testMeta())
	defer db.Close()

	assert.NoError(t, market.Sell(testSeller, testAsset, testPrice))
	assert.NoError(t, market.Cancel(testSeller, testAsset))

	authority, _ := AuthorityAddress(Prefix)
	err := market.Buy(testBuyer, testSeller, testAsset, testPrice,
		metadata.DeriveAddress(testAsset), authority, []common.Address{testCreator})
	assert.Equal(t, ErrListingNotExist, err)
}
