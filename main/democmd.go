package main

import (
	"path/filepath"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/crypto"
	"github.com/StorkBison/direct-sell-SC/common/log"
	"github.com/StorkBison/direct-sell-SC/directsell"
	"github.com/StorkBison/direct-sell-SC/ledger"
	"github.com/StorkBison/direct-sell-SC/metadata"
	"github.com/StorkBison/direct-sell-SC/store/leveldb"
	"gopkg.in/urfave/cli.v1"
)

var demoCommand = cli.Command{
	Action:   runDemo,
	Name:     "demo",
	Usage:    "Run a scripted listing lifecycle against the data directory",
	Category: "MARKET COMMANDS",
	Description: `
Registers a demo asset with a royalty creator, funds a seller and a buyer,
then lists, reprices and settles one unit through the market. The resulting
state is persisted under <datadir>/marketdata, so repeated runs start from
fresh random identities.`,
}

func runDemo(ctx *cli.Context) error {
	cfg := loadConfig(ctx)
	dir := ctx.GlobalString(datadirFlag.Name)
	db := leveldb.NewLevelDBDatabase(filepath.Join(dir, "marketdata"), int(cfg.DbCache), int(cfg.DbHandles))
	db.Meter()
	defer db.Close()

	led := ledger.NewLedger(db)
	seller, buyer, creator := demoIdentity(), demoIdentity(), demoIdentity()
	asset := common.BytesToHash(crypto.Keccak256(seller.Bytes(), buyer.Bytes()))

	if _, err := led.RegisterAsset(asset, 2); err != nil {
		return err
	}
	assetInfo, err := led.GetAsset(asset)
	if err != nil {
		return err
	}
	if err := led.MintToken(asset, seller, assetInfo.WholeUnit()); err != nil {
		return err
	}
	if err := led.Credit(seller, 10000); err != nil {
		return err
	}
	if err := led.Credit(buyer, 50000); err != nil {
		return err
	}

	reg := metadata.NewRegistry()
	metaRef := reg.Register(asset, &metadata.RoyaltyMetadata{
		SellerFeeBasisPoints: 500,
		Creators:             []metadata.Creator{{Address: creator, Share: 100}},
	})

	market := directsell.NewRunMarketEnv(led, reg, cfg.Params())
	if err := market.Sell(seller, asset, 12000); err != nil {
		return err
	}
	if err := market.LowerPrice(seller, asset, 10000); err != nil {
		return err
	}
	authority, _ := directsell.AuthorityAddress(cfg.NamespaceTag)
	if err := market.Buy(buyer, seller, asset, 10000, metaRef, authority, []common.Address{creator}); err != nil {
		return err
	}
	if err := led.Save(); err != nil {
		return err
	}

	log.Info("demo settled", "asset", asset)
	log.Info("seller", "address", seller, "balance", led.GetAccount(seller).GetBalance())
	log.Info("buyer", "address", buyer, "balance", led.GetAccount(buyer).GetBalance(), "units", led.TokenBalance(asset, buyer))
	log.Info("creator", "address", creator, "royalty", led.GetAccount(creator).GetBalance())
	log.Info("fee recipient", "address", cfg.FeeRecipient, "fee", led.GetAccount(cfg.FeeRecipient).GetBalance())
	return nil
}

func demoIdentity() common.Address {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return crypto.PubkeyToAddress(key.PubKey())
}
