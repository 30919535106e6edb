package main

import (
	"github.com/StorkBison/direct-sell-SC/common/log"
	"github.com/StorkBison/direct-sell-SC/main/config"
	"gopkg.in/urfave/cli.v1"
)

var initCommand = cli.Command{
	Action:    initConfig,
	Name:      "init",
	Usage:     "Write a default config.json into the data directory",
	ArgsUsage: "",
	Category:  "MARKET COMMANDS",
	Description: `
Writes the default deployment configuration (namespace tag, fee recipient and
administrator addresses, database tuning) into <datadir>/config.json. Edit the
file to rotate the administrative identities.`,
}

func initConfig(ctx *cli.Context) error {
	dir := ctx.GlobalString(datadirFlag.Name)
	if _, err := config.ReadConfigFile(dir); err == nil {
		log.Warnf("config.json already exists in %s, not overwriting", dir)
		return nil
	}
	if err := config.WriteConfigFile(dir, config.DefaultConfig()); err != nil {
		return err
	}
	log.Infof("wrote default config into %s", dir)
	return nil
}
