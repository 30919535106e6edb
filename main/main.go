package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/StorkBison/direct-sell-SC/common/log"
	"github.com/StorkBison/direct-sell-SC/main/config"
	"github.com/StorkBison/direct-sell-SC/metrics"
	"gopkg.in/urfave/cli.v1"
)

var (
	app = newApp("the direct sale market command line interface")

	datadirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the market database and config file",
		Value: "./directsell-data",
	}
	logLevelFlag = cli.IntFlag{
		Name:  "loglevel",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug",
		Value: 3,
	}
	metricsFlag = cli.BoolFlag{
		Name:  metrics.MetricsEnabledFlag,
		Usage: "Enable metrics collection and reporting",
	}
)

func newApp(usage string) *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = usage
	app.HideVersion = true
	return app
}

func init() {
	app.Flags = []cli.Flag{datadirFlag, logLevelFlag, metricsFlag}
	app.Commands = []cli.Command{
		initCommand,
		demoCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Before = func(ctx *cli.Context) error {
		log.Setup(log.Lvl(logVerbosity(ctx)), false)
		if metrics.Enabled {
			go metrics.CollectProcessMetrics(3 * time.Second)
		}
		return nil
	}
	app.Action = func(ctx *cli.Context) error {
		return cli.ShowAppHelp(ctx)
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// logVerbosity resolves the logging verbosity: an explicit flag wins over a
// config.json in the data directory, which wins over the flag default.
func logVerbosity(ctx *cli.Context) int {
	if !ctx.GlobalIsSet(logLevelFlag.Name) {
		if cfg, err := config.ReadConfigFile(ctx.GlobalString(datadirFlag.Name)); err == nil {
			cfg.Check()
			return int(cfg.LogLevel)
		}
	}
	return ctx.GlobalInt(logLevelFlag.Name)
}

// loadConfig reads the config file from the data directory, falling back to
// the defaults when no file exists.
func loadConfig(ctx *cli.Context) *config.ConfigFromFile {
	dir := ctx.GlobalString(datadirFlag.Name)
	cfg, err := config.ReadConfigFile(dir)
	if err != nil {
		log.Debugf("no usable config in %s, using defaults: %v", dir, err)
		cfg = config.DefaultConfig()
	}
	cfg.Check()
	return cfg
}
