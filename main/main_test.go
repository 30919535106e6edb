package main

import (
	"flag"
	"io/ioutil"
	"os"
	"testing"

	"github.com/StorkBison/direct-sell-SC/main/config"
	"github.com/stretchr/testify/assert"
	"gopkg.in/urfave/cli.v1"
)

func testContext(dir string) (*cli.Context, *flag.FlagSet) {
	set := flag.NewFlagSet("test", 0)
	set.String(datadirFlag.Name, dir, "")
	set.Int(logLevelFlag.Name, logLevelFlag.Value, "")
	return cli.NewContext(app, set, nil), set
}

func TestLogVerbosity(t *testing.T) {
	dir, err := ioutil.TempDir("", "directsell-main")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	// no config file and no explicit flag: the flag default applies
	ctx, set := testContext(dir)
	assert.Equal(t, logLevelFlag.Value, logVerbosity(ctx))

	// a config file overrides the flag default
	cfg := config.DefaultConfig()
	cfg.LogLevel = 4
	assert.NoError(t, config.WriteConfigFile(dir, cfg))
	assert.Equal(t, 4, logVerbosity(ctx))

	// an explicit flag wins over the config file; cli v1 caches IsSet results
	// per context, so build a fresh context after mutating the flag set
	assert.NoError(t, set.Set(logLevelFlag.Name, "1"))
	ctx = cli.NewContext(app, set, nil)
	assert.Equal(t, 1, logVerbosity(ctx))
}
