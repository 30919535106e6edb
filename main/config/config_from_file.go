package config

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/directsell"
)

const fileName = "config.json"

var ErrConfig = errors.New(`file "config.json" format error`)

// ConfigFromFile is the on-disk deployment configuration. Zero values fall
// back to the compiled-in defaults in Check.
type ConfigFromFile struct {
	NamespaceTag string         `json:"namespaceTag"`
	FeeRecipient common.Address `json:"feeRecipient"`
	Admin        common.Address `json:"admin"`
	LogLevel     uint64         `json:"logLevel"`
	DbCache      uint64         `json:"dbCache"`
	DbHandles    uint64         `json:"dbHandles"`
}

func DefaultConfig() *ConfigFromFile {
	params := directsell.DefaultParams()
	return &ConfigFromFile{
		NamespaceTag: params.NamespaceTag,
		FeeRecipient: params.FeeRecipient,
		Admin:        params.Admin,
		LogLevel:     3,
		DbCache:      16,
		DbHandles:    16,
	}
}

func DelConfigFile(dir string) error {
	return os.Remove(filepath.Join(dir, fileName))
}

func WriteConfigFile(dir string, cfg *ConfigFromFile) error {
	result, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(dir, fileName), result, 0644)
}

func ReadConfigFile(dir string) (*ConfigFromFile, error) {
	file, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := new(ConfigFromFile)
	if err = json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, ErrConfig
	}
	return cfg, nil
}

// Check fills unset fields with the defaults and rejects invalid values.
func (c *ConfigFromFile) Check() {
	defaults := DefaultConfig()
	if c.NamespaceTag == "" {
		c.NamespaceTag = defaults.NamespaceTag
	}
	if (c.FeeRecipient == common.Address{}) {
		c.FeeRecipient = defaults.FeeRecipient
	}
	if (c.Admin == common.Address{}) {
		c.Admin = defaults.Admin
	}
	if c.LogLevel > 4 {
		panic("config.json content error: logLevel must be in [0, 4]")
	}
	if c.DbCache == 0 {
		c.DbCache = defaults.DbCache
	}
	if c.DbHandles == 0 {
		c.DbHandles = defaults.DbHandles
	}
}

// Params maps the file configuration onto the protocol parameters.
func (c *ConfigFromFile) Params() *directsell.Params {
	return &directsell.Params{
		NamespaceTag: c.NamespaceTag,
		FeeRecipient: c.FeeRecipient,
		Admin:        c.Admin,
	}
}
