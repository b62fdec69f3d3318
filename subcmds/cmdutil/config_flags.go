// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
	"path/filepath"

	"github.com/wowtools/pricer/config"
	"github.com/wowtools/pricer/item"
)

// ConfigFlags locates the user's configuration files. Defaults live in
// the default data directory.
type ConfigFlags struct {
	ConfigPath  string
	ItemsPath   string
	SecretsPath string
}

func (f *ConfigFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&f.ConfigPath, "config", "", "path to the configuration file")
	fset.StringVar(&f.ItemsPath, "items", "", "path to the item list file")
	fset.StringVar(&f.SecretsPath, "secrets-file", "", "path to the credentials file")
}

// LoadConfig reads and validates the configuration. Any validation
// failure is fatal to the command.
func (f *ConfigFlags) LoadConfig() (*config.Config, error) {
	if len(f.ConfigPath) == 0 {
		f.ConfigPath = filepath.Join(DefaultDataDir(), "config.yaml")
	}
	return config.Load(f.ConfigPath)
}

// LoadItems reads the item list next to the configuration file unless
// overridden.
func (f *ConfigFlags) LoadItems() (map[string]*item.Item, error) {
	if len(f.ItemsPath) == 0 {
		f.ItemsPath = filepath.Join(filepath.Dir(f.ConfigPath), "items.yaml")
	}
	return config.LoadItems(f.ItemsPath)
}

// LoadSecrets reads credentials from the dotenv file next to the
// configuration file unless overridden. A missing file is fine.
func (f *ConfigFlags) LoadSecrets() (*config.Secrets, error) {
	if len(f.SecretsPath) == 0 {
		f.SecretsPath = filepath.Join(filepath.Dir(f.ConfigPath), ".env")
	}
	return config.LoadSecrets(f.SecretsPath)
}
