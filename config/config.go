// Copyright (c) 2025 BVK Chaitanya

// Package config loads the user's settings and item list. Settings come
// from a YAML file, secrets from a dotenv file next to it. Validation is
// strict: a malformed configuration stops the program before any policy
// is computed or any addon file is touched.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the top-level user configuration.
type Config struct {
	// WowDir is the game installation directory containing WTF/.
	WowDir string `yaml:"wow_dir"`

	// DataDir holds the datastore, logs, lockfile and report outputs.
	DataDir string `yaml:"data_dir"`

	// Account is the account folder name under WTF/Account/.
	Account string `yaml:"account"`

	// Realm is the in-game realm name, e.g. "Grobbulus".
	Realm string `yaml:"realm"`

	// Characters are all tracked character names on the realm.
	Characters []string `yaml:"characters"`

	// AuctionCharacter is the character that posts and buys auctions.
	// Must be one of Characters.
	AuctionCharacter string `yaml:"auction_character"`

	Market MarketConfig `yaml:"market"`

	Policy PolicyConfig `yaml:"policy"`

	Notify NotifyConfig `yaml:"notify"`
}

// MarketConfig controls the external price source.
type MarketConfig struct {
	// BaseURL is the price API endpoint.
	BaseURL string `yaml:"base_url"`

	// RealmSlug identifies the realm at the price source, e.g.
	// "grobbulus-a" for the alliance side.
	RealmSlug string `yaml:"realm_slug"`

	// FreshnessHours is the maximum age of market data before it is
	// considered stale. Zero means the 24 hour default.
	FreshnessHours int `yaml:"freshness_hours"`

	// RequestsPerMinute rate-limits the item stat fetches. Zero means
	// the default of 20.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// PolicyConfig holds the analysis constants shared by all items.
type PolicyConfig struct {
	// MinProfit is the minimum acceptable profit per listing, in copper.
	MinProfit decimal.Decimal `yaml:"min_profit"`

	// DeviationFactor scales price stddev into the sell-high markup.
	DeviationFactor decimal.Decimal `yaml:"deviation_factor"`

	// UndercutFactor multiplies a competitor's minimum price when we
	// undercut, e.g. 0.9933.
	UndercutFactor decimal.Decimal `yaml:"undercut_factor"`

	// AuctionCut is the house's share of a successful sale, e.g. 0.05.
	AuctionCut decimal.Decimal `yaml:"auction_cut"`

	// DefaultSuccessRate is the auction success rate assumed for items
	// without enough BeanCounter history.
	DefaultSuccessRate decimal.Decimal `yaml:"default_success_rate"`

	// StackSize is the default listing stack size.
	StackSize int64 `yaml:"stack_size"`

	// AuctionHours is the listing duration, one of 12, 24 or 48.
	AuctionHours int64 `yaml:"auction_hours"`

	// MaxSell caps the per-item listing count when the item does not
	// override it.
	MaxSell int64 `yaml:"max_sell"`
}

// NotifyConfig enables the optional run-summary notification.
type NotifyConfig struct {
	// TelegramChatID receives the summary. Zero disables notification.
	// The bot token comes from the TELEGRAM_BOT_TOKEN secret.
	TelegramChatID int64 `yaml:"telegram_chat_id"`
}

// Secrets are credentials loaded from the dotenv file, never from YAML.
type Secrets struct {
	// BattleNetEmail and BattleNetPassword log into the market source.
	BattleNetEmail    string
	BattleNetPassword string

	// TelegramBotToken authorizes the notification bot.
	TelegramBotToken string
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	c := new(Config)
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	c.setDefaults()
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return c, nil
}

func (c *Config) setDefaults() {
	if c.Market.FreshnessHours == 0 {
		c.Market.FreshnessHours = 24
	}
	if c.Market.RequestsPerMinute == 0 {
		c.Market.RequestsPerMinute = 20
	}
	if c.Policy.UndercutFactor.IsZero() {
		c.Policy.UndercutFactor = decimal.NewFromFloat(0.9933)
	}
	if c.Policy.AuctionCut.IsZero() {
		c.Policy.AuctionCut = decimal.NewFromFloat(0.05)
	}
	if c.Policy.DefaultSuccessRate.IsZero() {
		c.Policy.DefaultSuccessRate = decimal.NewFromFloat(0.8)
	}
	if c.Policy.DeviationFactor.IsZero() {
		c.Policy.DeviationFactor = decimal.NewFromInt(1)
	}
	if c.Policy.StackSize == 0 {
		c.Policy.StackSize = 5
	}
	if c.Policy.AuctionHours == 0 {
		c.Policy.AuctionHours = 24
	}
	if c.Policy.MaxSell == 0 {
		c.Policy.MaxSell = 20
	}
}

// Check validates the configuration. Any error here is fatal.
func (c *Config) Check() error {
	if len(c.WowDir) == 0 {
		return fmt.Errorf("wow_dir cannot be empty")
	}
	if len(c.DataDir) == 0 {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if len(c.Account) == 0 {
		return fmt.Errorf("account cannot be empty")
	}
	if len(c.Realm) == 0 {
		return fmt.Errorf("realm cannot be empty")
	}
	if len(c.Characters) == 0 {
		return fmt.Errorf("characters list cannot be empty")
	}
	if len(c.AuctionCharacter) == 0 {
		return fmt.Errorf("auction_character cannot be empty")
	}
	found := false
	for _, name := range c.Characters {
		if name == c.AuctionCharacter {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("auction_character %q is not in the characters list", c.AuctionCharacter)
	}
	if c.Market.FreshnessHours < 0 {
		return fmt.Errorf("freshness_hours cannot be negative")
	}
	if c.Policy.MinProfit.IsNegative() {
		return fmt.Errorf("min_profit cannot be negative")
	}
	if c.Policy.UndercutFactor.LessThanOrEqual(decimal.Zero) || c.Policy.UndercutFactor.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("undercut_factor must be in (0, 1]")
	}
	if c.Policy.AuctionCut.IsNegative() || c.Policy.AuctionCut.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("auction_cut must be in [0, 1)")
	}
	if c.Policy.DefaultSuccessRate.IsNegative() || c.Policy.DefaultSuccessRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("default_success_rate must be in [0, 1]")
	}
	if c.Policy.StackSize <= 0 {
		return fmt.Errorf("stack_size must be positive")
	}
	switch c.Policy.AuctionHours {
	case 12, 24, 48:
	default:
		return fmt.Errorf("auction_hours must be 12, 24 or 48")
	}
	return nil
}

// Freshness returns the market data freshness threshold.
func (c *Config) Freshness() time.Duration {
	return time.Duration(c.Market.FreshnessHours) * time.Hour
}

// SavedVariablesDir returns the account-wide SavedVariables directory
// where the addon files live.
func (c *Config) SavedVariablesDir() string {
	return filepath.Join(c.WowDir, "WTF", "Account", c.Account, "SavedVariables")
}

// LoadSecrets reads credentials from a dotenv file. A missing file is
// not an error; the corresponding features prompt or stay disabled.
func LoadSecrets(path string) (*Secrets, error) {
	kv := make(map[string]string)
	if _, err := os.Stat(path); err == nil {
		kv, err = godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("could not read secrets file %q: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not stat secrets file %q: %w", path, err)
	}
	get := func(key string) string {
		if v, ok := kv[key]; ok {
			return v
		}
		return os.Getenv(key)
	}
	return &Secrets{
		BattleNetEmail:    get("BATTLE_NET_EMAIL"),
		BattleNetPassword: get("BATTLE_NET_PASSWORD"),
		TelegramBotToken:  get("TELEGRAM_BOT_TOKEN"),
	}, nil
}
