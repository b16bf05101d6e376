// Package daemon holds the balloond configuration: defaults, the TOML file
// overlay, and home directory resolution.
package daemon

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/eventor-ai/balloond/internal/domain"
)

// Config is the full balloond configuration.
type Config struct {
	API    APIConfig    `toml:"api"`
	Store  StoreConfig  `toml:"store"`
	Guest  GuestConfig  `toml:"guest"`
	Funcs  FuncsConfig  `toml:"funcs"`
	Auth   AuthConfig   `toml:"auth"`
	Audit  AuditConfig  `toml:"audit"`
	Promo  PromoConfig  `toml:"promo"`
	Limits LimitsConfig `toml:"limits"`

	// Features extends or overrides the built-in catalog.
	Features []domain.Feature `toml:"features"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StoreConfig configures the sqlite account store.
type StoreConfig struct {
	Path string `toml:"path"` // empty = <home>/balloond.db
}

// GuestConfig configures guest wallets.
type GuestConfig struct {
	InitialGrant int64 `toml:"initial_grant"`
}

// FuncsConfig configures the remote AI function endpoint.
type FuncsConfig struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// AuditConfig configures the ledger drift sweep.
type AuditConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron spec
}

// PromoConfig sets promotion bonus amounts (0 disables).
type PromoConfig struct {
	SignupBonus int64 `toml:"signup_bonus"`
	DailyBonus  int64 `toml:"daily_bonus"`
}

// LimitsConfig sets per-actor request limits.
type LimitsConfig struct {
	SpendPerMinute int `toml:"spend_per_minute"` // 0 = unlimited
}

// DefaultConfig returns the built-in defaults. The guest grant mirrors the
// product's welcome amount of 300 balloons.
func DefaultConfig() Config {
	return Config{
		API:    APIConfig{Host: "127.0.0.1", Port: 8090},
		Guest:  GuestConfig{InitialGrant: 300},
		Funcs:  FuncsConfig{TimeoutSec: 60},
		Audit:  AuditConfig{Enabled: true, Schedule: "0 3 * * *"},
		Promo:  PromoConfig{SignupBonus: 50, DailyBonus: 5},
		Limits: LimitsConfig{SpendPerMinute: 30},
	}
}

// Home returns the balloond home directory (BALLOOND_HOME or ~/.balloond).
func Home() string {
	if home := os.Getenv("BALLOOND_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".balloond"
	}
	return filepath.Join(userHome, ".balloond")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error: defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDefault reads <home>/config.toml.
func LoadDefault() (Config, error) {
	return Load(filepath.Join(Home(), "config.toml"))
}

// StorePath returns the sqlite path, defaulting under the home directory.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(Home(), "balloond.db")
}

// GuestDir returns the guest wallet directory.
func (c Config) GuestDir() string {
	return filepath.Join(Home(), "guests")
}
