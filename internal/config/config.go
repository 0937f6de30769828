// Package config loads run settings and CMS credentials for mlb-batters.
//
// Settings come from viper: built-in defaults, then cobra flags bound by the
// cli package, then MLB_BATTERS_* environment variables. Credentials are read
// from credentials.json and may also be supplied through the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pfrederiksen/mlb-batters/internal/crypto"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// MLB_BATTERS_SCRAPE_GAMES or MLB_BATTERS_CMS_AUTH_TOKEN.
const EnvPrefix = "MLB_BATTERS"

const (
	DefaultDocumentID    = "cl2v92aa4bxj80bipqgkw2t3d"
	DefaultRevalidateURL = "https://mlb-hit-helper.vercel.app/api/revalidate"
)

// Config holds the settings for a single run
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	LogDir   string `mapstructure:"log_dir"`
	LogLevel string `mapstructure:"log_level"`

	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	CMS     CMSConfig     `mapstructure:"cms"`
	Redis   RedisConfig   `mapstructure:"redis"`
	History HistoryConfig `mapstructure:"history"`
}

// ScrapeConfig controls how much is scraped per run
type ScrapeConfig struct {
	BattersPerTeam int `mapstructure:"batters_per_team"`
	GamesPerPlayer int `mapstructure:"games"`
	// Season is the stats year; 0 means the current year.
	Season        int `mapstructure:"season"`
	SettleDelayMs int `mapstructure:"settle_delay_ms"`
}

// SettleDelay returns the pause between page requests
func (c *ScrapeConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// CMSConfig identifies the CMS document and the front-end revalidation hook
type CMSConfig struct {
	DocumentID    string `mapstructure:"document_id"`
	RevalidateURL string `mapstructure:"revalidate_url"`
}

// RedisConfig configures the optional leaderboard cache.
// An empty URL disables it.
type RedisConfig struct {
	URL                 string `mapstructure:"url"`
	Stream              string `mapstructure:"stream"`
	LeaderboardTTLHours int    `mapstructure:"leaderboard_ttl_hours"`
}

// LeaderboardTTL returns how long a daily leaderboard key lives
func (c *RedisConfig) LeaderboardTTL() time.Duration {
	return time.Duration(c.LeaderboardTTLHours) * time.Hour
}

// HistoryConfig configures the optional SQLite history store.
// An empty path disables it.
type HistoryConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// Credentials are the secrets needed to publish to the CMS
type Credentials struct {
	Endpoint        string `mapstructure:"endpoint"`
	CMSAuthToken    string `mapstructure:"cms_auth_token"`
	RevalidateToken string `mapstructure:"revalidate_token"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		DataDir:  "data",
		LogDir:   "logs",
		LogLevel: "info",
		Scrape: ScrapeConfig{
			BattersPerTeam: 3,
			GamesPerPlayer: 10,
			Season:         0,
			SettleDelayMs:  3000,
		},
		CMS: CMSConfig{
			DocumentID:    DefaultDocumentID,
			RevalidateURL: DefaultRevalidateURL,
		},
		Redis: RedisConfig{
			Stream:              "batters.updates",
			LeaderboardTTLHours: 48,
		},
	}
}

// New returns a viper instance with defaults registered and environment
// overrides enabled
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers every key of Default with v so that environment
// variables and Unmarshal see them
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("log_dir", defaults.LogDir)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetDefault("scrape.batters_per_team", defaults.Scrape.BattersPerTeam)
	v.SetDefault("scrape.games", defaults.Scrape.GamesPerPlayer)
	v.SetDefault("scrape.season", defaults.Scrape.Season)
	v.SetDefault("scrape.settle_delay_ms", defaults.Scrape.SettleDelayMs)

	v.SetDefault("cms.document_id", defaults.CMS.DocumentID)
	v.SetDefault("cms.revalidate_url", defaults.CMS.RevalidateURL)

	v.SetDefault("redis.url", defaults.Redis.URL)
	v.SetDefault("redis.stream", defaults.Redis.Stream)
	v.SetDefault("redis.leaderboard_ttl_hours", defaults.Redis.LeaderboardTTLHours)

	v.SetDefault("history.db_path", defaults.History.DBPath)
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ResolvedSeason returns the configured season, or the year of now when unset
func (c *Config) ResolvedSeason(now time.Time) int {
	if c.Scrape.Season != 0 {
		return c.Scrape.Season
	}
	return now.Year()
}

// CredentialsKeyEnv names the passphrase used to open sealed credential values
const CredentialsKeyEnv = EnvPrefix + "_CREDENTIALS_KEY"

// LoadCredentials reads credentials.json at path. Each key can be overridden
// by MLB_BATTERS_<KEY>; a missing file is fine when the environment supplies
// every key. Values sealed with "mlb-batters seal" are opened with the
// passphrase in MLB_BATTERS_CREDENTIALS_KEY.
func LoadCredentials(path string) (*Credentials, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("endpoint", "")
	v.SetDefault("cms_auth_token", "")
	v.SetDefault("revalidate_token", "")
	v.SetDefault("credentials_key", "")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading credentials %s: %w", path, err)
	}

	var creds Credentials
	if err := v.Unmarshal(&creds); err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", err)
	}

	if err := creds.open(crypto.NewEncryptor(v.GetString("credentials_key"))); err != nil {
		return nil, fmt.Errorf("credentials %s: %w", path, err)
	}

	if errs := creds.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("credentials %s: %w", path, ValidationErrors(errs))
	}

	return &creds, nil
}

// open replaces sealed values with their plaintext
func (c *Credentials) open(enc *crypto.Encryptor) error {
	for _, field := range []struct {
		key   string
		value *string
	}{
		{"endpoint", &c.Endpoint},
		{"cms_auth_token", &c.CMSAuthToken},
		{"revalidate_token", &c.RevalidateToken},
	} {
		plain, err := enc.Open(*field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = plain
	}
	return nil
}
