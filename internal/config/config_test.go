package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/mlb-batters/internal/crypto"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Scrape.BattersPerTeam != 3 {
		t.Errorf("BattersPerTeam = %d, want 3", cfg.Scrape.BattersPerTeam)
	}
	if cfg.Scrape.GamesPerPlayer != 10 {
		t.Errorf("GamesPerPlayer = %d, want 10", cfg.Scrape.GamesPerPlayer)
	}
	if cfg.Scrape.SettleDelay() != 3*time.Second {
		t.Errorf("SettleDelay() = %v, want 3s", cfg.Scrape.SettleDelay())
	}
	if cfg.CMS.DocumentID != DefaultDocumentID {
		t.Errorf("DocumentID = %q", cfg.CMS.DocumentID)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() should be valid, got %v", ValidationErrors(errs))
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "data" || cfg.LogDir != "logs" {
		t.Errorf("dirs = %q, %q", cfg.DataDir, cfg.LogDir)
	}
	if cfg.Redis.Stream != "batters.updates" {
		t.Errorf("Redis.Stream = %q", cfg.Redis.Stream)
	}
	if cfg.Redis.LeaderboardTTL() != 48*time.Hour {
		t.Errorf("LeaderboardTTL() = %v", cfg.Redis.LeaderboardTTL())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MLB_BATTERS_SCRAPE_GAMES", "5")
	t.Setenv("MLB_BATTERS_CMS_DOCUMENT_ID", "doc-42")
	t.Setenv("MLB_BATTERS_HISTORY_DB_PATH", "/tmp/history.db")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scrape.GamesPerPlayer != 5 {
		t.Errorf("GamesPerPlayer = %d, want 5", cfg.Scrape.GamesPerPlayer)
	}
	if cfg.CMS.DocumentID != "doc-42" {
		t.Errorf("DocumentID = %q, want doc-42", cfg.CMS.DocumentID)
	}
	if cfg.History.DBPath != "/tmp/history.db" {
		t.Errorf("DBPath = %q", cfg.History.DBPath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	v := New()
	v.Set("scrape.batters_per_team", 0)
	v.Set("log_level", "loud")

	_, err := Load(v)
	if err == nil {
		t.Fatal("Load() should fail")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(verrs), err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero games", func(c *Config) { c.Scrape.GamesPerPlayer = 0 }, "scrape.games"},
		{"ancient season", func(c *Config) { c.Scrape.Season = 1800 }, "scrape.season"},
		{"negative delay", func(c *Config) { c.Scrape.SettleDelayMs = -1 }, "scrape.settle_delay_ms"},
		{"empty document id", func(c *Config) { c.CMS.DocumentID = "" }, "cms.document_id"},
		{"bad revalidate url", func(c *Config) { c.CMS.RevalidateURL = "ftp://x" }, "cms.revalidate_url"},
		{"redis without stream", func(c *Config) { c.Redis.URL = "redis://localhost:6379"; c.Redis.Stream = "" }, "redis.stream"},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), ValidationErrors(errs))
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestResolvedSeason(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	cfg := Default()
	if got := cfg.ResolvedSeason(now); got != 2026 {
		t.Errorf("ResolvedSeason() = %d, want 2026", got)
	}

	cfg.Scrape.Season = 2022
	if got := cfg.ResolvedSeason(now); got != 2022 {
		t.Errorf("ResolvedSeason() = %d, want 2022", got)
	}
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	content := `{"endpoint": "https://cms.example.com/graphql", "cms_auth_token": "secret", "revalidate_token": "reval"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials() error = %v", err)
	}
	if creds.Endpoint != "https://cms.example.com/graphql" || creds.CMSAuthToken != "secret" || creds.RevalidateToken != "reval" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestLoadCredentials_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	content := `{"endpoint": "https://cms.example.com/graphql", "cms_auth_token": "secret", "revalidate_token": "reval"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MLB_BATTERS_CMS_AUTH_TOKEN", "from-env")

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials() error = %v", err)
	}
	if creds.CMSAuthToken != "from-env" {
		t.Errorf("CMSAuthToken = %q, want from-env", creds.CMSAuthToken)
	}
}

func TestLoadCredentials_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("MLB_BATTERS_ENDPOINT", "https://cms.example.com/graphql")
	t.Setenv("MLB_BATTERS_CMS_AUTH_TOKEN", "secret")
	t.Setenv("MLB_BATTERS_REVALIDATE_TOKEN", "reval")

	creds, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadCredentials() error = %v", err)
	}
	if creds.RevalidateToken != "reval" {
		t.Errorf("RevalidateToken = %q", creds.RevalidateToken)
	}
}

func TestLoadCredentials_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"endpoint": "https://cms.example.com/graphql"}`), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadCredentials(path)
	if err == nil {
		t.Fatal("LoadCredentials() should fail without tokens")
	}
	if !strings.Contains(err.Error(), "cms_auth_token") || !strings.Contains(err.Error(), "revalidate_token") {
		t.Errorf("error should name missing keys: %v", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	single := ValidationErrors{{Field: "scrape.games", Value: 0, Message: "must be at least 1"}}
	if got := single.Error(); got != "scrape.games: must be at least 1 (got: 0)" {
		t.Errorf("Error() = %q", got)
	}

	multi := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	if !strings.HasPrefix(multi.Error(), "2 validation errors:") {
		t.Errorf("Error() = %q", multi.Error())
	}
}

func TestLoadCredentials_Sealed(t *testing.T) {
	enc := crypto.NewEncryptor("hunter2")
	sealed, err := enc.Seal("secret")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "credentials.json")
	content := `{"endpoint": "https://cms.example.com/graphql", "cms_auth_token": "` + sealed + `", "revalidate_token": "reval"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(CredentialsKeyEnv, "hunter2")
	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials() error = %v", err)
	}
	if creds.CMSAuthToken != "secret" {
		t.Errorf("CMSAuthToken = %q, want secret", creds.CMSAuthToken)
	}

	t.Setenv(CredentialsKeyEnv, "")
	if _, err := LoadCredentials(path); !errors.Is(err, crypto.ErrNoPassphrase) {
		t.Errorf("error = %v, want ErrNoPassphrase", err)
	}
}
