package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "scrape.games")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.DataDir == "" {
		errors = append(errors, ValidationError{Field: "data_dir", Value: c.DataDir, Message: "must not be empty"})
	}
	if c.LogDir == "" {
		errors = append(errors, ValidationError{Field: "log_dir", Value: c.LogDir, Message: "must not be empty"})
	}
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.LogLevel)) {
		errors = append(errors, ValidationError{
			Field:   "log_level",
			Value:   c.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	errors = append(errors, c.validateScrape()...)

	if c.CMS.DocumentID == "" {
		errors = append(errors, ValidationError{Field: "cms.document_id", Value: c.CMS.DocumentID, Message: "must not be empty"})
	}
	if !strings.HasPrefix(c.CMS.RevalidateURL, "http://") && !strings.HasPrefix(c.CMS.RevalidateURL, "https://") {
		errors = append(errors, ValidationError{Field: "cms.revalidate_url", Value: c.CMS.RevalidateURL, Message: "must be an http(s) URL"})
	}

	if c.Redis.LeaderboardTTLHours < 0 {
		errors = append(errors, ValidationError{Field: "redis.leaderboard_ttl_hours", Value: c.Redis.LeaderboardTTLHours, Message: "must not be negative"})
	}
	if c.Redis.URL != "" && c.Redis.Stream == "" {
		errors = append(errors, ValidationError{Field: "redis.stream", Value: c.Redis.Stream, Message: "must be set when redis.url is set"})
	}

	return errors
}

func (c *Config) validateScrape() []ValidationError {
	var errors []ValidationError

	if c.Scrape.BattersPerTeam < 1 {
		errors = append(errors, ValidationError{Field: "scrape.batters_per_team", Value: c.Scrape.BattersPerTeam, Message: "must be at least 1"})
	}
	if c.Scrape.GamesPerPlayer < 1 {
		errors = append(errors, ValidationError{Field: "scrape.games", Value: c.Scrape.GamesPerPlayer, Message: "must be at least 1"})
	}
	// First professional season on baseball-reference.
	if c.Scrape.Season != 0 && c.Scrape.Season < 1871 {
		errors = append(errors, ValidationError{Field: "scrape.season", Value: c.Scrape.Season, Message: "must be 0 (current year) or 1871 or later"})
	}
	if c.Scrape.SettleDelayMs < 0 {
		errors = append(errors, ValidationError{Field: "scrape.settle_delay_ms", Value: c.Scrape.SettleDelayMs, Message: "must not be negative"})
	}

	return errors
}

// Validate reports missing credential keys
func (c *Credentials) Validate() []ValidationError {
	var errors []ValidationError
	for _, field := range []struct {
		key   string
		value string
	}{
		{"endpoint", c.Endpoint},
		{"cms_auth_token", c.CMSAuthToken},
		{"revalidate_token", c.RevalidateToken},
	} {
		if field.value == "" {
			errors = append(errors, ValidationError{Field: field.key, Value: "", Message: "is required"})
		}
	}
	return errors
}
