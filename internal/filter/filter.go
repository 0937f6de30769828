// Package filter narrows a leaderboard to the batters a reader cares about.
//
// Criteria:
//   - Teams (team code or full team name, case-insensitive exact match)
//   - Names (substring matching, case-insensitive)
//   - Minimum games in the moving-average window
//   - Minimum moving average
//
// Example usage:
//
//	f := filter.Filter{Teams: []string{"NYY", "Boston Red Sox"}, MinGames: 5}
//	hot := f.Apply(players)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

// Filter represents leaderboard filtering criteria
type Filter struct {
	// Team code or name filtering (case-insensitive exact match)
	Teams []string `json:"teams,omitempty"`

	// Player name filtering (case-insensitive substring match)
	Names []string `json:"names,omitempty"`

	// Players with fewer recorded games are dropped
	MinGames int `json:"min_games,omitempty"`

	// Players below this moving average are dropped
	MinAverage float64 `json:"min_average,omitempty"`
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all players.
func (f *Filter) IsEmpty() bool {
	return len(f.Teams) == 0 &&
		len(f.Names) == 0 &&
		f.MinGames <= 0 &&
		f.MinAverage <= 0
}

// Validate rejects criteria that can never be meaningful
func (f *Filter) Validate() error {
	if f.MinGames < 0 {
		return fmt.Errorf("min games must not be negative: %d", f.MinGames)
	}
	if f.MinAverage < 0 {
		return fmt.Errorf("min average must not be negative: %.3f", f.MinAverage)
	}
	return nil
}

// Matches checks if a player matches all active filter criteria.
// An empty filter matches all players.
func (f *Filter) Matches(p *batter.Player) bool {
	if f.IsEmpty() {
		return true
	}

	if len(f.Teams) > 0 && !matchesAnyExact(p.TeamCode, f.Teams) && !matchesAnyExact(p.TeamName, f.Teams) {
		return false
	}

	if len(f.Names) > 0 && !matchesAnySubstring(p.Name, f.Names) {
		return false
	}

	if f.MinGames > 0 && len(p.Games()) < f.MinGames {
		return false
	}

	if f.MinAverage > 0 && p.MovingAverage() < f.MinAverage {
		return false
	}

	return true
}

// Apply returns the matching players in their original order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(players []*batter.Player) []*batter.Player {
	if f.IsEmpty() {
		return players
	}

	filtered := make([]*batter.Player, 0, len(players))
	for _, p := range players {
		if f.Matches(p) {
			filtered = append(filtered, p)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "Teams: NYY, BOS | Min games: 5"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Teams) > 0 {
		parts = append(parts, fmt.Sprintf("Teams: %s", strings.Join(f.Teams, ", ")))
	}

	if len(f.Names) > 0 {
		parts = append(parts, fmt.Sprintf("Names: %s", strings.Join(f.Names, ", ")))
	}

	if f.MinGames > 0 {
		parts = append(parts, fmt.Sprintf("Min games: %d", f.MinGames))
	}

	if f.MinAverage > 0 {
		parts = append(parts, fmt.Sprintf("Min average: %.3f", f.MinAverage))
	}

	return strings.Join(parts, " | ")
}

func matchesAnyExact(value string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c), value) {
			return true
		}
	}
	return false
}

func matchesAnySubstring(value string, candidates []string) bool {
	lower := strings.ToLower(value)
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && strings.Contains(lower, c) {
			return true
		}
	}
	return false
}
