package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
	"github.com/pfrederiksen/mlb-batters/internal/history"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// HistoryResult is the JSON shape of the history command
type HistoryResult struct {
	PlayerID string         `json:"player_id"`
	Entries  []historyEntry `json:"entries"`
}

type historyEntry struct {
	Day           string  `json:"day"`
	RunID         string  `json:"run_id"`
	Rank          int     `json:"rank"`
	MovingAverage float64 `json:"moving_average"`
	Games         int     `json:"games"`
	Hits          int     `json:"hits"`
	AtBats        int     `json:"at_bats"`
}

// WriteLeaders writes ranked players in the specified format
func WriteLeaders(w io.Writer, players []*batter.Player, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		if players == nil {
			players = []*batter.Player{}
		}
		return writeJSON(w, players)
	case FormatText:
		return writeLeadersText(w, players, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteHistory writes a player's recorded lines in the specified format
func WriteHistory(w io.Writer, playerID string, entries []history.Entry, format OutputFormat) error {
	switch format {
	case FormatJSON:
		result := HistoryResult{PlayerID: playerID, Entries: make([]historyEntry, len(entries))}
		for i, e := range entries {
			result.Entries[i] = historyEntry{
				Day:           e.Day,
				RunID:         e.RunID,
				Rank:          e.Rank,
				MovingAverage: e.MovingAverage,
				Games:         e.Games,
				Hits:          e.Hits,
				AtBats:        e.AtBats,
			}
		}
		return writeJSON(w, result)
	case FormatText:
		return writeHistoryText(w, playerID, entries)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeLeadersText outputs the leaderboard as a human-readable table
func writeLeadersText(w io.Writer, players []*batter.Player, verbose bool) error {
	if len(players) == 0 {
		fmt.Fprintln(w, "No batters found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s %-24s %-4s %7s %5s %6s\n", "#", "PLAYER", "TEAM", "H/G", "G", "AVG")
	for i, p := range players {
		hits, atBats := p.Totals()
		fmt.Fprintf(w, "%-4d %-24s %-4s %7.3f %5d %6s\n",
			i+1, p.Name, p.TeamCode, p.MovingAverage(), len(p.Games()), battingAverage(hits, atBats))

		if verbose {
			for _, g := range p.Games() {
				fmt.Fprintf(w, "       %s %-6s %d-for-%d\n", g.Date, g.Opponent, g.Hits, g.AtBats)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d batters\n", len(players))

	return nil
}

func writeHistoryText(w io.Writer, playerID string, entries []history.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No history recorded for %s.\n", playerID)
		return nil
	}

	first := entries[0]
	fmt.Fprintf(w, "%s (%s, %s)\n\n", first.Name, first.TeamCode, first.PlayerID)
	fmt.Fprintf(w, "%-10s %5s %7s %5s %6s\n", "DAY", "RANK", "H/G", "G", "AVG")
	for _, e := range entries {
		fmt.Fprintf(w, "%-10s %5d %7.3f %5d %6s\n",
			e.Day, e.Rank, e.MovingAverage, e.Games, battingAverage(e.Hits, e.AtBats))
	}

	return nil
}

// battingAverage formats hits/at-bats the way box scores do, e.g. ".333"
func battingAverage(hits, atBats int) string {
	if atBats == 0 {
		return "-"
	}
	avg := fmt.Sprintf("%.3f", float64(hits)/float64(atBats))
	return strings.TrimPrefix(avg, "0")
}
