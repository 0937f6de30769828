// Package cli implements the command-line interface for mlb-batters.
//
// The root command runs the daily scrape and publish pipeline. The leaders
// subcommand prints the ranked batters.json (or the leaderboard cached in
// Redis) as text or JSON, and the history subcommand prints a player's
// recorded moving averages from the SQLite history store.
package cli
