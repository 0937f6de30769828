// Package storage provides JSON file persistence for the team directory and
// the ranked batter dataset.
//
// The data directory holds teams_directory.json (input, maintained by hand) and
// batters.json (output, overwritten on every run). The default location is
// ./data.
package storage
