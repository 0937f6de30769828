package batter

import "errors"

var (
	// ErrNegativeStat is reported when hits or at-bats are below zero.
	ErrNegativeStat = errors.New("negative hits or at-bats")
	// ErrHitsExceedAtBats is reported when a game line has more hits than at-bats.
	ErrHitsExceedAtBats = errors.New("hits exceed at-bats")
)

// GameRecord is one player's batting line for a single game.
// It is a value type; Player keeps its own copy of every record.
type GameRecord struct {
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	Hits     int    `json:"hits"`
	AtBats   int    `json:"at_bats"`
}

// NewGameRecord creates a GameRecord
func NewGameRecord(date, opponent string, hits, atBats int) GameRecord {
	return GameRecord{
		Date:     date,
		Opponent: opponent,
		Hits:     hits,
		AtBats:   atBats,
	}
}

// Validate reports stat lines that cannot be right. Callers decide what to do
// with the error; AddGames accepts invalid records unchanged.
func (g GameRecord) Validate() error {
	if g.Hits < 0 || g.AtBats < 0 {
		return ErrNegativeStat
	}
	if g.Hits > g.AtBats {
		return ErrHitsExceedAtBats
	}
	return nil
}
