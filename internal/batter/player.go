package batter

import (
	"encoding/json"
	"math"
	"strings"
)

// Player is a batter with identity, team metadata and recent games.
//
// The moving average is derived from the games and recomputed every time the
// games are replaced, so it is never stale.
type Player struct {
	ID             string
	Name           string
	TeamCode       string
	TeamName       string
	PrimaryColor   string
	SecondaryColor string

	games         []GameRecord
	movingAverage float64
}

// playerJSON fixes the serialized field order
type playerJSON struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	TeamCode       string       `json:"team_code"`
	TeamName       string       `json:"team_name"`
	PrimaryColor   string       `json:"primary_color"`
	SecondaryColor string       `json:"secondary_color"`
	MovingAverage  float64      `json:"moving_average"`
	Games          []GameRecord `json:"games"`
}

// NewPlayer creates a Player for a team with no games and a 0.0 average
func NewPlayer(id, name string, team Team) *Player {
	return &Player{
		ID:             id,
		Name:           name,
		TeamCode:       team.Code,
		TeamName:       team.Name,
		PrimaryColor:   team.PrimaryColor,
		SecondaryColor: team.SecondaryColor,
		games:          make([]GameRecord, 0),
	}
}

// AddGames replaces the player's games with records and recomputes the
// moving average. It is not additive.
func (p *Player) AddGames(records []GameRecord) {
	games := make([]GameRecord, len(records))
	copy(games, records)
	p.games = games
	p.movingAverage = movingAverage(games)
}

// Games returns a copy of the player's games
func (p *Player) Games() []GameRecord {
	games := make([]GameRecord, len(p.games))
	copy(games, p.games)
	return games
}

// MovingAverage returns the mean hits per game, rounded to 3 places
func (p *Player) MovingAverage() float64 {
	return p.movingAverage
}

// Totals returns summed hits and at-bats across the player's games
func (p *Player) Totals() (hits, atBats int) {
	for _, g := range p.games {
		hits += g.Hits
		atBats += g.AtBats
	}
	return hits, atBats
}

// movingAverage is round(sum(hits)/len(games), 3), or 0 with no games
func movingAverage(games []GameRecord) float64 {
	if len(games) == 0 {
		return 0
	}

	total := 0
	for _, g := range games {
		total += g.Hits
	}

	return roundTo(float64(total)/float64(len(games)), 3)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// MarshalJSON emits id, name, team_code, team_name, primary_color,
// secondary_color, moving_average and games, in that order
func (p *Player) MarshalJSON() ([]byte, error) {
	games := p.games
	if games == nil {
		games = []GameRecord{}
	}
	return json.Marshal(playerJSON{
		ID:             p.ID,
		Name:           p.Name,
		TeamCode:       p.TeamCode,
		TeamName:       p.TeamName,
		PrimaryColor:   p.PrimaryColor,
		SecondaryColor: p.SecondaryColor,
		MovingAverage:  p.movingAverage,
		Games:          games,
	})
}

// UnmarshalJSON restores a Player written by MarshalJSON. The stored average
// is kept as published rather than recomputed.
func (p *Player) UnmarshalJSON(data []byte) error {
	var raw playerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	p.Name = raw.Name
	p.TeamCode = raw.TeamCode
	p.TeamName = raw.TeamName
	p.PrimaryColor = raw.PrimaryColor
	p.SecondaryColor = raw.SecondaryColor
	p.movingAverage = raw.MovingAverage
	p.games = raw.Games
	if p.games == nil {
		p.games = make([]GameRecord, 0)
	}
	return nil
}

// NormalizeID returns the text after the final "/" of a scraped player id,
// e.g. "abc01/smith" becomes "smith"
func NormalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}
