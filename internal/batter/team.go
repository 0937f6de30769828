package batter

import (
	"encoding/json"
	"strings"
)

// Team is an entry of the team directory
type Team struct {
	Code           string `json:"team_code"`
	Name           string `json:"team_name"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// scheduleAliases maps schedule abbreviations to directory nicknames
var scheduleAliases = map[string]string{
	"D-backs": "Diamondbacks",
}

// NormalizeTeamName maps a schedule team label to the nickname used in the
// team directory
func NormalizeTeamName(name string) string {
	name = strings.TrimSpace(name)
	if alias, ok := scheduleAliases[name]; ok {
		return alias
	}
	return name
}

// SelectPlaying returns the directory entries whose name contains any of the
// playing team nicknames. Directory order is preserved.
func SelectPlaying(directory []Team, teamsPlaying []string) []Team {
	selected := make([]Team, 0)
	for _, team := range directory {
		if isPlaying(team.Name, teamsPlaying) {
			selected = append(selected, team)
		}
	}
	return selected
}

func isPlaying(teamName string, teamsPlaying []string) bool {
	for _, playing := range teamsPlaying {
		if playing != "" && strings.Contains(teamName, playing) {
			return true
		}
	}
	return false
}

// TeamRoster groups the selected players of one team
type TeamRoster struct {
	Team
	players []*Player
}

// NewTeamRoster creates an empty roster for team
func NewTeamRoster(team Team) *TeamRoster {
	return &TeamRoster{
		Team:    team,
		players: make([]*Player, 0),
	}
}

// AddPlayers replaces the roster's players
func (r *TeamRoster) AddPlayers(players []*Player) {
	assigned := make([]*Player, len(players))
	copy(assigned, players)
	r.players = assigned
}

// Players returns the roster's players
func (r *TeamRoster) Players() []*Player {
	players := make([]*Player, len(r.players))
	copy(players, r.players)
	return players
}

// MarshalJSON emits team_code, name, primary_color, secondary_color and players
func (r *TeamRoster) MarshalJSON() ([]byte, error) {
	players := r.players
	if players == nil {
		players = []*Player{}
	}
	return json.Marshal(struct {
		TeamCode       string    `json:"team_code"`
		Name           string    `json:"name"`
		PrimaryColor   string    `json:"primary_color"`
		SecondaryColor string    `json:"secondary_color"`
		Players        []*Player `json:"players"`
	}{
		TeamCode:       r.Code,
		Name:           r.Name,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		Players:        players,
	})
}
