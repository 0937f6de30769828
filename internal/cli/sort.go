package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByAverage SortOrder = "average"
	SortByName    SortOrder = "name"
	SortByTeam    SortOrder = "team"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByAverage, SortByName, SortByTeam:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be 'average', 'name' or 'team')", s)
}

// sortPlayers sorts a slice of players based on the specified sort order.
// Every order is stable, so equal keys keep their ranked order.
func sortPlayers(players []*batter.Player, sortOrder SortOrder) {
	switch sortOrder {
	case SortByAverage:
		batter.Rank(players)
	case SortByName:
		sort.SliceStable(players, func(i, j int) bool {
			return strings.ToLower(players[i].Name) < strings.ToLower(players[j].Name)
		})
	case SortByTeam:
		sort.SliceStable(players, func(i, j int) bool {
			if players[i].TeamCode != players[j].TeamCode {
				return players[i].TeamCode < players[j].TeamCode
			}
			// Within a team, best average first
			return players[i].MovingAverage() > players[j].MovingAverage()
		})
	}
}
