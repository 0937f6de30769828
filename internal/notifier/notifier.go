package notifier

import (
	"context"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

// Publisher delivers a ranked batter dataset somewhere
type Publisher interface {
	// Name identifies the publisher in logs and error messages
	Name() string
	// Publish receives the players in ranked order
	Publish(ctx context.Context, players []*batter.Player) error
}

// DefaultLeaders is how many batters a leaderboard announcement lists
const DefaultLeaders = 5

func leaders(players []*batter.Player, limit int) []*batter.Player {
	if limit <= 0 || limit > len(players) {
		return players
	}
	return players[:limit]
}
