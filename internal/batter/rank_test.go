package batter

import "testing"

func playerWithHits(id string, hits ...int) *Player {
	p := NewPlayer(id, id, testTeam)
	p.AddGames(gamesWithHits(hits...))
	return p
}

func TestRank(t *testing.T) {
	players := []*Player{
		playerWithHits("low", 0, 1),  // 0.5
		playerWithHits("tieA", 1, 1), // 1.0
		playerWithHits("high", 2, 3), // 2.5
		playerWithHits("tieB", 2, 0), // 1.0
		playerWithHits("none"),       // 0.0
		playerWithHits("tieC", 1),    // 1.0
	}

	Rank(players)

	want := []string{"high", "tieA", "tieB", "tieC", "low", "none"}
	for i, id := range want {
		if players[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, players[i].ID, id)
		}
	}
}

func TestRank_Empty(t *testing.T) {
	var players []*Player
	Rank(players)
	if len(players) != 0 {
		t.Errorf("Rank(nil) produced %d players", len(players))
	}
}
