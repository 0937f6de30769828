package cli

import (
	"strings"
	"testing"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

func ids(players []*batter.Player) string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return strings.Join(out, ",")
}

func TestSortPlayers(t *testing.T) {
	tests := []struct {
		order SortOrder
		want  string
	}{
		{SortByAverage, "deverra01,judgeaa01,torregl01"},
		{SortByName, "judgeaa01,torregl01,deverra01"},
		{SortByTeam, "deverra01,judgeaa01,torregl01"},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			players := samplePlayers()
			sortPlayers(players, tt.order)
			if got := ids(players); got != tt.want {
				t.Errorf("sortPlayers(%s) = %s, want %s", tt.order, got, tt.want)
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	for _, in := range []string{"average", "NAME", " team "} {
		if _, err := parseSortOrder(in); err != nil {
			t.Errorf("parseSortOrder(%q) error = %v", in, err)
		}
	}
	if _, err := parseSortOrder("date"); err == nil {
		t.Error("parseSortOrder(date) should fail")
	}
}
