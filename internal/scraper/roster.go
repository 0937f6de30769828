package scraper

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

const teamBattingSelector = "#team_batting"

type rosterRow struct {
	id   string
	name string
	hits int
}

// FetchRoster returns the n players of team with the most hits this season
func (s *Scraper) FetchRoster(ctx context.Context, team batter.Team, n int) ([]*batter.Player, error) {
	url := fmt.Sprintf("%s/teams/%s/%d.shtml", s.statsURL, team.Code, s.season)

	body, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	players, err := parseRoster(body, team, n)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", team.Code, err)
	}

	if err := s.settle(ctx); err != nil {
		return nil, err
	}
	return players, nil
}

// parseRoster reads the team batting table, orders it by hits descending and
// keeps the first n player rows
func parseRoster(r io.Reader, team batter.Team, n int) ([]*batter.Player, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table, err := findTable(doc, teamBattingSelector)
	if err != nil {
		return nil, err
	}

	rows := make([]rosterRow, 0)
	var parseErr error

	table.Find("tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cell := tr.Find("[data-stat='player']").First()
		rawID, ok := cell.Attr("data-append-csv")
		if !ok || rawID == "" {
			// header repeats and spacer rows
			return true
		}

		name := strings.TrimSpace(cell.Find("a").First().Text())
		if name == "" {
			name = strings.TrimSpace(cell.Text())
		}

		hits, err := statInt(tr, "H")
		if err != nil {
			parseErr = fmt.Errorf("row %d: %w", i+1, err)
			return false
		}

		rows = append(rows, rosterRow{
			id:   batter.NormalizeID(rawID),
			name: name,
			hits: hits,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].hits > rows[j].hits
	})

	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}

	players := make([]*batter.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, batter.NewPlayer(row.id, row.name, team))
	}
	return players, nil
}
