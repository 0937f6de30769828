package scraper

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-querystring/query"
	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

const gameLogSelector = "#div_batting_gamelogs table, table#batting_gamelogs"

// gameLogQuery is the query string of the batting game log page
type gameLogQuery struct {
	ID   string `url:"id"`
	Type string `url:"t"`
	Year int    `url:"year"`
}

type gameRow struct {
	sortKey string
	record  batter.GameRecord
}

// FetchRecentGames returns the player's n most recent games, newest first
func (s *Scraper) FetchRecentGames(ctx context.Context, player *batter.Player, n int) ([]batter.GameRecord, error) {
	params, err := query.Values(gameLogQuery{ID: player.ID, Type: "b", Year: s.season})
	if err != nil {
		return nil, fmt.Errorf("building game log query: %w", err)
	}
	pageURL := s.statsURL + "/players/gl.fcgi?" + params.Encode()

	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	games, err := parseGameLog(body, n)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", player.ID, err)
	}

	if err := s.settle(ctx); err != nil {
		return nil, err
	}
	return games, nil
}

// parseGameLog reads the batting game log, orders it by date descending and
// keeps the first n games
func parseGameLog(r io.Reader, n int) ([]batter.GameRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table, err := findTable(doc, gameLogSelector)
	if err != nil {
		return nil, err
	}

	rows := make([]gameRow, 0)
	var parseErr error

	table.Find("tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		csk, ok := tr.Find("[data-stat='date_game']").First().Attr("csk")
		if !ok || csk == "" {
			return true
		}
		if _, played := statCell(tr, "H"); !played {
			// did not play (inactive, suspended)
			return true
		}

		row, err := parseGameRow(tr, csk)
		if err != nil {
			parseErr = fmt.Errorf("row %d: %w", i+1, err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].sortKey > rows[j].sortKey
	})

	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}

	games := make([]batter.GameRecord, 0, len(rows))
	for _, row := range rows {
		games = append(games, row.record)
	}
	return games, nil
}

func parseGameRow(tr *goquery.Selection, csk string) (gameRow, error) {
	hits, err := statInt(tr, "H")
	if err != nil {
		return gameRow{}, err
	}
	atBats, err := statInt(tr, "AB")
	if err != nil {
		return gameRow{}, err
	}

	opponent, _ := statCell(tr, "opp_ID")
	homeAway, _ := statCell(tr, "team_homeORaway")

	date, _, _ := strings.Cut(csk, ".")

	return gameRow{
		sortKey: csk,
		record:  batter.NewGameRecord(date, homeAway+opponent, hits, atBats),
	}, nil
}
