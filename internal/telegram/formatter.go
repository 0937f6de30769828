package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

// DefaultLeaders is how many batters a message lists
const DefaultLeaders = 10

// FormatLeaderboard formats the top players as an HTML Telegram message
func FormatLeaderboard(players []*batter.Player, limit int) string {
	var msg strings.Builder

	msg.WriteString("⚾ <b>MLB Hot Hitters</b>\n")
	msg.WriteString("<i>Average hits per game over recent games</i>\n\n")

	if limit <= 0 || limit > len(players) {
		limit = len(players)
	}

	for i, p := range players[:limit] {
		hits, atBats := p.Totals()
		msg.WriteString(fmt.Sprintf("%d. <b>%s</b> (%s) %.3f",
			i+1, html.EscapeString(p.Name), html.EscapeString(p.TeamCode), p.MovingAverage()))
		if atBats > 0 {
			msg.WriteString(fmt.Sprintf(" <i>%d-for-%d</i>", hits, atBats))
		}
		msg.WriteString("\n")
	}

	if rest := len(players) - limit; rest > 0 {
		msg.WriteString(fmt.Sprintf("\n…and %d more\n", rest))
	}

	msg.WriteString("\n#MLB #Baseball")
	return msg.String()
}
