package scraper

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

// mlb.com renders styled-components; the hashed class suffixes change between
// deploys, so selectors match on the stable prefix.
const (
	sectionLabelSelector = `[class*="ScheduleCollectionGridstyle__SectionLabelContainer"]`
	sectionSelector      = `[class*="ScheduleCollectionGridstyle__SectionWrapper"]`
	gameSelector         = `[class*="ScheduleGamestyle__DesktopScheduleGameWrapper"]`
	awaySelector         = `[class*="TeamMatchupLayerstyle__AwayWrapper"]`
	homeSelector         = `[class*="TeamMatchupLayerstyle__HomeWrapper"]`
	teamNameSelector     = `[class*="TeamWrappersstyle__DesktopTeamWrapper"]`
)

// ScheduleLabel renders date the way the schedule page labels a day,
// e.g. "TUESDAY APRIL 5"
func ScheduleLabel(date time.Time) string {
	return strings.ToUpper(date.Format("Monday January 2"))
}

// FetchSchedule returns the sorted, de-duplicated nicknames of every team
// playing on date. hasGames is false when the page's first day is not date.
func (s *Scraper) FetchSchedule(ctx context.Context, date time.Time) ([]string, bool, error) {
	url := fmt.Sprintf("%s/%s", s.scheduleURL, date.Format("2006-01-02"))

	body, err := s.fetch(ctx, url)
	if err != nil {
		return nil, false, err
	}
	defer body.Close()

	teams, hasGames, err := parseSchedule(body, date)
	if err != nil {
		return nil, false, err
	}

	if err := s.settle(ctx); err != nil {
		return nil, false, err
	}
	return teams, hasGames, nil
}

// parseSchedule extracts the teams of the first schedule section
func parseSchedule(r io.Reader, date time.Time) ([]string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, false, fmt.Errorf("parsing HTML: %w", err)
	}

	label := doc.Find(sectionLabelSelector).First()
	if label.Length() == 0 {
		return nil, false, fmt.Errorf("schedule section label not found")
	}
	if compact(label.Text()) != compact(ScheduleLabel(date)) {
		return []string{}, false, nil
	}

	section := doc.Find(sectionSelector).First()
	if section.Length() == 0 {
		return nil, false, fmt.Errorf("schedule section not found")
	}

	seen := make(map[string]bool)
	teams := make([]string, 0)
	var parseErr error

	section.Find(gameSelector).EachWithBreak(func(i int, game *goquery.Selection) bool {
		away := strings.TrimSpace(game.Find(awaySelector).Find(teamNameSelector).First().Text())
		home := strings.TrimSpace(game.Find(homeSelector).Find(teamNameSelector).First().Text())
		if away == "" || home == "" {
			parseErr = fmt.Errorf("game %d: missing team name", i+1)
			return false
		}

		for _, name := range []string{away, home} {
			name = batter.NormalizeTeamName(name)
			if !seen[name] {
				seen[name] = true
				teams = append(teams, name)
			}
		}
		return true
	})
	if parseErr != nil {
		return nil, false, parseErr
	}

	sort.Strings(teams)
	return teams, true, nil
}

// compact upper-cases s and drops all whitespace. Section labels are split
// across elements, so spacing is not reliable.
func compact(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), "")
}
