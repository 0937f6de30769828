// Package scraper provides HTTP fetching and HTML parsing for MLB schedule and
// batting pages.
//
// The scraper reads three kinds of public pages: the mlb.com schedule for a
// date (which teams play), a baseball-reference team page (the team's top
// batters by hits) and a baseball-reference game log (a batter's most recent
// games). Parsing works on io.Reader so every page can be tested from fixtures.
// Baseball-reference sometimes ships tables inside HTML comments; those are
// parsed as well.
package scraper
