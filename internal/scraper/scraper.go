package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	ScheduleURL = "https://www.mlb.com/schedule"
	StatsURL    = "https://www.baseball-reference.com"
	UserAgent   = "mlb-batters/1.0 (github.com/pfrederiksen/mlb-batters)"
	Timeout     = 120 * time.Second

	// DefaultSettleDelay is the pause after each page load
	DefaultSettleDelay = 3 * time.Second
)

// Scraper fetches and parses schedule, roster and game log pages.
// It fetches one page at a time.
type Scraper struct {
	client      *http.Client
	scheduleURL string
	statsURL    string
	season      int
	delay       time.Duration
}

// Option configures a Scraper
type Option func(*Scraper)

// WithSeason sets the season used for team and game log pages
func WithSeason(year int) Option {
	return func(s *Scraper) {
		s.season = year
	}
}

// WithSettleDelay sets the pause after each page load
func WithSettleDelay(d time.Duration) Option {
	return func(s *Scraper) {
		s.delay = d
	}
}

// New creates a new Scraper for the current season
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		scheduleURL: ScheduleURL,
		statsURL:    StatsURL,
		season:      time.Now().Year(),
		delay:       DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Season returns the season the scraper reads
func (s *Scraper) Season() int {
	return s.season
}

// Close releases idle connections held by the scraper
func (s *Scraper) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// fetch GETs url and returns the response body. The caller closes it.
func (s *Scraper) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	return resp.Body, nil
}

// settle waits the configured delay so consecutive page loads are spaced out
func (s *Scraper) settle(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// findTable returns the first match of selector, looking inside HTML comments
// when the page does not render the table directly
func findTable(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	if sel := doc.Find(selector); sel.Length() > 0 {
		return sel.First(), nil
	}

	var found *goquery.Selection
	doc.Find("*").Contents().EachWithBreak(func(_ int, node *goquery.Selection) bool {
		n := node.Get(0)
		if n.Type != html.CommentNode || !strings.Contains(n.Data, "<table") {
			return true
		}
		inner, err := goquery.NewDocumentFromReader(strings.NewReader(n.Data))
		if err != nil {
			return true
		}
		if sel := inner.Find(selector); sel.Length() > 0 {
			found = sel.First()
			return false
		}
		return true
	})

	if found == nil {
		return nil, fmt.Errorf("table %q not found", selector)
	}
	return found, nil
}

// statCell returns the trimmed text of the row cell with the given data-stat
func statCell(row *goquery.Selection, stat string) (string, bool) {
	cell := row.Find(fmt.Sprintf("[data-stat='%s']", stat)).First()
	if cell.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(cell.Text()), true
}

// statInt parses the row cell with the given data-stat as an integer
func statInt(row *goquery.Selection, stat string) (int, error) {
	text, ok := statCell(row, stat)
	if !ok {
		return 0, fmt.Errorf("missing %s column", stat)
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parsing %s value %q: %w", stat, text, err)
	}
	return value, nil
}
