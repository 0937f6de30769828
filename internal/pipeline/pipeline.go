// Package pipeline runs one scrape: today's schedule, the top batters of each
// playing team, their recent games, the ranking, batters.json and every
// configured publisher, strictly in that order.
//
// Any failing step aborts the run and is returned wrapped with the step name.
// A day without games is not an error; Run returns a Result with HasGames
// false and writes nothing.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
	"github.com/pfrederiksen/mlb-batters/internal/logger"
	"github.com/pfrederiksen/mlb-batters/internal/notifier"
	"github.com/pfrederiksen/mlb-batters/internal/storage"
)

const (
	DefaultBattersPerTeam = 3
	DefaultGamesPerPlayer = 10
)

// Source provides the remote data of a run. The scraper package implements it.
type Source interface {
	FetchSchedule(ctx context.Context, date time.Time) (teams []string, hasGames bool, err error)
	FetchRoster(ctx context.Context, team batter.Team, n int) ([]*batter.Player, error)
	FetchRecentGames(ctx context.Context, player *batter.Player, n int) ([]batter.GameRecord, error)
	Close() error
}

// Config controls the size of a run
type Config struct {
	BattersPerTeam int
	GamesPerPlayer int
	// Date is the schedule day; zero means today
	Date time.Time
}

// Result summarizes a run
type Result struct {
	Date         time.Time
	HasGames     bool
	TeamsPlaying []string
	Rosters      []*batter.TeamRoster
	// Players in ranked order
	Players    []*batter.Player
	OutputPath string
	Published  []string
	Warnings   int
	Duration   time.Duration
}

// Pipeline wires a Source to storage and publishers
type Pipeline struct {
	source     Source
	store      *storage.Storage
	publishers []notifier.Publisher
	log        *logger.Logger
	cfg        Config
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithPublishers sets the publishers, called in the given order
func WithPublishers(publishers ...notifier.Publisher) Option {
	return func(p *Pipeline) {
		p.publishers = publishers
	}
}

// WithLogger sets the logger used for progress output
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// WithClock replaces time.Now, used when Config.Date is zero
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline. Zero sizes in cfg fall back to the defaults.
func New(source Source, store *storage.Storage, cfg Config, opts ...Option) *Pipeline {
	if cfg.BattersPerTeam <= 0 {
		cfg.BattersPerTeam = DefaultBattersPerTeam
	}
	if cfg.GamesPerPlayer <= 0 {
		cfg.GamesPerPlayer = DefaultGamesPerPlayer
	}

	p := &Pipeline{
		source: source,
		store:  store,
		log:    logger.Default(),
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline once. The source is closed on every return path.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.now()
	defer func() {
		if err := p.source.Close(); err != nil {
			p.log.Warn("Closing source failed", logger.Fields{"error": err.Error()})
		}
	}()

	date := p.cfg.Date
	if date.IsZero() {
		date = start
	}
	result := &Result{Date: date}

	teamsPlaying, hasGames, err := p.schedule(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	result.HasGames = hasGames
	result.TeamsPlaying = teamsPlaying

	if !hasGames {
		p.log.Info("No games scheduled, nothing to do", logger.Fields{"date": date.Format("2006-01-02")})
		return result, nil
	}

	directory, err := p.store.LoadTeams()
	if err != nil {
		return nil, fmt.Errorf("loading team directory: %w", err)
	}

	teams := batter.SelectPlaying(directory, teamsPlaying)
	logger.SetGauge("teams.selected", float64(len(teams)))
	p.log.Info("Teams playing", logger.Fields{
		"scheduled": len(teamsPlaying),
		"selected":  len(teams),
	})
	if len(teams) == 0 {
		p.log.Warn("No scheduled team matched the team directory", logger.Fields{"teams_playing": teamsPlaying})
		result.Warnings++
	}

	// Fresh per run so repeated runs never share state
	players := make([]*batter.Player, 0, len(teams)*p.cfg.BattersPerTeam)

	for _, team := range teams {
		roster, err := p.roster(ctx, team)
		if err != nil {
			return nil, fmt.Errorf("fetching roster for %s: %w", team.Code, err)
		}
		result.Rosters = append(result.Rosters, roster)
		players = append(players, roster.Players()...)
	}

	for _, player := range players {
		warnings, err := p.recentGames(ctx, player)
		if err != nil {
			return nil, fmt.Errorf("fetching games for %s: %w", player.ID, err)
		}
		result.Warnings += warnings
	}

	batter.Rank(players)
	result.Players = players
	if len(players) > 0 {
		logger.SetGauge("batters.top_average", players[0].MovingAverage())
	}

	if err := p.store.SaveBatters(players); err != nil {
		return nil, fmt.Errorf("saving batters: %w", err)
	}
	result.OutputPath = p.store.BattersPath()
	p.log.Info("Saved batters", logger.Fields{"path": result.OutputPath, "players": len(players)})

	for _, pub := range p.publishers {
		pubStart := time.Now()
		if err := pub.Publish(ctx, players); err != nil {
			return nil, fmt.Errorf("publishing to %s: %w", pub.Name(), err)
		}
		logger.RecordTiming("publish."+pub.Name(), time.Since(pubStart))
		result.Published = append(result.Published, pub.Name())
		p.log.Info("Published", logger.Fields{"publisher": pub.Name()})
	}

	result.Duration = p.now().Sub(start)
	return result, nil
}

func (p *Pipeline) schedule(ctx context.Context, date time.Time) ([]string, bool, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("scrape.schedule", time.Since(start)) }()

	p.log.Debug("Fetching schedule", logger.Fields{"date": date.Format("2006-01-02")})
	return p.source.FetchSchedule(ctx, date)
}

func (p *Pipeline) roster(ctx context.Context, team batter.Team) (*batter.TeamRoster, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("scrape.roster", time.Since(start)) }()

	players, err := p.source.FetchRoster(ctx, team, p.cfg.BattersPerTeam)
	if err != nil {
		return nil, err
	}

	roster := batter.NewTeamRoster(team)
	roster.AddPlayers(players)
	logger.IncrCounter("teams.scraped")
	p.log.Info("Scraped team", logger.Fields{"team_code": team.Code, "players": len(players)})
	return roster, nil
}

// recentGames loads the player's games and returns how many records failed
// validation. Invalid records are kept.
func (p *Pipeline) recentGames(ctx context.Context, player *batter.Player) (int, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("scrape.gamelog", time.Since(start)) }()

	games, err := p.source.FetchRecentGames(ctx, player, p.cfg.GamesPerPlayer)
	if err != nil {
		return 0, err
	}

	warnings := 0
	for _, game := range games {
		if err := game.Validate(); err != nil {
			warnings++
			p.log.Warn("Suspicious game line", logger.Fields{
				"player_id": player.ID,
				"date":      game.Date,
				"hits":      game.Hits,
				"at_bats":   game.AtBats,
				"problem":   err.Error(),
			})
		}
	}

	player.AddGames(games)
	logger.IncrCounter("players.scraped")
	p.log.Debug("Scraped player", logger.Fields{
		"player_id":      player.ID,
		"games":          len(games),
		"moving_average": player.MovingAverage(),
	})
	return warnings, nil
}
