// Package history keeps a SQLite record of every published leaderboard so a
// player's moving average can be followed from day to day.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const dayLayout = "2006-01-02"

// Entry is one player's line in one recorded run
type Entry struct {
	RunID         string
	Day           string
	PlayerID      string
	Name          string
	TeamCode      string
	Rank          int
	MovingAverage float64
	Games         int
	Hits          int
	AtBats        int
	RecordedAt    time.Time
}

// Store persists leaderboard history in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the history database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record stores one run's ranked players, replacing whatever was recorded
// for the same day or run id. A player listed more than once keeps only its
// best-ranked line.
func (s *Store) Record(ctx context.Context, runID string, day time.Time, players []*batter.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(runID) == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	dayText := day.Format(dayLayout)
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE day = ? OR run_id = ?`, dayText, runID); err != nil {
		return fmt.Errorf("clear day %s: %w", dayText, err)
	}

	players = uniquePlayers(players)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, day, recorded_at, players) VALUES (?, ?, ?, ?)`,
		runID, dayText, toMillis(s.now()), len(players),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO player_averages (
		   run_id, day, player_id, name, team_code, rank,
		   moving_average, games, hits, at_bats
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare player insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range players {
		hits, atBats := p.Totals()
		if _, err := stmt.ExecContext(ctx,
			runID, dayText, p.ID, p.Name, p.TeamCode, i+1,
			p.MovingAverage(), len(p.Games()), hits, atBats,
		); err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}

// uniquePlayers drops repeated player ids, keeping the first occurrence.
func uniquePlayers(players []*batter.Player) []*batter.Player {
	seen := make(map[string]bool, len(players))
	unique := make([]*batter.Player, 0, len(players))
	for _, p := range players {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		unique = append(unique, p)
	}
	return unique
}

// Trend returns a player's recorded lines, newest first. limit <= 0 returns
// every line.
func (s *Store) Trend(ctx context.Context, playerID string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT pa.run_id, pa.day, pa.player_id, pa.name, pa.team_code, pa.rank,
		        pa.moving_average, pa.games, pa.hits, pa.at_bats, r.recorded_at
		   FROM player_averages pa
		   JOIN runs r ON r.run_id = pa.run_id
		  WHERE pa.player_id = ?
		  ORDER BY pa.day DESC, r.recorded_at DESC
		  LIMIT ?`,
		batter.NormalizeID(playerID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query trend for %s: %w", playerID, err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var recordedAt int64
		if err := rows.Scan(
			&e.RunID, &e.Day, &e.PlayerID, &e.Name, &e.TeamCode, &e.Rank,
			&e.MovingAverage, &e.Games, &e.Hits, &e.AtBats, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		e.RecordedAt = fromMillis(recordedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}
	return entries, nil
}

// Recorder records every published leaderboard under one run id
type Recorder struct {
	store *Store
	runID string
	day   time.Time
}

// Recorder returns a publisher that records into s
func (s *Store) Recorder(runID string, day time.Time) *Recorder {
	return &Recorder{store: s, runID: runID, day: day}
}

// Name identifies the recorder in logs
func (r *Recorder) Name() string {
	return "history"
}

// Publish records the ranked players
func (r *Recorder) Publish(ctx context.Context, players []*batter.Player) error {
	return r.store.Record(ctx, r.runID, r.day, players)
}
