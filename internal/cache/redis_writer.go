// Package cache mirrors each run's leaderboard into Redis and announces it on
// a stream, so other services can read the day's hot hitters without parsing
// batters.json.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultStream receives one entry per published leaderboard
	DefaultStream = "batters.updates"
	// DefaultLeaderboardTTL keeps a day's leaderboard around through the next day
	DefaultLeaderboardTTL = 48 * time.Hour

	latestKey = "batters:leaders:latest"
)

// Options configures a RedisWriter
type Options struct {
	Stream string
	TTL    time.Duration
	// Day names the leaderboard keys; zero means today
	Day time.Time
}

// RedisWriter handles writing leaderboards to Redis
type RedisWriter struct {
	client *redis.Client
	stream string
	ttl    time.Duration
	day    time.Time
}

// Connect parses a redis:// URL and verifies the server answers
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client *redis.Client, opts Options) *RedisWriter {
	if opts.Stream == "" {
		opts.Stream = DefaultStream
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultLeaderboardTTL
	}
	if opts.Day.IsZero() {
		opts.Day = time.Now()
	}
	return &RedisWriter{
		client: client,
		stream: opts.Stream,
		ttl:    opts.TTL,
		day:    opts.Day,
	}
}

// LeaderboardKey returns the key holding the ranked dataset for a day
func LeaderboardKey(day time.Time) string {
	return fmt.Sprintf("batters:leaders:%s", day.Format("2006-01-02"))
}

// AveragesKey returns the sorted set of player moving averages for a day
func AveragesKey(day time.Time) string {
	return fmt.Sprintf("batters:averages:%s", day.Format("2006-01-02"))
}

// Name identifies the writer in logs
func (w *RedisWriter) Name() string {
	return "redis"
}

// Publish stores the ranked players under the day's key and the latest key,
// indexes their averages in a sorted set and appends an entry to the stream
func (w *RedisWriter) Publish(ctx context.Context, players []*batter.Player) error {
	if players == nil {
		players = []*batter.Player{}
	}

	data, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("marshaling leaderboard: %w", err)
	}

	dayKey := LeaderboardKey(w.day)
	averagesKey := AveragesKey(w.day)

	pipe := w.client.TxPipeline()
	pipe.Set(ctx, dayKey, data, w.ttl)
	pipe.Set(ctx, latestKey, data, w.ttl)
	pipe.Del(ctx, averagesKey)
	if members := averageMembers(players); len(members) > 0 {
		pipe.ZAdd(ctx, averagesKey, members...)
		pipe.Expire(ctx, averagesKey, w.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing leaderboard: %w", err)
	}

	if err := w.client.XAdd(ctx, &redis.XAddArgs{
		Stream: w.stream,
		Values: streamValues(w.day, dayKey, players),
	}).Err(); err != nil {
		return fmt.Errorf("publishing leaderboard update: %w", err)
	}

	return nil
}

// ReadLatest returns the most recently published leaderboard.
// A missing key returns an empty slice.
func (w *RedisWriter) ReadLatest(ctx context.Context) ([]*batter.Player, error) {
	return w.read(ctx, latestKey)
}

// ReadLeaderboard returns the leaderboard published for day
func (w *RedisWriter) ReadLeaderboard(ctx context.Context, day time.Time) ([]*batter.Player, error) {
	return w.read(ctx, LeaderboardKey(day))
}

func (w *RedisWriter) read(ctx context.Context, key string) ([]*batter.Player, error) {
	data, err := w.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return []*batter.Player{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	var players []*batter.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("unmarshaling %s: %w", key, err)
	}
	return players, nil
}

func averageMembers(players []*batter.Player) []redis.Z {
	members := make([]redis.Z, 0, len(players))
	for _, p := range players {
		members = append(members, redis.Z{Score: p.MovingAverage(), Member: p.ID})
	}
	return members
}

func streamValues(day time.Time, key string, players []*batter.Player) map[string]interface{} {
	values := map[string]interface{}{
		"date":    day.Format("2006-01-02"),
		"key":     key,
		"players": len(players),
	}
	if len(players) > 0 {
		values["top_player"] = players[0].ID
		values["top_average"] = players[0].MovingAverage()
	}
	return values
}
