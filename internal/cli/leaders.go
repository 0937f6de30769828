package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
	"github.com/pfrederiksen/mlb-batters/internal/cache"
	"github.com/pfrederiksen/mlb-batters/internal/config"
	"github.com/pfrederiksen/mlb-batters/internal/filter"
	"github.com/pfrederiksen/mlb-batters/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type leadersOptions struct {
	format string
	limit  int
	sort   string
	source string
	date   string
	filter filter.Filter
}

func newLeadersCmd(v *viper.Viper, root *runOptions) *cobra.Command {
	opts := &leadersOptions{}

	cmd := &cobra.Command{
		Use:   "leaders",
		Short: "Print the ranked batters from the last run",
		Long: `Prints the batters written by the last run, best moving average first.
With --source redis the leaderboard cached in Redis is read instead of
batters.json; add --date to read the leaderboard published on that day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaders(cmd, v, opts, root.verbose)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Show at most N batters (0 for all)")
	cmd.Flags().StringVar(&opts.sort, "sort", string(SortByAverage), "Sort order: average, name or team")
	cmd.Flags().StringVar(&opts.source, "source", "file", "Read from: file or redis")
	cmd.Flags().StringVar(&opts.date, "date", "", "With --source redis, the day to read (YYYY-MM-DD, default latest)")
	cmd.Flags().StringSliceVar(&opts.filter.Teams, "team", nil, "Only these teams, by code or full name (repeatable, e.g. --team NYY --team \"Boston Red Sox\")")
	cmd.Flags().StringSliceVar(&opts.filter.Names, "name", nil, "Only players whose name contains this text (repeatable)")
	cmd.Flags().IntVar(&opts.filter.MinGames, "min-games", 0, "Only players with at least N recent games")
	cmd.Flags().Float64Var(&opts.filter.MinAverage, "min-average", 0, "Only players with at least this moving average")

	return cmd
}

func runLeaders(cmd *cobra.Command, v *viper.Viper, opts *leadersOptions, verbose bool) error {
	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(opts.sort)
	if err != nil {
		return err
	}
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	if err := opts.filter.Validate(); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	players, err := loadLeaders(cmd.Context(), cfg, opts.source, opts.date)
	if err != nil {
		return err
	}

	// Rank first so --limit keeps the leaders whatever the display order
	batter.Rank(players)
	players = opts.filter.Apply(players)
	if opts.limit > 0 && opts.limit < len(players) {
		players = players[:opts.limit]
	}
	sortPlayers(players, order)

	if format == FormatText && !opts.filter.IsEmpty() {
		fmt.Fprintf(cmd.OutOrStdout(), "Filters: %s\n\n", opts.filter.String())
	}
	if err := WriteLeaders(cmd.OutOrStdout(), players, format, verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func loadLeaders(ctx context.Context, cfg *config.Config, source, day string) ([]*batter.Player, error) {
	switch strings.ToLower(source) {
	case "file":
		if day != "" {
			return nil, fmt.Errorf("--date needs --source redis")
		}
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		return store.LoadBatters()

	case "redis":
		if cfg.Redis.URL == "" {
			return nil, fmt.Errorf("--source redis needs --redis-url or MLB_BATTERS_REDIS_URL")
		}
		if ctx == nil {
			ctx = context.Background()
		}
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		defer client.Close()

		w := cache.NewRedisWriter(client, cache.Options{Stream: cfg.Redis.Stream})
		if day == "" {
			return w.ReadLatest(ctx)
		}
		date, err := parseDate(day)
		if err != nil {
			return nil, err
		}
		return w.ReadLeaderboard(ctx, date)

	default:
		return nil, fmt.Errorf("invalid source: %s (must be 'file' or 'redis')", source)
	}
}
