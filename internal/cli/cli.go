package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/mlb-batters/internal/cache"
	"github.com/pfrederiksen/mlb-batters/internal/cms"
	"github.com/pfrederiksen/mlb-batters/internal/config"
	"github.com/pfrederiksen/mlb-batters/internal/history"
	"github.com/pfrederiksen/mlb-batters/internal/logger"
	"github.com/pfrederiksen/mlb-batters/internal/notifier"
	"github.com/pfrederiksen/mlb-batters/internal/pipeline"
	"github.com/pfrederiksen/mlb-batters/internal/scraper"
	"github.com/pfrederiksen/mlb-batters/internal/storage"
	"github.com/pfrederiksen/mlb-batters/internal/telegram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const dateLayout = "2006-01-02"

// runOptions are the root command flags that are not config keys
type runOptions struct {
	credentials string
	date        string
	dryRun      bool
	tweet       bool
	telegram    bool
	verbose     bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := config.New()
	opts := &runOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "mlb-batters",
		Short: "Rank today's hottest MLB hitters and publish them",
		Long: `Scrapes today's MLB schedule, the top batters of every team playing and
their most recent games, ranks players by hits per game and publishes the
result to batters.json and the CMS.

Every setting can also be supplied as an MLB_BATTERS_* environment variable,
e.g. MLB_BATTERS_SCRAPE_GAMES=5 or MLB_BATTERS_CMS_AUTH_TOKEN=...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, v, opts)
		},
	}

	// Shared with subcommands
	pf := cmd.PersistentFlags()
	pf.String("data-dir", defaults.DataDir, "Directory holding teams_directory.json and batters.json")
	pf.String("log-dir", defaults.LogDir, "Directory for failure reports")
	pf.String("redis-url", "", "Redis URL for the leaderboard cache (e.g. redis://localhost:6379/0)")
	pf.String("history-db", "", "SQLite file recording every published leaderboard")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	f := cmd.Flags()
	f.StringVar(&opts.credentials, "credentials", "credentials.json", "CMS credentials file")
	f.Int("batters-per-team", defaults.Scrape.BattersPerTeam, "Top batters taken from each team")
	f.Int("games", defaults.Scrape.GamesPerPlayer, "Recent games per player")
	f.Int("season", defaults.Scrape.Season, "Stats season (default current year)")
	f.StringVar(&opts.date, "date", "", "Schedule date YYYY-MM-DD (default today)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print the leaderboard instead of publishing")
	f.BoolVar(&opts.tweet, "tweet", false, "Tweet the leaderboard (TWITTER_* credentials required)")
	f.BoolVar(&opts.telegram, "telegram", false, "Send the leaderboard to Telegram (TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID required)")

	bindFlags(v, cmd, map[string]string{
		"data_dir":                "data-dir",
		"log_dir":                 "log-dir",
		"redis.url":               "redis-url",
		"history.db_path":         "history-db",
		"scrape.batters_per_team": "batters-per-team",
		"scrape.games":            "games",
		"scrape.season":           "season",
	})

	cmd.AddCommand(newLeadersCmd(v, opts))
	cmd.AddCommand(newHistoryCmd(v))
	cmd.AddCommand(newSealCmd())

	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if flag == nil {
			panic(fmt.Sprintf("flag %q is not defined", name))
		}
		_ = v.BindPFlag(key, flag)
	}
}

// newLogger returns a JSON logger at the configured level, or DEBUG when
// verbose
func newLogger(cfg *config.Config, verbose bool, out io.Writer) *logger.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logger.LevelDebug
	}
	return logger.New(level, out)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", s, err)
	}
	return date, nil
}

// runPipeline is the main command logic. Any error or panic writes a failure
// report to the log directory before it is returned.
func runPipeline(cmd *cobra.Command, v *viper.Viper, opts *runOptions) (err error) {
	runID := uuid.NewString()
	started := time.Now()

	cfg, err := config.Load(v)
	if err != nil {
		// The report still goes to the requested log directory
		logDir := v.GetString("log_dir")
		if logDir == "" {
			logDir = config.Default().LogDir
		}
		_, _ = logger.WriteFailureReport(logDir, started, runID, err, nil)
		return err
	}

	log := newLogger(cfg, opts.verbose, cmd.ErrOrStderr()).With(logger.Fields{"run_id": runID})
	logger.SetDefault(log)

	defer func() {
		var stack []byte
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			stack = debug.Stack()
		}
		if err == nil {
			return
		}
		path, reportErr := logger.WriteFailureReport(cfg.LogDir, started, runID, err, stack)
		if reportErr != nil {
			log.Error("Writing failure report failed", nil, reportErr)
		}
		log.Error("Run failed", logger.Fields{"report": path}, err)
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	date, err := parseDate(opts.date)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	sc := scraper.New(
		scraper.WithSeason(cfg.ResolvedSeason(date)),
		scraper.WithSettleDelay(cfg.Scrape.SettleDelay()),
	)

	publishers, cleanup, err := buildPublishers(ctx, cmd, cfg, opts, runID, date)
	defer cleanup()
	if err != nil {
		return err
	}

	log.Info("Starting run", logger.Fields{
		"date":             date.Format(dateLayout),
		"season":           sc.Season(),
		"data_dir":         store.Dir(),
		"batters_per_team": cfg.Scrape.BattersPerTeam,
		"games":            cfg.Scrape.GamesPerPlayer,
		"dry_run":          opts.dryRun,
	})

	p := pipeline.New(sc, store, pipeline.Config{
		BattersPerTeam: cfg.Scrape.BattersPerTeam,
		GamesPerPlayer: cfg.Scrape.GamesPerPlayer,
		Date:           date,
	},
		pipeline.WithPublishers(publishers...),
		pipeline.WithLogger(log),
	)

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if !result.HasGames {
		return nil
	}

	fields := logger.Fields{
		"players":   len(result.Players),
		"teams":     len(result.Rosters),
		"warnings":  result.Warnings,
		"published": result.Published,
		"duration":  result.Duration.String(),
		"metrics":   logger.GetMetricsSnapshot(),
	}
	if len(result.Players) > 0 {
		fields["leader"] = result.Players[0].Name
		fields["leader_average"] = result.Players[0].MovingAverage()
	}
	log.Info("Run complete", fields)

	return nil
}

// buildPublishers returns the publishers for this run, CMS first. cleanup
// releases every client that was opened and is safe to call on error.
func buildPublishers(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *runOptions, runID string, date time.Time) ([]notifier.Publisher, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if opts.dryRun {
		return []notifier.Publisher{notifier.NewDryRunNotifier(cmd.OutOrStdout(), 0)}, cleanup, nil
	}

	creds, err := config.LoadCredentials(opts.credentials)
	if err != nil {
		return nil, cleanup, err
	}

	publishers := []notifier.Publisher{
		cms.New(cms.Config{
			Endpoint:        creds.Endpoint,
			AuthToken:       creds.CMSAuthToken,
			RevalidateURL:   cfg.CMS.RevalidateURL,
			RevalidateToken: creds.RevalidateToken,
			DocumentID:      cfg.CMS.DocumentID,
		}),
	}

	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = client.Close() })
		publishers = append(publishers, cache.NewRedisWriter(client, cache.Options{
			Stream: cfg.Redis.Stream,
			TTL:    cfg.Redis.LeaderboardTTL(),
			Day:    date,
		}))
	}

	if cfg.History.DBPath != "" {
		hist, err := history.Open(cfg.History.DBPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("opening history: %w", err)
		}
		closers = append(closers, func() { _ = hist.Close() })
		publishers = append(publishers, hist.Recorder(runID, date))
	}

	if opts.tweet {
		tw, err := notifier.NewTwitterNotifier(notifier.DefaultLeaders)
		if err != nil {
			return nil, cleanup, err
		}
		publishers = append(publishers, tw)
	}

	if opts.telegram {
		tg, err := telegram.NewClientFromEnv(telegram.DefaultLeaders)
		if err != nil {
			return nil, cleanup, fmt.Errorf("telegram: %w", err)
		}
		publishers = append(publishers, tg)
	}

	return publishers, cleanup, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
