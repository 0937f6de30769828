package cli

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/mlb-batters/internal/config"
	"github.com/pfrederiksen/mlb-batters/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history <player-id>",
		Short: "Print a player's recorded moving averages, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if cfg.History.DBPath == "" {
				return fmt.Errorf("history needs --history-db or MLB_BATTERS_HISTORY_DB_PATH")
			}

			store, err := history.Open(cfg.History.DBPath)
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			entries, err := store.Trend(ctx, args[0], limit)
			if err != nil {
				return err
			}

			return WriteHistory(cmd.OutOrStdout(), args[0], entries, outFormat)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&limit, "limit", 10, "Show at most N days (0 for all)")

	return cmd
}
