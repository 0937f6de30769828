package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

// DryRunNotifier prints the leaderboard and the tweet that would be posted
// instead of publishing anywhere
type DryRunNotifier struct {
	out   io.Writer
	limit int
}

// NewDryRunNotifier creates a dry-run notifier writing to out (stdout if nil)
func NewDryRunNotifier(out io.Writer, limit int) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	if limit <= 0 {
		limit = DefaultLeaders
	}
	return &DryRunNotifier{out: out, limit: limit}
}

// Name identifies the notifier
func (n *DryRunNotifier) Name() string {
	return "dry-run"
}

// Publish prints the top players and the tweet text
func (n *DryRunNotifier) Publish(ctx context.Context, players []*batter.Player) error {
	top := leaders(players, n.limit)

	fmt.Fprintf(n.out, "--- Leaderboard (%d of %d players) ---\n", len(top), len(players))
	for i, p := range top {
		fmt.Fprintf(n.out, "%2d. %-24s %-4s %.3f\n", i+1, p.Name, p.TeamCode, p.MovingAverage())
	}

	tweet := formatTweet(players, n.limit)
	fmt.Fprintln(n.out, "\n--- Tweet ---")
	fmt.Fprintln(n.out, tweet)
	fmt.Fprintf(n.out, "\n(Length: %d characters)\n", utf8.RuneCountInString(tweet))
	return nil
}
