package notifier

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

// MaxTweetLength is the Twitter character limit
const MaxTweetLength = 280

// TwitterNotifier posts the daily leaderboard to Twitter
type TwitterNotifier struct {
	client *twitter.Client
	limit  int
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier(limit int) (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	if limit <= 0 {
		limit = DefaultLeaders
	}
	return &TwitterNotifier{client: twitter.NewClient(httpClient), limit: limit}, nil
}

// Name identifies the notifier
func (n *TwitterNotifier) Name() string {
	return "twitter"
}

// Publish posts one tweet listing the top players
func (n *TwitterNotifier) Publish(ctx context.Context, players []*batter.Player) error {
	if len(players) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tweet := formatTweet(players, n.limit)
	if _, _, err := n.client.Statuses.Update(tweet, nil); err != nil {
		return fmt.Errorf("failed to post leaderboard tweet: %w", err)
	}
	return nil
}

// formatTweet formats the top players as a tweet
func formatTweet(players []*batter.Player, limit int) string {
	var b strings.Builder
	b.WriteString("🔥 MLB Hot Hitters\n")
	b.WriteString("Average hits per game, recent games\n\n")

	for i, p := range leaders(players, limit) {
		fmt.Fprintf(&b, "%d. %s (%s) %.3f\n", i+1, p.Name, p.TeamCode, p.MovingAverage())
	}

	b.WriteString("\n#MLB #Baseball")
	tweet := b.String()

	// Twitter counts characters, not bytes
	if utf8.RuneCountInString(tweet) > MaxTweetLength {
		runes := []rune(tweet)
		tweet = string(runes[:MaxTweetLength-3]) + "..."
	}

	return tweet
}
