package telegram

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/sling"
	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

const timeout = 10 * time.Second

// apiBaseURL is a var so tests can point it at httptest
var apiBaseURL = "https://api.telegram.org/bot"

// Client represents a Telegram Bot API client
type Client struct {
	botToken   string
	chatID     string
	limit      int
	httpClient *http.Client
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewClient creates a new Telegram client listing at most limit players
func NewClient(botToken, chatID string, limit int) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}
	if limit <= 0 {
		limit = DefaultLeaders
	}

	return &Client{
		botToken: botToken,
		chatID:   chatID,
		limit:    limit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// NewClientFromEnv creates a client from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID
func NewClientFromEnv(limit int) (*Client, error) {
	return NewClient(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"), limit)
}

// Name identifies the client in logs
func (c *Client) Name() string {
	return "telegram"
}

// Publish sends the leaderboard to the configured chat
func (c *Client) Publish(ctx context.Context, players []*batter.Player) error {
	if len(players) == 0 {
		return nil
	}
	return c.SendMessage(ctx, FormatLeaderboard(players, c.limit))
}

// SendMessage sends an HTML text message to the configured chat
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	s := sling.New().Client(c.httpClient).
		Post(fmt.Sprintf("%s%s/sendMessage", apiBaseURL, c.botToken)).
		BodyJSON(sendMessageRequest{
			ChatID:                c.chatID,
			Text:                  text,
			ParseMode:             "HTML",
			DisableWebPagePreview: true,
		})

	req, err := s.Request()
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	var result, failure apiResponse
	resp, err := s.Do(req.WithContext(ctx), &result, &failure)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, failure.Description)
	}

	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}
