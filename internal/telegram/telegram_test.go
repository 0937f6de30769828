package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

func testPlayers() []*batter.Player {
	nyy := batter.Team{Code: "NYY", Name: "New York Yankees"}
	judge := batter.NewPlayer("judgeaa01", "Aaron Judge", nyy)
	judge.AddGames([]batter.GameRecord{batter.NewGameRecord("2022-04-07", "vsBOS", 2, 4)})
	odd := batter.NewPlayer("oddpl01", "Tom <Script> & Co", nyy)
	return []*batter.Player{judge, odd}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		botToken string
		chatID   string
		wantErr  bool
	}{
		{"valid", "token", "123", false},
		{"missing token", "", "123", true},
		{"missing chat", "token", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.botToken, tt.chatID, 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && client.limit != DefaultLeaders {
				t.Errorf("limit = %d, want %d", client.limit, DefaultLeaders)
			}
		})
	}
}

func TestSendMessage_Success(t *testing.T) {
	var got sendMessageRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "result": {"message_id": 123}}`))
	}))
	defer server.Close()

	originalURL := apiBaseURL
	apiBaseURL = server.URL + "/bot"
	defer func() { apiBaseURL = originalURL }()

	client, err := NewClient("test-token", "12345", 5)
	if err != nil {
		t.Fatal(err)
	}

	if err := client.Publish(context.Background(), testPlayers()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if path != "/bottest-token/sendMessage" {
		t.Errorf("path = %q", path)
	}
	if got.ChatID != "12345" || got.ParseMode != "HTML" || !got.DisableWebPagePreview {
		t.Errorf("request = %+v", got)
	}
	if !strings.Contains(got.Text, "Aaron Judge") {
		t.Errorf("text = %q", got.Text)
	}
}

func TestSendMessage_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"bad status", http.StatusBadRequest, `{"ok": false, "description": "Bad Request: chat not found"}`, "status 400"},
		{"not ok", http.StatusOK, `{"ok": false, "description": "flood wait"}`, "flood wait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			originalURL := apiBaseURL
			apiBaseURL = server.URL + "/bot"
			defer func() { apiBaseURL = originalURL }()

			client, _ := NewClient("test-token", "12345", 5)
			err := client.SendMessage(context.Background(), "hello")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("SendMessage() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestSendMessage_Empty(t *testing.T) {
	client, _ := NewClient("test-token", "12345", 5)
	if err := client.SendMessage(context.Background(), ""); err == nil {
		t.Error("SendMessage(\"\") should fail")
	}
	// Nothing to announce, so no request is made
	if err := client.Publish(context.Background(), nil); err != nil {
		t.Errorf("Publish(nil) error = %v", err)
	}
}

func TestFormatLeaderboard(t *testing.T) {
	msg := FormatLeaderboard(testPlayers(), 5)

	for _, want := range []string{
		"<b>MLB Hot Hitters</b>",
		"1. <b>Aaron Judge</b> (NYY) 2.000 <i>2-for-4</i>",
		"2. <b>Tom &lt;Script&gt; &amp; Co</b> (NYY) 0.000\n",
		"#MLB",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	short := FormatLeaderboard(testPlayers(), 1)
	if strings.Contains(short, "Tom") || !strings.Contains(short, "and 1 more") {
		t.Errorf("limited message:\n%s", short)
	}
}
