// Package telegram posts the daily leaderboard to a Telegram chat through the
// Bot API.
//
// Authentication requires a bot token (from @BotFather) and chat ID, read from
// TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID.
package telegram
