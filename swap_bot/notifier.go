package swap_bot

// Telegram-backed notifier: every controller notification becomes one
// plain message in the configured chat.

import (
	"fmt"

	log "vortex-swap/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(bot *tgbotapi.BotAPI, chatID string) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: parseChatID(chatID)}
}

func (n *TelegramNotifier) Success(message string) {
	n.send("✅ " + message)
}

func (n *TelegramNotifier) Error(message string) {
	n.send("❌ " + message)
}

func (n *TelegramNotifier) Info(message string) {
	n.send("ℹ️ " + message)
}

func (n *TelegramNotifier) send(text string) {
	if n.bot == nil || n.chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.LogWarn("Failed to send notification", zap.Error(err))
	}
}

func parseChatID(chatIDStr string) int64 {
	var chatID int64
	fmt.Sscanf(chatIDStr, "%d", &chatID)
	return chatID
}

func formatChatID(chatID int64) string {
	return fmt.Sprintf("%d", chatID)
}
