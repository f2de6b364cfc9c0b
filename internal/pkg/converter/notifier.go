package converter

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipstream-bet/converter/internal/pkg/models"
)

// Min interval between Telegram messages to the same chat to avoid
// 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// TelegramNotifier announces conversion outcomes to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier connects the bot and verifies the token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("verify telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// NotifyConversion sends a short summary of the finished task. Sends are
// rate limited and failures only logged; notifications never affect the
// conversion outcome.
func (n *TelegramNotifier) NotifyConversion(task models.ConversionTask, result models.ConversionResult) {
	n.mu.Lock()
	if wait := telegramSendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}
	n.lastSend = time.Now()
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(n.chatID, formatNotification(task, result))
	if _, err := n.bot.Send(msg); err != nil {
		slog.Warn("Failed to send telegram notification", "task_id", task.TaskID, "error", err)
	}
}

func formatNotification(task models.ConversionTask, result models.ConversionResult) string {
	route := fmt.Sprintf("%s → %s", task.SourceBookmaker, task.DestinationBookmaker)
	if !result.Success {
		return fmt.Sprintf("❌ Conversion failed (%s)\nCode: %s\nError: %s",
			route, task.BetslipCode, result.Error)
	}
	status := "✅ Conversion complete"
	if result.Partial {
		status = "⚠️ Partial conversion"
	}
	return fmt.Sprintf("%s (%s)\nCode: %s → %s\nSelections: %d/%d converted in %.0fms",
		status, route, task.BetslipCode, result.NewBetslipCode,
		result.ConvertedCount(), len(result.Selections), result.ProcessingMS)
}
