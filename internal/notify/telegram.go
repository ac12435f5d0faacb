// Package notify sends deal status updates to buyers through Telegram.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/twa-market/marketplace-go-app/internal/models"
)

// Notifier is told about every successful deal transition
type Notifier interface {
	DealStatusChanged(d *models.Deal)
}

// Noop is the disabled notifier
type Noop struct{}

// DealStatusChanged does nothing
func (Noop) DealStatusChanged(d *models.Deal) {}

// Telegram notifies the buyer's chat when their deal changes status. Buyers
// without a Telegram id are skipped.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram authorizes the bot with the given token
func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	log.Printf("Telegram notifier authorized as @%s", bot.Self.UserName)
	return &Telegram{bot: bot}, nil
}

var statusLines = map[models.DealStatus]string{
	models.StatusConfirmed: "✅ Your order %s has been confirmed by the seller.",
	models.StatusShipped:   "📦 Your order %s has been shipped.",
	models.StatusDelivered: "🎉 Your order %s has been delivered.",
	models.StatusCancelled: "❌ Your order %s has been cancelled.",
}

// DealStatusChanged sends a one-line status message to the buyer
func (t *Telegram) DealStatusChanged(d *models.Deal) {
	if d.Buyer.TelegramID == 0 {
		return
	}
	line, ok := statusLines[d.Status]
	if !ok {
		return
	}

	text := fmt.Sprintf(line, d.Product.Title)
	if d.Status == models.StatusShipped && d.TrackingNumber != "" {
		text += fmt.Sprintf(" Tracking number: %s", d.TrackingNumber)
	}
	if d.Status == models.StatusCancelled && d.CancelReason != "" {
		text += fmt.Sprintf(" Reason: %s", d.CancelReason)
	}

	msg := tgbotapi.NewMessage(d.Buyer.TelegramID, text)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[NOTIFY] Failed to message buyer %s: %v", d.Buyer.ID, err)
	}
}
