// Package bot implements the Telegram command surface and the notification
// sink for new listings.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"buyee_bot/internal/model"
	"buyee_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram bot that handles alert commands and sends listing
// notifications.
type Bot struct {
	api   telegramAPI
	store storage.Storage
	log   *slog.Logger
}

// New creates a Bot with the given Telegram token and storage.
func New(token string, store storage.Storage, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:   api,
		store: store,
		log:   log,
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// SendListing dispatches one listing notification to the given chat.
// Failures are logged and swallowed; a failed notification is not retried.
func (b *Bot) SendListing(chatID int64, listing model.Listing) {
	var msg tgbotapi.Chattable
	if listing.Thumbnail != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(listing.Thumbnail))
		photo.Caption = FormatListing(listing)
		msg = photo
	} else {
		text := tgbotapi.NewMessage(chatID, FormatListing(listing))
		text.DisableWebPagePreview = true
		msg = text
	}

	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send listing", "chat_id", chatID, "url", listing.URL, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID
	userID := msg.From.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID, "user_id", userID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "register":
		b.handleRegister(ctx, chatID, userID, args)
	case "unregister":
		b.handleUnregister(ctx, chatID, userID, args)
	case "alerts":
		b.handleAlerts(ctx, chatID, userID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
