package bot

import (
	"context"
	"fmt"

	"buyee_bot/internal/model"
	"buyee_bot/internal/storage"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to the Buyee alert bot!

Register item keywords and get notified when new listings appear on
Yahoo! JAPAN Auction and Yahoo! Flea Market.

Quick start:
1. /register <name> — watch for an item
2. /alerts — show your alerts

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Alert management:
/register [-c currency] <name> — register a new alert
/unregister <name> — delete an alert
/alerts — list your alerts

The currency flag converts listing prices, e.g.
/register -c USD ポケモンカード
Prices stay in JPY when no currency is given.`)
}

func (b *Bot) handleRegister(ctx context.Context, chatID, userID int64, args string) {
	name, cur, err := ParseRegisterArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	if _, err := b.store.FindAlert(ctx, userID, name); err == nil {
		b.reply(chatID, fmt.Sprintf("Alert for %q already exists!", name))
		return
	}

	alert := &model.Alert{
		UserID:   userID,
		ChatID:   chatID,
		Name:     name,
		Currency: cur,
	}
	if err := b.store.CreateAlert(ctx, alert); err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to save alert: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("Registered alert for %q with currency %s!", name, cur))
}

func (b *Bot) handleUnregister(ctx context.Context, chatID, userID int64, args string) {
	name, err := ParseNameArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /unregister <name>")
		return
	}

	if _, err := b.store.FindAlert(ctx, userID, name); err != nil {
		if err == storage.ErrNotFound {
			b.reply(chatID, fmt.Sprintf("Alert for %q does not exist!", name))
		} else {
			b.reply(chatID, fmt.Sprintf("Error: %v", err))
		}
		return
	}

	if err := b.store.DeleteAlert(ctx, userID, name); err != nil {
		b.reply(chatID, fmt.Sprintf("Error deleting alert: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Unregistered alert for %q!", name))
}

func (b *Bot) handleAlerts(ctx context.Context, chatID, userID int64) {
	alerts, err := b.store.ListUserAlerts(ctx, userID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatAlertList(alerts))
}
