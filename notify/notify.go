// Copyright (c) 2025 BVK Chaitanya

// Package notify sends the optional run summary over Telegram. The
// notifier is a no-op unless both a bot token and a chat id are
// configured; a failed notification never fails the run.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
)

type Notifier struct {
	bot    *bot.Bot
	chatID int64
}

// New creates a notifier. Returns nil when token or chat id are
// missing, which callers treat as "notifications disabled".
func New(token string, chatID int64) (*Notifier, error) {
	if len(token) == 0 || chatID == 0 {
		return nil, nil
	}
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	return &Notifier{bot: b, chatID: chatID}, nil
}

// SendMessage delivers one timestamped message. Errors are logged and
// swallowed.
func (n *Notifier) SendMessage(ctx context.Context, at time.Time, text string) {
	if n == nil {
		return
	}
	msg := at.Format("2006-01-02 15:04:05 MST") + " " + text
	params := &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   msg,
	}
	if _, err := n.bot.SendMessage(ctx, params); err != nil {
		slog.Error("could not send notification (ignored)", "err", err)
	}
}
