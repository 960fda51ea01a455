package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/buttonpoll/internal/poll"
)

// requestTimeout bounds the store and Telegram round trips of one update.
const requestTimeout = 15 * time.Second

type Bot struct {
	bot    *tele.Bot
	polls  *poll.Service
	names  *poll.NameCache
	logger *slog.Logger
	gate   handlerGate
}

func New(token string, polls *poll.Service, nameCacheSize int64, logger *slog.Logger) (*Bot, error) {
	if err := InitTemplates(); err != nil {
		return nil, err
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("update failed", "error", err)
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		bot:    b,
		polls:  polls,
		logger: logger,
	}
	bot.names, err = poll.NewNameCache(nameCacheSize, bot.fetchName)
	if err != nil {
		return nil, err
	}
	b.Use(bot.Track())
	return bot, nil
}

func (b *Bot) Start() {
	b.logger.Info("bot started", "username", b.bot.Me.Username)
	b.bot.Start()
}

// Stop stops polling and returns once running handlers have finished, so
// the poll store can be closed afterwards.
func (b *Bot) Stop() {
	b.gate.close()
	b.bot.Stop()
	b.gate.wait()
	b.names.Close()
}

// Ping checks that the Telegram API is reachable.
func (b *Bot) Ping(context.Context) error {
	if _, err := b.bot.Raw("getMe", nil); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

func (b *Bot) fetchName(_ context.Context, id int64) (string, error) {
	chat, err := b.bot.ChatByID(id)
	if err != nil {
		return "", err
	}
	if chat.Username != "" {
		return "@" + chat.Username, nil
	}
	return strings.TrimSpace(chat.FirstName + " " + chat.LastName), nil
}

// displayName picks how a voter is listed in results.
func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
