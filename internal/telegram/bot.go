// Package telegram wraps the gotgbot client: construction, long polling,
// and the shared helpers every handler uses to talk to the platform.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// API is the subset of *gotgbot.Bot the bot logic consumes. Handlers and
// background jobs depend on this interface so tests can substitute fakes.
type API interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
	DeleteMessage(chatId int64, messageId int64, opts *gotgbot.DeleteMessageOpts) (bool, error)
	SendMediaGroup(chatId int64, media []gotgbot.InputMedia, opts *gotgbot.SendMediaGroupOpts) ([]gotgbot.Message, error)
	BanChatMember(chatId int64, userId int64, opts *gotgbot.BanChatMemberOpts) (bool, error)
	GetChatMember(chatId int64, userId int64, opts *gotgbot.GetChatMemberOpts) (gotgbot.ChatMember, error)
}

// Bot wraps the Telegram client and its update loop.
type Bot struct {
	Raw     *gotgbot.Bot
	updater *ext.Updater
	logger  *slog.Logger
}

// New creates the Telegram client with an HTTP timeout suited to
// long-polling.
func New(token string, logger *slog.Logger) (*Bot, error) {
	httpClient := http.Client{
		Timeout: 60 * time.Second,
	}

	bot, err := gotgbot.NewBot(token, &gotgbot.BotOpts{
		BotClient: &gotgbot.BaseBotClient{
			Client: httpClient,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}

	return &Bot{
		Raw:    bot,
		logger: logger,
	}, nil
}

// Username returns the bot's own username, used for deep links.
func (b *Bot) Username() string {
	return b.Raw.Username
}

// Start begins polling for updates and blocks until the context is
// cancelled. The dispatcher carries all registered handlers.
func (b *Bot) Start(ctx context.Context, dispatcher *ext.Dispatcher) error {
	b.updater = ext.NewUpdater(dispatcher, nil)

	err := b.updater.StartPolling(b.Raw, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 30,
			AllowedUpdates: []string{
				"message",
				"chat_member",
				"my_chat_member",
			},
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 60 * time.Second,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("starting polling: %w", err)
	}

	b.logger.Info("telegram bot started", "username", b.Raw.Username)

	<-ctx.Done()

	b.updater.Stop()
	b.logger.Info("telegram bot stopped")

	return nil
}
