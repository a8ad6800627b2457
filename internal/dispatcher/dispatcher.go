// Package dispatcher routes inbound Telegram updates to their handlers:
// slash commands, membership changes, and photo albums. Replies to
// commands are delivered privately with a public fallback, and every
// command message is cleaned out of the group after a short delay.
package dispatcher

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"

	"github.com/wardenbot/warden/internal/album"
	"github.com/wardenbot/warden/internal/catalog"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/registry"
	"github.com/wardenbot/warden/internal/telegram"
)

const (
	commandLifetime  = 5 * time.Second
	fallbackLifetime = 10 * time.Second
	welcomeLifetime  = 10 * time.Second
)

// API is the platform surface the dispatcher consumes.
type API interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
	DeleteMessage(chatId int64, messageId int64, opts *gotgbot.DeleteMessageOpts) (bool, error)
}

// Broadcaster triggers an immediate broadcast run, for the manual test
// command.
type Broadcaster interface {
	SendToday() int
}

// Dispatcher owns the handler wiring and the shared delivery helpers.
type Dispatcher struct {
	api         API
	botUsername string
	registry    *registry.Registry
	catalog     *catalog.Store
	engine      *moderation.Engine
	guard       *moderation.Guard
	albums      *album.Aggregator
	broadcaster Broadcaster
	logger      *slog.Logger
}

// New creates a dispatcher. botUsername is used for deep-link buttons.
func New(api API, botUsername string, reg *registry.Registry, store *catalog.Store,
	engine *moderation.Engine, guard *moderation.Guard, albums *album.Aggregator,
	broadcaster Broadcaster, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		api:         api,
		botUsername: botUsername,
		registry:    reg,
		catalog:     store,
		engine:      engine,
		guard:       guard,
		albums:      albums,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Build assembles the gotgbot dispatcher with every handler registered.
// The unknown-command fallback lives in a later group so named command
// handlers always win.
func (d *Dispatcher) Build() *ext.Dispatcher {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			d.logger.Error("dispatcher error", "error", err)
			return ext.DispatcherActionNoop
		},
	})

	for _, name := range d.registry.InfoNames() {
		dispatcher.AddHandler(handlers.NewCommand(name, d.wrap(name, d.handleInfo)))
	}
	for _, name := range d.registry.SavantNames() {
		dispatcher.AddHandler(handlers.NewCommand(name, d.wrap(name, d.handleSavant)))
	}

	dispatcher.AddHandler(handlers.NewCommand("start", d.wrap("start", d.handleStart)))
	dispatcher.AddHandler(handlers.NewCommand("help", d.wrap("help", d.handleHelp)))
	dispatcher.AddHandler(handlers.NewCommand("getid", d.wrap("getid", d.handleGetID)))
	dispatcher.AddHandler(handlers.NewCommand("reload", d.wrap("reload", d.handleReload)))
	dispatcher.AddHandler(handlers.NewCommand("broadcast", d.wrap("broadcast", d.handleBroadcast)))
	dispatcher.AddHandler(handlers.NewCommand("ban", d.wrap("ban", d.handleBan)))

	dispatcher.AddHandler(handlers.NewChatMember(nil, d.handleChatMember))
	dispatcher.AddHandler(handlers.NewMessage(message.Photo, d.handlePhoto))

	// Catch-all for command-shaped messages nothing above claimed.
	dispatcher.AddHandlerToGroup(handlers.NewMessage(isCommand, d.handleUnknown), 1)

	return dispatcher
}

func isCommand(msg *gotgbot.Message) bool {
	return strings.HasPrefix(msg.Text, "/")
}

// commandToken returns the command name of a message, without the slash
// or the @bot qualifier, plus the remaining arguments.
func commandToken(msg *gotgbot.Message) (string, []string) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return "", nil
	}
	name := strings.TrimPrefix(fields[0], "/")
	name, _, _ = strings.Cut(name, "@")
	return name, fields[1:]
}

// wrap is the uniform top-of-handler guard: unexpected failures are
// logged with context and turned into a generic apology instead of
// escaping into the polling loop.
func (d *Dispatcher) wrap(name string, fn func(msg *gotgbot.Message) error) handlers.Response {
	return func(bot *gotgbot.Bot, ctx *ext.Context) error {
		msg := ctx.EffectiveMessage
		if msg == nil || msg.From == nil {
			return nil
		}

		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("handler panicked", "command", name, "panic", r)
				d.replyEphemeral(msg, "😕 Something went wrong, please try again.", commandLifetime)
			}
		}()

		if err := fn(msg); err != nil {
			d.logger.Error("handler failed", "command", name, "error", err)
			d.replyEphemeral(msg, "😕 Something went wrong, please try again.", commandLifetime)
		}
		return nil
	}
}

// sendPrivate delivers text to the user's private chat. When the user has
// not unlocked the bot the private send fails; the fallback is a public
// reply with a deep-link button, removed again after a delay.
func (d *Dispatcher) sendPrivate(user *gotgbot.User, text, cmdName string, replyTo *gotgbot.Message) bool {
	_, err := d.api.SendMessage(user.Id, text, nil)
	if err == nil {
		d.logger.Info("private reply sent", "command", cmdName, "user_id", user.Id)
		return true
	}
	d.logger.Warn("private delivery failed", "command", cmdName, "user_id", user.Id, "error", err)

	kb := telegram.ActivateKeyboard(d.botUsername, "📩 Activate the bot", "start")
	fallback, err := d.api.SendMessage(replyTo.Chat.Id,
		"❌ I could not message you privately. Activate the bot here 👇",
		&gotgbot.SendMessageOpts{
			ReplyMarkup:     kb,
			ReplyParameters: &gotgbot.ReplyParameters{MessageId: replyTo.MessageId},
		})
	if err != nil {
		d.logger.Error("failed to send public fallback", "command", cmdName, "error", err)
		return false
	}
	telegram.DeleteAfter(d.api, d.logger, fallback.Chat.Id, fallback.MessageId, fallbackLifetime)
	return false
}

// replyEphemeral posts a reply that deletes itself after the delay.
func (d *Dispatcher) replyEphemeral(msg *gotgbot.Message, text string, delay time.Duration) {
	sent, err := d.api.SendMessage(msg.Chat.Id, text, &gotgbot.SendMessageOpts{
		ReplyParameters: &gotgbot.ReplyParameters{MessageId: msg.MessageId},
	})
	if err != nil {
		d.logger.Error("failed to send reply", "chat_id", msg.Chat.Id, "error", err)
		return
	}
	telegram.DeleteAfter(d.api, d.logger, msg.Chat.Id, sent.MessageId, delay)
}

func (d *Dispatcher) deleteCommand(msg *gotgbot.Message) {
	telegram.DeleteAfter(d.api, d.logger, msg.Chat.Id, msg.MessageId, commandLifetime)
}

// handleUnknown answers command-shaped messages no named handler claimed.
func (d *Dispatcher) handleUnknown(bot *gotgbot.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	if msg == nil || msg.From == nil {
		return nil
	}
	d.unknownCommand(msg)
	return nil
}

// unknownCommand posts the not-found reply. Tokens that do resolve were
// already handled in an earlier group.
func (d *Dispatcher) unknownCommand(msg *gotgbot.Message) {
	name, _ := commandToken(msg)
	if _, known := d.registry.Resolve(name); known {
		return
	}

	d.logger.Warn("unknown command", "command", name, "user_id", msg.From.Id)

	reply := fmt.Sprintf("The command /%s does not exist. Use /help to see the available commands.", name)
	d.replyEphemeral(msg, reply, commandLifetime)
	d.deleteCommand(msg)
}

func (d *Dispatcher) handlePhoto(bot *gotgbot.Bot, ctx *ext.Context) error {
	d.albums.Add(ctx.EffectiveMessage)
	return nil
}
