package dispatcher

import (
	"fmt"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/wardenbot/warden/internal/registry"
)

// handleInfo answers an informational topic command with a private copy
// of the catalog text.
func (d *Dispatcher) handleInfo(msg *gotgbot.Message) error {
	name, _ := commandToken(msg)
	desc, ok := d.registry.Resolve(name)
	if !ok {
		// Registered handlers only fire for known names; a miss here means
		// the registry and the handler wiring diverged.
		return fmt.Errorf("info command %q not in registry", name)
	}

	text, ok := d.catalog.Message(desc.MessageKey)
	if !ok {
		d.logger.Warn("catalog key missing", "command", name, "key", desc.MessageKey)
		text = "Information not available at the moment."
	}

	d.sendPrivate(msg.From, text, name, msg)
	d.deleteCommand(msg)
	return nil
}

// handleSavant answers a savant profile command privately.
func (d *Dispatcher) handleSavant(msg *gotgbot.Message) error {
	name, _ := commandToken(msg)
	desc, ok := d.registry.Resolve(name)
	if !ok || desc.Savant == nil {
		return fmt.Errorf("savant command %q not in registry", name)
	}

	d.sendPrivate(msg.From, registry.FormatSavant(desc.Savant), name, msg)
	d.deleteCommand(msg)
	return nil
}

func (d *Dispatcher) handleStart(msg *gotgbot.Message) error {
	user := msg.From

	greeting := fmt.Sprintf("Salam %s, thank you for activating the bot!", user.FirstName)
	d.sendPrivate(user, greeting, "start", msg)

	if usage, ok := d.catalog.Message("bot_usage"); ok {
		d.sendPrivate(user, usage, "start", msg)
	}

	d.logger.Info("user started the bot", "user_id", user.Id, "first_name", user.FirstName)
	d.deleteCommand(msg)
	return nil
}

func (d *Dispatcher) handleHelp(msg *gotgbot.Message) error {
	var b strings.Builder
	b.WriteString("📋 Available commands:\n\n")

	b.WriteString("ℹ️ General information:\n")
	b.WriteString(joinCommands(d.registry.InfoNames()))
	b.WriteString("\n\n👳‍♂️ Savants:\n")
	b.WriteString(joinCommands(d.registry.SavantNames()))
	b.WriteString("\n\n⚙️ Other commands:\n/help - Show this help\n/start - Activate the bot")

	d.sendPrivate(msg.From, b.String(), "help", msg)
	d.deleteCommand(msg)
	return nil
}

func joinCommands(names []string) string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = "/" + name
	}
	return strings.Join(out, ", ")
}

// handleGetID replies publicly with the chat's identifier, for operators
// configuring the broadcast destination.
func (d *Dispatcher) handleGetID(msg *gotgbot.Message) error {
	text := fmt.Sprintf("🆔 Chat ID: %d\n💬 Type: %s", msg.Chat.Id, msg.Chat.Type)
	_, err := d.api.SendMessage(msg.Chat.Id, text, &gotgbot.SendMessageOpts{
		ReplyParameters: &gotgbot.ReplyParameters{MessageId: msg.MessageId},
	})
	if err != nil {
		return fmt.Errorf("sending chat id: %w", err)
	}
	return nil
}

// handleReload swaps in a fresh catalog snapshot.
func (d *Dispatcher) handleReload(msg *gotgbot.Message) error {
	if err := d.catalog.Reload(); err != nil {
		d.logger.Error("catalog reload failed", "error", err)
		d.replyEphemeral(msg, "❌ Reload failed, keeping the previous messages.", commandLifetime)
		d.deleteCommand(msg)
		return nil
	}

	d.logger.Info("catalog reloaded")
	d.replyEphemeral(msg, "♻️ Messages reloaded.", commandLifetime)
	d.deleteCommand(msg)
	return nil
}

// handleBroadcast fires today's broadcast entries immediately. Restricted
// to group admins since it posts to the broadcast channel.
func (d *Dispatcher) handleBroadcast(msg *gotgbot.Message) error {
	if !d.guard.IsAdmin(msg.Chat.Id, msg.From.Id) {
		d.replyEphemeral(msg, "❌ You do not have administrator permissions.", commandLifetime)
		d.deleteCommand(msg)
		return nil
	}

	n := d.broadcaster.SendToday()
	d.replyEphemeral(msg, fmt.Sprintf("📢 Sent %d broadcast entries.", n), commandLifetime)
	d.deleteCommand(msg)
	return nil
}

func (d *Dispatcher) handleBan(msg *gotgbot.Message) error {
	_, args := commandToken(msg)
	d.engine.HandleBan(msg, args)
	return nil
}
