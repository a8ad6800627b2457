package dispatcher

import (
	"fmt"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"github.com/wardenbot/warden/internal/telegram"
)

// memberStatuses are the chat-member statuses that count as being in the
// group.
var memberStatuses = map[string]bool{
	"member":        true,
	"administrator": true,
	"creator":       true,
}

// statusChange reports whether the update took the user into or out of
// the group.
func statusChange(update *gotgbot.ChatMemberUpdated) (wasMember, isMember bool) {
	wasMember = memberStatuses[update.OldChatMember.GetStatus()]
	isMember = memberStatuses[update.NewChatMember.GetStatus()]
	return wasMember, isMember
}

func (d *Dispatcher) handleChatMember(bot *gotgbot.Bot, ctx *ext.Context) error {
	if ctx.ChatMember == nil {
		return nil
	}
	d.welcome(ctx.ChatMember)
	return nil
}

// welcome greets users who just joined with a short-lived public message
// carrying the deep-link activation button.
func (d *Dispatcher) welcome(update *gotgbot.ChatMemberUpdated) {
	wasMember, isMember := statusChange(update)
	if wasMember || !isMember {
		return
	}

	user := update.NewChatMember.GetUser()
	d.logger.Info("new member joined",
		"chat_id", update.Chat.Id,
		"user_id", user.Id,
		"first_name", user.FirstName,
	)

	text := fmt.Sprintf(
		`Welcome <a href="tg://user?id=%d">%s</a>! To receive important info, activate the bot 👇`,
		user.Id, user.FirstName)
	kb := telegram.ActivateKeyboard(d.botUsername, "📩 Click here to activate the bot", "welcome")

	sent, err := d.api.SendMessage(update.Chat.Id, text, &gotgbot.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: kb,
	})
	if err != nil {
		d.logger.Error("failed to send welcome message", "chat_id", update.Chat.Id, "error", err)
		return
	}

	telegram.DeleteAfter(d.api, d.logger, update.Chat.Id, sent.MessageId, welcomeLifetime)
}
