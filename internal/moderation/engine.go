package moderation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/wardenbot/warden/internal/telegram"
)

const banUsage = "❌ How to use /ban:\n\n" +
	"1️⃣ Reply to a message from the user to ban\n" +
	"2️⃣ Type /ban [duration] [reason]\n\n" +
	"📝 Examples:\n" +
	"• /ban 1h spam\n" +
	"• /ban 7d breaking the rules\n" +
	"• /ban permanent trolling\n\n" +
	"⏱️ Accepted durations: 30m, 2h, 7d, permanent"

const (
	shortNoticeDelay = 5 * time.Second
	commandDelay     = 10 * time.Second
)

// banStatus is the outcome of the Execute step.
type banStatus int

const (
	statusBanned banStatus = iota
	statusPreventive
	statusFailed
)

// Engine runs the ban state machine: Validate, Execute, Report.
type Engine struct {
	api    API
	guard  *Guard
	loc    *time.Location
	logger *slog.Logger
}

// NewEngine creates a ban engine. Expiry timestamps are computed in loc,
// the group's reference timezone.
func NewEngine(api API, guard *Guard, loc *time.Location, logger *slog.Logger) *Engine {
	return &Engine{api: api, guard: guard, loc: loc, logger: logger}
}

// HandleBan processes a /ban command message. args are the tokens after
// the command itself. All outcomes are reported to the chat; errors never
// escape to the update loop.
func (e *Engine) HandleBan(msg *gotgbot.Message, args []string) {
	chat := msg.Chat
	actor := msg.From
	if actor == nil {
		return
	}

	// Validate.
	if chat.Type != "group" && chat.Type != "supergroup" {
		e.replyEphemeral(msg, "❌ This command can only be used in a group.", shortNoticeDelay)
		return
	}
	if !e.guard.IsAdmin(chat.Id, actor.Id) {
		e.logger.Warn("ban refused, actor not admin", "chat_id", chat.Id, "user_id", actor.Id)
		e.replyEphemeral(msg, "❌ You do not have administrator permissions.", shortNoticeDelay)
		e.deleteCommand(msg, shortNoticeDelay)
		return
	}
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		e.replyEphemeral(msg, banUsage, commandDelay)
		e.deleteCommand(msg, commandDelay)
		return
	}
	target := msg.ReplyToMessage.From
	if target.Id == actor.Id {
		e.replyEphemeral(msg, "❌ You cannot ban yourself.", shortNoticeDelay)
		e.deleteCommand(msg, shortNoticeDelay)
		return
	}
	if e.guard.IsAdmin(chat.Id, target.Id) {
		e.replyEphemeral(msg, "❌ You cannot ban another administrator.", shortNoticeDelay)
		e.deleteCommand(msg, shortNoticeDelay)
		return
	}

	durationToken := ""
	if len(args) > 0 {
		durationToken = args[0]
	}
	reason := "No reason given"
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	}

	duration, ok := ParseDuration(durationToken)
	if !ok {
		e.replyEphemeral(msg,
			"❌ Invalid duration format. Use 30m, 2h, 7d or 'permanent'.\n"+
				"Example: /ban 1h spam or /ban permanent breaking the rules",
			commandDelay)
		e.deleteCommand(msg, commandDelay)
		return
	}

	// Execute.
	var until time.Time
	if duration > 0 {
		until = time.Now().In(e.loc).Add(duration)
	}

	status, banErr := e.execute(chat.Id, target.Id, until)

	// Report. Confirmation and notice always go out, whatever Execute did.
	e.report(msg, target, status, duration, until, reason, banErr)
	e.deleteCommand(msg, commandDelay)
}

// execute issues the platform ban call. A target who already left the
// group is banned again without the expiry so they cannot rejoin; that
// counts as a preventive success rather than a failure.
func (e *Engine) execute(chatID, targetID int64, until time.Time) (banStatus, error) {
	var opts *gotgbot.BanChatMemberOpts
	if !until.IsZero() {
		opts = &gotgbot.BanChatMemberOpts{UntilDate: until.Unix()}
	}

	_, err := e.api.BanChatMember(chatID, targetID, opts)
	if err == nil {
		return statusBanned, nil
	}

	if telegram.IsNotParticipant(err) {
		e.logger.Warn("target already absent, issuing preventive ban",
			"chat_id", chatID,
			"target_id", targetID,
		)
		if _, retryErr := e.api.BanChatMember(chatID, targetID, nil); retryErr != nil {
			e.logger.Error("preventive ban failed", "chat_id", chatID, "error", retryErr)
		}
		return statusPreventive, err
	}

	e.logger.Error("ban failed", "chat_id", chatID, "target_id", targetID, "error", err)
	return statusFailed, err
}

func (e *Engine) report(msg *gotgbot.Message, target *gotgbot.User, status banStatus, duration time.Duration, until time.Time, reason string, banErr error) {
	actor := msg.From
	durationText := FormatDuration(duration)

	var confirmation string
	switch status {
	case statusBanned:
		confirmation = fmt.Sprintf(
			"🔨 User banned\n\n⏱️ Duration: %s\n📋 Reason: %s\n👮‍♂️ By: %s",
			durationText, reason, actor.FirstName)
	case statusPreventive:
		confirmation = fmt.Sprintf(
			"⚠️ Ban attempt\n\n📊 Status: user had already left the group\n⏱️ Intended duration: %s\n📋 Reason: %s\n👮‍♂️ By: %s\n\n💡 The user can no longer rejoin",
			durationText, reason, actor.FirstName)
	case statusFailed:
		confirmation = fmt.Sprintf(
			"❌ Ban failed\n\n👤 User: %s\n📋 Reason: %s\n👮‍♂️ By: %s\n\n⚠️ Error: %v",
			target.FirstName, reason, actor.FirstName, banErr)
	}

	if _, err := e.reply(msg, confirmation); err != nil {
		e.logger.Error("failed to send ban confirmation", "chat_id", msg.Chat.Id, "error", err)
	}

	if status == statusFailed {
		return
	}

	var notice string
	if status == statusBanned {
		notice = fmt.Sprintf(
			"🚫 You have been banned from the group %s\n\n⏱️ Duration: %s\n📋 Reason: %s\n\n",
			msg.Chat.Title, durationText, reason)
		if !until.IsZero() {
			notice += fmt.Sprintf("🕒 Ban ends: %s\n\n", until.Format("02/01/2006 at 15:04"))
		}
		notice += "ℹ️ If you believe this ban is unjustified, contact the administrators."
	} else {
		notice = fmt.Sprintf(
			"⚠️ Notice from the group %s\n\nAn administrator (%s) attempted to ban you.\n📋 Reason: %s\n\n💡 You were already no longer a member of the group.",
			msg.Chat.Title, actor.FirstName, reason)
	}

	if _, err := e.api.SendMessage(target.Id, notice, nil); err != nil {
		e.logger.Warn("could not notify banned user privately",
			"target_id", target.Id,
			"error", err,
		)
		if _, err := e.reply(msg, "⚠️ The user could not be notified privately (bot blocked or privacy settings)."); err != nil {
			e.logger.Error("failed to send private-notice caveat", "chat_id", msg.Chat.Id, "error", err)
		}
	}
}

func (e *Engine) reply(msg *gotgbot.Message, text string) (*gotgbot.Message, error) {
	return e.api.SendMessage(msg.Chat.Id, text, &gotgbot.SendMessageOpts{
		ReplyParameters: &gotgbot.ReplyParameters{MessageId: msg.MessageId},
	})
}

// replyEphemeral posts a reply that cleans itself up after the delay.
func (e *Engine) replyEphemeral(msg *gotgbot.Message, text string, delay time.Duration) {
	sent, err := e.reply(msg, text)
	if err != nil {
		e.logger.Error("failed to send reply", "chat_id", msg.Chat.Id, "error", err)
		return
	}
	telegram.DeleteAfter(e.api, e.logger, msg.Chat.Id, sent.MessageId, delay)
}

func (e *Engine) deleteCommand(msg *gotgbot.Message, delay time.Duration) {
	telegram.DeleteAfter(e.api, e.logger, msg.Chat.Id, msg.MessageId, delay)
}
