package telegram

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// Deleter is the single platform call DeleteAfter needs. Packages with
// narrower API interfaces still satisfy it.
type Deleter interface {
	DeleteMessage(chatId int64, messageId int64, opts *gotgbot.DeleteMessageOpts) (bool, error)
}

// DeleteAfter schedules a message for deletion once the delay elapses. The
// command channel stays readable for a moment before the cleanup runs.
// Deletion failures are logged, never surfaced: the message may already be
// gone.
func DeleteAfter(api Deleter, logger *slog.Logger, chatID, messageID int64, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if _, err := api.DeleteMessage(chatID, messageID, nil); err != nil {
			if IsMessageGone(err) {
				logger.Info("message already deleted", "chat_id", chatID, "message_id", messageID)
				return
			}
			logger.Warn("failed to delete message",
				"chat_id", chatID,
				"message_id", messageID,
				"error", err,
			)
		}
	})
}

// IsMessageGone reports whether a delete call failed because the message no
// longer exists.
func IsMessageGone(err error) bool {
	var tgErr *gotgbot.TelegramError
	if errors.As(err, &tgErr) {
		return strings.Contains(strings.ToLower(tgErr.Description), "message to delete not found")
	}
	return false
}

// IsNotParticipant reports whether a ban call was rejected because the
// target already left the group.
func IsNotParticipant(err error) bool {
	var tgErr *gotgbot.TelegramError
	if errors.As(err, &tgErr) {
		return strings.Contains(strings.ToLower(tgErr.Description), "user_not_participant")
	}
	return false
}

// ActivateKeyboard builds the single-button inline keyboard that deep-links
// a user into a private chat with the bot.
func ActivateKeyboard(botUsername, label, payload string) gotgbot.InlineKeyboardMarkup {
	return gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{
				{
					Text: label,
					Url:  "https://t.me/" + botUsername + "?start=" + payload,
				},
			},
		},
	}
}
