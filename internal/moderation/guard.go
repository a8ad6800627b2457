// Package moderation validates and executes ban requests: duration
// parsing, admin permission checks, and the ban state machine with its
// confirmation and notice messages.
package moderation

import (
	"log/slog"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// API is the platform surface the moderation package consumes.
type API interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
	DeleteMessage(chatId int64, messageId int64, opts *gotgbot.DeleteMessageOpts) (bool, error)
	BanChatMember(chatId int64, userId int64, opts *gotgbot.BanChatMemberOpts) (bool, error)
	GetChatMember(chatId int64, userId int64, opts *gotgbot.GetChatMemberOpts) (gotgbot.ChatMember, error)
}

// Guard answers whether an actor may perform moderation actions in a
// group.
type Guard struct {
	api    API
	logger *slog.Logger
}

// NewGuard creates an admin guard backed by the platform.
func NewGuard(api API, logger *slog.Logger) *Guard {
	return &Guard{api: api, logger: logger}
}

// IsAdmin reports whether the user is an administrator or the owner of the
// chat. Any platform failure counts as not-admin: permission checks fail
// closed.
func (g *Guard) IsAdmin(chatID, userID int64) bool {
	member, err := g.api.GetChatMember(chatID, userID, nil)
	if err != nil {
		g.logger.Warn("admin check failed",
			"chat_id", chatID,
			"user_id", userID,
			"error", err,
		)
		return false
	}

	switch member.GetStatus() {
	case "administrator", "creator":
		return true
	}
	return false
}
