// Package album throttles photo-album flooding. Photos sharing a media
// group id are buffered until a quiet period passes, then the whole album
// is judged against the size limit at once.
package album

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/wardenbot/warden/internal/telegram"
)

// DefaultQuietPeriod is how long after the first photo an album is
// considered complete.
const DefaultQuietPeriod = 3 * time.Second

// DefaultLimit is the largest album size allowed through.
const DefaultLimit = 4

const warningLifetime = 10 * time.Second

// API is the platform surface the aggregator consumes.
type API interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
	DeleteMessage(chatId int64, messageId int64, opts *gotgbot.DeleteMessageOpts) (bool, error)
}

type pendingAlbum struct {
	messages []*gotgbot.Message
	sender   string
	timer    *time.Timer
}

// Aggregator buffers album photos per media group key. All map access is
// mutex-guarded: handlers run on separate goroutines and the append and
// the does-key-exist check must be one atomic step per key.
type Aggregator struct {
	api    API
	logger *slog.Logger

	quietPeriod time.Duration
	limit       int

	mu      sync.Mutex
	pending map[string]*pendingAlbum
}

// New creates an aggregator with the default quiet period and limit.
func New(api API, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		api:         api,
		logger:      logger,
		quietPeriod: DefaultQuietPeriod,
		limit:       DefaultLimit,
		pending:     make(map[string]*pendingAlbum),
	}
}

// Add records one photo message. The first photo of an unseen key starts
// the quiet-period timer; later photos only append, so there is at most
// one live timer per key.
func (a *Aggregator) Add(msg *gotgbot.Message) {
	if msg == nil || msg.MediaGroupId == "" {
		return
	}
	key := msg.MediaGroupId

	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.pending[key]
	if !ok {
		p = &pendingAlbum{}
		if msg.From != nil {
			p.sender = msg.From.FirstName
		}
		p.timer = time.AfterFunc(a.quietPeriod, func() {
			a.flush(key)
		})
		a.pending[key] = p
	}
	p.messages = append(p.messages, msg)
}

// flush judges a completed album and always removes its buffer and timer
// handle.
func (a *Aggregator) flush(key string) {
	a.mu.Lock()
	p, ok := a.pending[key]
	delete(a.pending, key)
	a.mu.Unlock()

	if !ok || len(p.messages) == 0 {
		return
	}

	if len(p.messages) <= a.limit {
		return
	}

	a.logger.Warn("album over the photo limit",
		"media_group_id", key,
		"count", len(p.messages),
		"sender", p.sender,
	)

	chatID := p.messages[0].Chat.Id
	for _, msg := range p.messages {
		if _, err := a.api.DeleteMessage(msg.Chat.Id, msg.MessageId, nil); err != nil {
			if telegram.IsMessageGone(err) {
				continue
			}
			a.logger.Warn("failed to delete album photo",
				"chat_id", msg.Chat.Id,
				"message_id", msg.MessageId,
				"error", err,
			)
		}
	}

	text := fmt.Sprintf("🚫 %s, you cannot send more than %d photos at once.", p.sender, a.limit)
	warning, err := a.api.SendMessage(chatID, text, nil)
	if err != nil {
		a.logger.Error("failed to send album warning", "chat_id", chatID, "error", err)
		return
	}
	telegram.DeleteAfter(a.api, a.logger, chatID, warning.MessageId, warningLifetime)
}
