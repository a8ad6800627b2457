// Package scheduler runs the recurring jobs: the Monday/Thursday fasting
// reminder, the commands-usage reminder, and the 3-day broadcast cycle.
// Each job polls the wall clock once a minute in the group's reference
// timezone instead of arming precise timers, and keeps running whatever a
// delivery attempt does.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/wardenbot/warden/internal/catalog"
)

const pollInterval = 60 * time.Second

// API is the platform surface the scheduler consumes.
type API interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
	SendMediaGroup(chatId int64, media []gotgbot.InputMedia, opts *gotgbot.SendMediaGroupOpts) ([]gotgbot.Message, error)
}

// Scheduler owns the broadcast de-duplication state and the clock loops.
type Scheduler struct {
	api      API
	catalog  *catalog.Store
	chatID   int64
	loc      *time.Location
	epoch    time.Time
	imageDir string
	logger   *slog.Logger

	mu       sync.Mutex
	sentDays map[string]bool
}

// New creates a scheduler broadcasting to chatID. The 3-day cycle is
// anchored at June 20th 2025 in loc.
func New(api API, store *catalog.Store, chatID int64, loc *time.Location, imageDir string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		api:      api,
		catalog:  store,
		chatID:   chatID,
		loc:      loc,
		epoch:    time.Date(2025, time.June, 20, 0, 0, 0, 0, loc),
		imageDir: imageDir,
		logger:   logger,
		sentDays: make(map[string]bool),
	}
}

// Run starts the three job loops. It returns immediately; the loops stop
// when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	go s.loop(ctx, "fasting_reminder", s.tickFastingReminder)
	go s.loop(ctx, "usage_reminder", s.tickUsageReminder)
	go s.loop(ctx, "broadcast_cycle", s.tickBroadcast)
	s.logger.Info("scheduler started", "chat_id", s.chatID, "timezone", s.loc.String())
}

// loop polls once a minute. After a job fires, the next poll waits a bit
// over a minute so a slot never fires twice within the same minute.
func (s *Scheduler) loop(ctx context.Context, name string, tick func(now time.Time) bool) {
	for {
		fired := tick(time.Now().In(s.loc))

		delay := pollInterval
		if fired {
			delay = pollInterval + time.Second
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler loop stopped", "job", name)
			return
		case <-time.After(delay):
		}
	}
}

func (s *Scheduler) sentToday(dateKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentDays[dateKey]
}

// markSent records that dateKey's broadcast slots are spent. Older keys
// are pruned so the set never grows past the current day.
func (s *Scheduler) markSent(dateKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.sentDays {
		if k != dateKey {
			delete(s.sentDays, k)
		}
	}
	s.sentDays[dateKey] = true
}
