package scheduler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/wardenbot/warden/internal/catalog"
)

// cycleLength is the number of days in the broadcast rotation.
const cycleLength = 3

// firstSlotHour is the hour of the first broadcast slot; each further
// entry of the day is offset by one hour.
const firstSlotHour = 12

// entry is one promotional catalog entry, keyed e<N>.
type entry struct {
	num int
	key string
}

// cycleDay returns the 0-based position of now within the rotation,
// counted in whole days since the epoch.
func cycleDay(now, epoch time.Time) int {
	days := int(now.Sub(epoch) / (24 * time.Hour))
	return ((days % cycleLength) + cycleLength) % cycleLength
}

// entriesForDay selects the e<N> entries whose number falls on the given
// cycle day, sorted by number. Link entries (le<N>_*) and malformed keys
// are not entries and are skipped.
func entriesForDay(entries map[string]string, day int) []entry {
	var out []entry
	for key := range entries {
		rest, ok := strings.CutPrefix(key, "e")
		if !ok {
			continue
		}
		num, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if (num-1)%cycleLength == day {
			out = append(out, entry{num: num, key: key})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].num < out[j].num })
	return out
}

// parseLink splits a le<N>_* catalog value of the form "url | label".
func parseLink(value string) (url, label string, ok bool) {
	url, label, ok = strings.Cut(value, "|")
	if !ok {
		return "", "", false
	}
	url = strings.TrimSpace(url)
	label = strings.TrimSpace(label)
	if url == "" || label == "" {
		return "", "", false
	}
	return url, label, true
}

// tickBroadcast runs one poll of the broadcast cycle. Each of today's
// entries fires at its own hourly slot; the per-date guard is only set
// once the clock passes the day's last slot hour, whether or not every
// slot actually delivered.
func (s *Scheduler) tickBroadcast(now time.Time) bool {
	c := s.catalog.Current()
	todays := entriesForDay(c.Broadcast.Entries, cycleDay(now, s.epoch))
	if len(todays) == 0 {
		return false
	}

	dateKey := now.Format("2006-01-02")
	fired := false

	for i, en := range todays {
		if now.Hour() == firstSlotHour+i && now.Minute() == 0 && !s.sentToday(dateKey) {
			s.sendEntry(c, en)
			s.logger.Info("broadcast entry sent", "entry", en.key, "hour", firstSlotHour+i)
			fired = true
		}
	}

	if now.Hour() >= firstSlotHour+len(todays)-1 {
		s.markSent(dateKey)
	}
	return fired
}

// SendToday immediately sends every entry of the current cycle day,
// bypassing slot hours and the per-date guard. Used by the manual
// broadcast trigger command.
func (s *Scheduler) SendToday() int {
	c := s.catalog.Current()
	now := time.Now().In(s.loc)
	todays := entriesForDay(c.Broadcast.Entries, cycleDay(now, s.epoch))

	for _, en := range todays {
		s.sendEntry(c, en)
		s.logger.Info("broadcast entry sent manually", "entry", en.key)
	}
	return len(todays)
}

// sendEntry posts one promotional entry: the grouped images first when any
// exist, then the composed text with its link buttons.
func (s *Scheduler) sendEntry(c *catalog.Catalog, en entry) {
	if media := s.collectImages(en.num); len(media) > 0 {
		if _, err := s.api.SendMediaGroup(s.chatID, media, nil); err != nil {
			s.logger.Warn("failed to send broadcast images", "entry", en.key, "error", err)
		} else {
			s.logger.Info("broadcast images sent", "entry", en.key, "count", len(media))
		}
	}

	b := c.Broadcast
	text := fmt.Sprintf("%s\n%s\n%s\n\n%s\n\n%s\n%s\n%s",
		b.Separator, b.Prefix, b.Separator,
		b.Entries[en.key],
		b.Separator, b.Suffix, b.Separator)

	var opts gotgbot.SendMessageOpts
	opts.ParseMode = "Markdown"
	if buttons := s.linkButtons(b.Entries, en.num); len(buttons) > 0 {
		opts.ReplyMarkup = gotgbot.InlineKeyboardMarkup{InlineKeyboard: buttons}
	}

	if _, err := s.api.SendMessage(s.chatID, text, &opts); err != nil {
		s.logger.Error("failed to send broadcast entry", "entry", en.key, "error", err)
	}
}

// linkButtons builds one button row per le<N>_* companion entry. A value
// without the "url | label" shape is skipped and logged, never fatal.
func (s *Scheduler) linkButtons(entries map[string]string, num int) [][]gotgbot.InlineKeyboardButton {
	prefix := fmt.Sprintf("le%d_", num)

	var keys []string
	for key := range entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var rows [][]gotgbot.InlineKeyboardButton
	for _, key := range keys {
		url, label, ok := parseLink(entries[key])
		if !ok {
			s.logger.Warn("invalid link entry format", "key", key)
			continue
		}
		rows = append(rows, []gotgbot.InlineKeyboardButton{{Text: label, Url: url}})
	}
	return rows
}

// collectImages loads the local images whose filename carries the entry's
// numeric prefix. No matching files simply means no media group.
func (s *Scheduler) collectImages(num int) []gotgbot.InputMedia {
	files, err := os.ReadDir(s.imageDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read image directory", "dir", s.imageDir, "error", err)
		}
		return nil
	}

	prefix := fmt.Sprintf("e%d_", num)
	var media []gotgbot.InputMedia
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".png", ".jpg", ".jpeg":
		default:
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.imageDir, name))
		if err != nil {
			s.logger.Warn("failed to read broadcast image", "file", name, "error", err)
			continue
		}
		media = append(media, gotgbot.InputMediaPhoto{
			Media: gotgbot.InputFileByReader(name, bytes.NewReader(data)),
		})
	}
	return media
}
