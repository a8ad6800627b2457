package scheduler

import "time"

const reminderHour = 12

var (
	fastingDays = map[time.Weekday]bool{
		time.Monday:   true,
		time.Thursday: true,
	}
	usageDays = map[time.Weekday]bool{
		time.Tuesday: true,
		time.Friday:  true,
		time.Sunday:  true,
	}
)

// reminderDue reports whether a reminder slot matches the current minute.
func reminderDue(now time.Time, days map[time.Weekday]bool, hour int) bool {
	return days[now.Weekday()] && now.Hour() == hour && now.Minute() == 0
}

// tickFastingReminder sends the French and Arabic fasting reminders at
// noon on Monday and Thursday.
func (s *Scheduler) tickFastingReminder(now time.Time) bool {
	if !reminderDue(now, fastingDays, reminderHour) {
		return false
	}

	for _, key := range []string{"fasting_fr", "fasting_ar"} {
		text, ok := s.catalog.Message(key)
		if !ok {
			s.logger.Warn("reminder message missing from catalog", "key", key)
			continue
		}
		if _, err := s.api.SendMessage(s.chatID, text, nil); err != nil {
			s.logger.Error("failed to send fasting reminder", "key", key, "error", err)
		}
	}

	s.logger.Info("fasting reminder sent", "weekday", now.Weekday().String())
	return true
}

// tickUsageReminder re-posts the bot usage message at noon on Tuesday,
// Friday and Sunday.
func (s *Scheduler) tickUsageReminder(now time.Time) bool {
	if !reminderDue(now, usageDays, reminderHour) {
		return false
	}

	text, ok := s.catalog.Message("bot_usage")
	if !ok {
		s.logger.Warn("reminder message missing from catalog", "key", "bot_usage")
		return true
	}
	if _, err := s.api.SendMessage(s.chatID, text, nil); err != nil {
		s.logger.Error("failed to send usage reminder", "error", err)
	}

	s.logger.Info("usage reminder sent", "weekday", now.Weekday().String())
	return true
}
