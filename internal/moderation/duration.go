package moderation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// durationPattern matches ban durations like "30m", "2h", "7d". The "j"
// unit is accepted as a day synonym for French-speaking admins.
var durationPattern = regexp.MustCompile(`^(\d+)([mhdj])$`)

// ParseDuration parses a human-entered ban duration token.
// It returns (0, true) for a permanent ban ("", "permanent", "perm",
// "definitif"), (d, true) for a recognized timed ban, and (0, false) for
// anything else. Callers must treat ok=false as a user input error, not as
// a permanent ban.
func ParseDuration(token string) (time.Duration, bool) {
	lower := strings.ToLower(token)
	switch lower {
	case "", "permanent", "perm", "definitif":
		return 0, true
	}

	m := durationPattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Digits only per the pattern, so this is an overflow.
		return 0, false
	}

	switch m[2] {
	case "m":
		return time.Duration(n) * time.Minute, true
	case "h":
		return time.Duration(n) * time.Hour, true
	case "d", "j":
		return time.Duration(n) * 24 * time.Hour, true
	}
	return 0, false
}

// FormatDuration renders a ban duration as readable text. A zero duration
// means the ban is permanent.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "permanent"
	}

	total := int(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", days, plural("day", days)))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural("hour", hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, plural("minute", minutes)))
	}

	if len(parts) == 0 {
		return "under a minute"
	}
	return strings.Join(parts, " and ")
}

func plural(unit string, n int) string {
	if n > 1 {
		return unit + "s"
	}
	return unit
}
