package moderation

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		token string
		want  time.Duration
		ok    bool
	}{
		// Timed bans
		{"1h", time.Hour, true},
		{"30m", 30 * time.Minute, true},
		{"7d", 7 * 24 * time.Hour, true},
		{"2j", 2 * 24 * time.Hour, true},
		{"1H", time.Hour, true},

		// Permanent bans
		{"", 0, true},
		{"permanent", 0, true},
		{"perm", 0, true},
		{"definitif", 0, true},
		{"PERMANENT", 0, true},

		// Invalid tokens, must be rejected rather than defaulted
		{"abc", 0, false},
		{"1x", 0, false},
		{"h1", 0, false},
		{"1.5h", 0, false},
		{"-1h", 0, false},
		{"1h30m", 0, false},
		{"1 h", 0, false},

		// Zero magnitude is accepted as-is (permissive by design of the
		// pattern, not rejected)
		{"0m", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseDuration(tt.token)
			if ok != tt.ok {
				t.Fatalf("ParseDuration(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseDurationInvalidDistinctFromPermanent(t *testing.T) {
	// "permanent" and "abc" both yield a zero duration; only the ok flag
	// tells them apart.
	_, okPerm := ParseDuration("permanent")
	_, okBad := ParseDuration("abc")

	if !okPerm {
		t.Error(`ParseDuration("permanent") ok = false, want true`)
	}
	if okBad {
		t.Error(`ParseDuration("abc") ok = true, want false`)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "permanent"},
		{time.Hour, "1 hour"},
		{30 * time.Minute, "30 minutes"},
		{7 * 24 * time.Hour, "7 days"},
		{25 * time.Hour, "1 day and 1 hour"},
		{24*time.Hour + 2*time.Hour + 5*time.Minute, "1 day and 2 hours and 5 minutes"},
		{30 * time.Second, "under a minute"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
