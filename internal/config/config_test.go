package config

import (
	"testing"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "-1001234567890")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_FILE", "/tmp/warden.log")
	t.Setenv("TIMEZONE", "Europe/Paris")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.Token != "123:abc" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.ChatID != -1001234567890 {
		t.Errorf("ChatID = %d", cfg.ChatID)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.LogFile != "/tmp/warden.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if cfg.Timezone != "Europe/Paris" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"TOKEN", "CHAT_ID", "PORT", "DEBUG", "LOG_FILE", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.Timezone != "Africa/Cairo" {
		t.Errorf("Timezone = %q, want default Africa/Cairo", cfg.Timezone)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestFromEnvBadValues(t *testing.T) {
	t.Setenv("CHAT_ID", "not-a-number")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for invalid CHAT_ID")
	}

	t.Setenv("CHAT_ID", "")
	t.Setenv("DEBUG", "maybe")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for invalid DEBUG")
	}
}

func TestValidateBot(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"complete", Config{Token: "t", ChatID: -1}, false},
		{"missing token", Config{ChatID: -1}, true},
		{"missing chat id", Config{Token: "t"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.ValidateBot()
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateBot() error = %v, wantErr %t", err, tc.wantErr)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Config{Timezone: "Africa/Cairo"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "Africa/Cairo" {
		t.Errorf("Location = %v", loc)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}
