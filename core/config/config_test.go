package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:   "123:abc",
			AdminID: 100,
			RunMode: "longpoll",
		},
		Relay: RelayConfig{
			DestinationChatID: -100500,
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Relay.AllowListPath != "allowed_users.txt" {
		t.Fatalf("allowlist path default not applied: %q", cfg.Relay.AllowListPath)
	}
}

func TestNormalizeRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"token", func(c *Config) { c.Telegram.Token = "" }, "token"},
		{"admin", func(c *Config) { c.Telegram.AdminID = 0 }, "admin_id"},
		{"destination", func(c *Config) { c.Relay.DestinationChatID = 0 }, "destination_chat_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNormalizeGenres(t *testing.T) {
	cfg := validConfig()
	cfg.Relay.Genres = []string{"#Chill", " Latin "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Relay.Genres[0] != "Chill" || cfg.Relay.Genres[1] != "Latin" {
		t.Fatalf("genres not trimmed: %v", cfg.Relay.Genres)
	}

	cfg = validConfig()
	cfg.Relay.Genres = []string{"  "}
	if err := Normalize(cfg); err == nil {
		t.Fatal("empty genre label must be rejected")
	}
}

func TestNormalizeRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("polling alias not mapped, got %q", cfg.Telegram.RunMode)
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode without url/listen/port must fail")
	}
}
