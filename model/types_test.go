package model

import (
	"encoding/json"
	"testing"
)

func TestFormatLimit(t *testing.T) {
	if got := FormatLimit(Unlimited); got != "∞" {
		t.Fatalf("expected ∞ for sentinel, got %q", got)
	}
	if got := FormatLimit(42); got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
	if got := FormatHours(Unlimited); got != "unlimited" {
		t.Fatalf("expected unlimited, got %q", got)
	}
	if got := FormatHours(24); got != "24h" {
		t.Fatalf("expected 24h, got %q", got)
	}
}

func TestUnlimitedSentinelRoundTrip(t *testing.T) {
	item := ShopItem{ItemID: 7, Name: "Booster", Price: 100, Stock: Unlimited, Category: "general"}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back ShopItem
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Stock != Unlimited {
		t.Fatalf("stock sentinel did not round-trip, got %d", back.Stock)
	}

	task := Task{TaskID: 1, Name: "Daily", Reward: 50, DurationHours: Unlimited, MaxClaims: Unlimited}
	data, err = json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	var backTask Task
	if err := json.Unmarshal(data, &backTask); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if backTask.DurationHours != Unlimited || backTask.MaxClaims != Unlimited {
		t.Fatalf("task sentinels did not round-trip: %+v", backTask)
	}
}

func TestGuildConfigLegacyWelcomeKey(t *testing.T) {
	var cfg GuildConfig
	if err := json.Unmarshal([]byte(`{"prefix":"!","welcome_channel":"123456789"}`), &cfg); err != nil {
		t.Fatalf("unmarshal legacy: %v", err)
	}
	if cfg.WelcomeChannelID.String() != "123456789" {
		t.Fatalf("legacy welcome_channel not honored: %v", cfg.WelcomeChannelID)
	}

	// Canonical key wins when both are present.
	cfg = GuildConfig{}
	if err := json.Unmarshal([]byte(`{"welcome_channel_id":"111","welcome_channel":"222"}`), &cfg); err != nil {
		t.Fatalf("unmarshal both: %v", err)
	}
	if cfg.WelcomeChannelID.String() != "111" {
		t.Fatalf("canonical key should win, got %v", cfg.WelcomeChannelID)
	}
}
