package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/sidequest/internal/config"
	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/testsupport"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	testsupport.SetupTestHome(t)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.TickInterval() != config.DefaultTick {
		t.Errorf("expected default tick, got %s", cfg.TickInterval())
	}
	if cfg.FlushInterval() != config.DefaultFlushInterval {
		t.Errorf("expected default flush interval, got %s", cfg.FlushInterval())
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("expected local time zone, got %v, %v", loc, err)
	}
}

func TestLoad_Full(t *testing.T) {
	home := testsupport.SetupTestHome(t)

	writeFile(t, filepath.Join(home, ".config", "sidequest", "config.toml"), `
[engine]
timezone = "Europe/Berlin"
time-slots = ["Dawn", "Noon", "Dusk"]

[backup]
retention-days = 14

[watch]
tick = "30s"
flush-interval = "10m"
metrics-addr = "127.0.0.1:9464"

[telegram]
token = "123:abc"
chat-id = 42
`)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Engine.TimeSlots) != 3 || cfg.Engine.TimeSlots[2] != "Dusk" {
		t.Errorf("TimeSlots = %v", cfg.Engine.TimeSlots)
	}
	if cfg.Backup.RetentionDays != 14 {
		t.Errorf("RetentionDays = %d, expected 14", cfg.Backup.RetentionDays)
	}
	if cfg.TickInterval() != 30*time.Second || cfg.FlushInterval() != 10*time.Minute {
		t.Errorf("unexpected intervals %s/%s", cfg.TickInterval(), cfg.FlushInterval())
	}
	if cfg.Telegram.ChatID != 42 {
		t.Errorf("ChatID = %d, expected 42", cfg.Telegram.ChatID)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Errorf("Location = %v, %v", loc, err)
	}
}

func TestLoad_OverrideWinsFieldByField(t *testing.T) {
	home := testsupport.SetupTestHome(t)

	writeFile(t, filepath.Join(home, ".config", "sidequest", "config.toml"), `
[engine]
energy-tags = ["Hot", "Cold"]

[backup]
retention-days = 14
`)
	override := filepath.Join(t.TempDir(), "override.toml")
	writeFile(t, override, `
[backup]
retention-days = 3

[watch]
quiet = true
`)

	cfg, err := config.Load(override)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Backup.RetentionDays != 3 {
		t.Errorf("expected override retention 3, got %d", cfg.Backup.RetentionDays)
	}
	if len(cfg.Engine.EnergyTags) != 2 {
		t.Errorf("expected global energy tags to survive, got %v", cfg.Engine.EnergyTags)
	}
	if !cfg.Watch.Quiet {
		t.Error("expected quiet from override")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad toml", content: "[engine\n"},
		{name: "bad timezone", content: "[engine]\ntimezone = \"Mars/Olympus\"\n"},
		{name: "negative retention", content: "[backup]\nretention-days = -1\n"},
		{name: "tiny tick", content: "[watch]\ntick = \"10ms\"\n"},
		{name: "token without chat", content: "[telegram]\ntoken = \"123:abc\"\n"},
		{name: "empty time slot", content: "[engine]\ntime-slots = [\"Dawn\", \"\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := testsupport.SetupTestHome(t)
			writeFile(t, filepath.Join(home, ".config", "sidequest", "config.toml"), tt.content)

			_, err := config.Load("")
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
