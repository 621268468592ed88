package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const minimalConfig = `
telegram:
  token: "test-token"
gemini:
  api_key: "test-key"
sheets:
  spreadsheet_id: "test-sheet"
`

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logger.Level != "info" {
		t.Errorf("logger.level = %q, want %q", cfg.Logger.Level, "info")
	}
	if cfg.Server.Addr != ":10000" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, ":10000")
	}
	if cfg.Sheets.SheetName != "Tasks" {
		t.Errorf("sheets.sheet_name = %q, want %q", cfg.Sheets.SheetName, "Tasks")
	}
	if cfg.Reminder.Window != 15*time.Minute {
		t.Errorf("reminder.window = %v, want %v", cfg.Reminder.Window, 15*time.Minute)
	}
	if cfg.Reminder.AITimeout != 30*time.Second {
		t.Errorf("reminder.ai_timeout = %v, want %v", cfg.Reminder.AITimeout, 30*time.Second)
	}
	if cfg.Chat.HistoryLimit != 20 {
		t.Errorf("chat.history_limit = %d, want 20", cfg.Chat.HistoryLimit)
	}

	reminders, ok := cfg.Scheduler.Tasks["check_reminders"]
	if !ok {
		t.Fatal("scheduler.tasks should include check_reminders by default")
	}
	if !reminders.Enabled || reminders.Schedule != "*/5 * * * *" {
		t.Errorf("check_reminders = %+v, want enabled on */5 * * * *", reminders)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := writeConfigFile(t, minimalConfig+`
logger:
  level: "debug"
  json: true
reminder:
  window: "30m"
scheduler:
  tasks:
    check_reminders:
      enabled: true
      schedule: "*/1 * * * *"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Errorf("logger = %+v, want debug json output", cfg.Logger)
	}
	if cfg.Reminder.Window != 30*time.Minute {
		t.Errorf("reminder.window = %v, want %v", cfg.Reminder.Window, 30*time.Minute)
	}
	if got := cfg.Scheduler.Tasks["check_reminders"].Schedule; got != "*/1 * * * *" {
		t.Errorf("check_reminders schedule = %q, want %q", got, "*/1 * * * *")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)

	t.Setenv("BOT_LOGGER_LEVEL", "warn")
	t.Setenv("BOT_TELEGRAM_TOKEN", "env-token")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logger.Level != "warn" {
		t.Errorf("logger.level = %q, want %q", cfg.Logger.Level, "warn")
	}
	if cfg.Telegram.Token != "env-token" {
		t.Errorf("telegram.token = %q, want env override", cfg.Telegram.Token)
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "env-token")
	t.Setenv("BOT_GEMINI_API_KEY", "env-key")
	t.Setenv("BOT_SHEETS_SPREADSHEET_ID", "env-sheet")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Telegram.Token != "env-token" {
		t.Errorf("telegram.token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Server.Addr != ":10000" {
		t.Errorf("server.addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing telegram token",
			content: "gemini:\n  api_key: \"k\"\nsheets:\n  spreadsheet_id: \"s\"\n",
		},
		{
			name:    "invalid log level",
			content: minimalConfig + "logger:\n  level: \"verbose\"\n",
		},
		{
			name:    "reminder window too small",
			content: minimalConfig + "reminder:\n  window: \"10s\"\n",
		},
		{
			name:    "history limit out of range",
			content: minimalConfig + "chat:\n  history_limit: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig should have failed validation")
			}
		})
	}
}
