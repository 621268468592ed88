// Package config provides configuration loading, validation, and management
// for the TaskGuru application. It handles reading from YAML files,
// environment variable overrides, default values, and validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components
// of the TaskGuru system: logging, HTTP server, Telegram integration, the
// Gemini AI client, the Google Sheets task store, the local session database,
// the reminder loop, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds HTTP server settings for the API and the on-demand
// reminder trigger.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"            validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// GeminiConfig holds settings for the Gemini AI client.
type GeminiConfig struct {
	APIKey                string  `mapstructure:"api_key" validate:"required"`
	ModelName             string  `mapstructure:"model_name" validate:"required"`
	Temperature           float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	ChatInstruction       string  `mapstructure:"chat_instruction"`
	MotivationInstruction string  `mapstructure:"motivation_instruction"`
}

// SheetsConfig holds settings for the Google Sheets task store.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"   validate:"required"`
	SheetName       string `mapstructure:"sheet_name"       validate:"required"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// DatabaseConfig holds settings for the local SQLite session database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ReminderConfig controls the reminder dispatch loop.
type ReminderConfig struct {
	Window      time.Duration `mapstructure:"window"       validate:"min=1m,max=24h"`
	AITimeout   time.Duration `mapstructure:"ai_timeout"   validate:"min=1s,max=5m"`
	SendTimeout time.Duration `mapstructure:"send_timeout" validate:"min=1s,max=1m"`
}

// ChatConfig controls the conversational chat loop and its session store.
type ChatConfig struct {
	HistoryLimit int           `mapstructure:"history_limit" validate:"min=1,max=200"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"   validate:"min=1h"`
}

// TaskConfig defines whether a scheduled task is enabled and its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// LoadConfig reads configuration in order of precedence: defaults, the YAML
// file at configPath (optional), then BOT_* environment variables. The merged
// configuration is validated before being returned.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and env vars still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("server.addr", ":10000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Secrets default to empty so that BOT_* env overrides bind even
	// without a config file; validation rejects them when still unset.
	v.SetDefault("telegram.token", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.credentials_file", "")

	v.SetDefault("gemini.model_name", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 1.0)

	v.SetDefault("sheets.sheet_name", "Tasks")

	v.SetDefault("database.path", "taskguru.db")

	v.SetDefault("reminder.window", 15*time.Minute)
	v.SetDefault("reminder.ai_timeout", 30*time.Second)
	v.SetDefault("reminder.send_timeout", 10*time.Second)

	v.SetDefault("chat.history_limit", 20)
	v.SetDefault("chat.session_ttl", 72*time.Hour)

	v.SetDefault("scheduler.tasks", map[string]map[string]any{
		"check_reminders": {
			"enabled":  true,
			"schedule": "*/5 * * * *",
		},
		"session_cleanup": {
			"enabled":  true,
			"schedule": "0 4 * * *",
		},
	})
}
