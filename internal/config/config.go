package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Access    AccessConfig    `yaml:"access"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// TelegramConfig contains Bot API transport settings
type TelegramConfig struct {
	Token         string `yaml:"token"`
	Mode          string `yaml:"mode"`           // "polling" or "webhook"
	WebhookURL    string `yaml:"webhook_url"`    // public URL Telegram posts updates to
	WebhookSecret string `yaml:"webhook_secret"` // optional shared secret header
	ListenAddr    string `yaml:"listen_addr"`    // local address for the webhook server
}

// SheetsConfig contains Google Sheets backend settings
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"` // path to a service account key
	CredentialsJSON string `yaml:"-"`                // raw key material, env only
	TimeoutSeconds  int    `yaml:"timeout_seconds"`  // per store call
}

// AccessConfig contains reviewer access settings
type AccessConfig struct {
	AdminIDs []int64 `yaml:"admin_ids"`
	PinCode  string  `yaml:"pin_code"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	DailyDigest string `yaml:"daily_digest"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file. An empty path skips the file
// and relies on environment variables alone, which is how the bot runs on
// container platforms.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("BOT_TOKEN"); val != "" {
		c.Telegram.Token = val
	}
	if val := os.Getenv("MODE"); val != "" {
		c.Telegram.Mode = strings.ToLower(val)
	}
	if val := os.Getenv("WEBHOOK_URL"); val != "" {
		c.Telegram.WebhookURL = val
	}
	if val := os.Getenv("WEBHOOK_SECRET"); val != "" {
		c.Telegram.WebhookSecret = val
	}
	if val := os.Getenv("LISTEN_ADDR"); val != "" {
		c.Telegram.ListenAddr = val
	}

	if val := os.Getenv("SPREADSHEET_ID"); val != "" {
		c.Sheets.SpreadsheetID = val
	}
	if val := os.Getenv("GOOGLE_CREDENTIALS"); val != "" {
		c.Sheets.CredentialsJSON = val
	}
	if val := os.Getenv("GOOGLE_CREDENTIALS_FILE"); val != "" {
		c.Sheets.CredentialsFile = val
	}

	if val := os.Getenv("ADMIN_IDS"); val != "" {
		c.Access.AdminIDs = parseAdminIDs(val)
	}
	if val := os.Getenv("PIN_CODE"); val != "" {
		c.Access.PinCode = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Defaults
	if c.Telegram.Mode == "" {
		c.Telegram.Mode = "polling"
	}
	if c.Telegram.ListenAddr == "" {
		c.Telegram.ListenAddr = ":8080"
	}
	if c.Sheets.TimeoutSeconds == 0 {
		c.Sheets.TimeoutSeconds = 15
	}
	if c.Scheduler.DailyDigest == "" {
		c.Scheduler.DailyDigest = "0 0 21 * * *" // 9 PM UTC
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// parseAdminIDs parses a comma-separated ID list, ignoring malformed entries
func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is required")
	}
	if c.Telegram.Mode != "polling" && c.Telegram.Mode != "webhook" {
		return fmt.Errorf("invalid telegram mode: %q", c.Telegram.Mode)
	}
	if c.Telegram.Mode == "webhook" && c.Telegram.WebhookURL == "" {
		return fmt.Errorf("webhook URL is required in webhook mode")
	}

	if c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID is required")
	}
	if c.Sheets.CredentialsJSON == "" && c.Sheets.CredentialsFile == "" {
		return fmt.Errorf("google credentials are required (GOOGLE_CREDENTIALS or GOOGLE_CREDENTIALS_FILE)")
	}

	if len(c.Access.AdminIDs) == 0 && c.Access.PinCode == "" {
		return fmt.Errorf("at least one admin ID or a pin code is required")
	}

	return nil
}

// Credentials returns the service account key material, reading the
// credentials file when no inline JSON was provided.
func (c *Config) Credentials() ([]byte, error) {
	if c.Sheets.CredentialsJSON != "" {
		return []byte(c.Sheets.CredentialsJSON), nil
	}
	data, err := os.ReadFile(c.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}
