package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Refresh   RefreshConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// BackendConfig contains connection options for the remote pharmacy backend.
type BackendConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	FetchLimit     int
}

// RefreshConfig holds the periodic catalog/ledger refresh schedule.
type RefreshConfig struct {
	CronSchedule string
}

// ReportingConfig holds the daily report sweep settings.
type ReportingConfig struct {
	CronSchedule    string
	ExpiryAlertDays int
}

// MongoDBConfig holds settings for the optional report snapshot sink.
// Catalog and ledger persistence stays with the remote backend; this only
// stores daily report documents.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration for the optional spreadsheet export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Backend: BackendConfig{
			BaseURL:        os.Getenv("BACKEND_BASE_URL"),
			APIKey:         os.Getenv("BACKEND_API_KEY"),
			TimeoutSeconds: getenvIntWithDefault("BACKEND_TIMEOUT_SECONDS", 15),
			FetchLimit:     getenvIntWithDefault("FETCH_LIMIT", 500),
		},
		Refresh: RefreshConfig{
			CronSchedule: getenvWithDefault("REFRESH_CRON", "*/15 * * * *"),
		},
		Reporting: ReportingConfig{
			CronSchedule:    getenvWithDefault("REPORT_CRON", "0 20 * * *"),
			ExpiryAlertDays: getenvIntWithDefault("EXPIRY_ALERT_DAYS", 30),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "pharmastock"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. The
// MongoDB and Sheets blocks are optional features; an empty URI or
// spreadsheet ID simply disables them.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Backend.BaseURL == "" {
		return errors.New("BACKEND_BASE_URL must be provided")
	}

	if c.Backend.TimeoutSeconds <= 0 {
		return errors.New("BACKEND_TIMEOUT_SECONDS must be positive")
	}

	if c.Backend.FetchLimit <= 0 {
		return errors.New("FETCH_LIMIT must be positive")
	}

	if c.Refresh.CronSchedule == "" {
		return errors.New("REFRESH_CRON must be provided")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON must be provided")
	}

	if c.Reporting.ExpiryAlertDays <= 0 {
		return errors.New("EXPIRY_ALERT_DAYS must be positive")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_REPORT_ID is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvIntWithDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
