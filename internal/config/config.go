// Package config loads runtime settings from TIMES_* environment
// variables, with an optional env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the serve command wires together. The core
// packages receive individual values, never this struct.
type Config struct {
	// DatabasePath is the sqlite file location. Empty means the default
	// under the user's home directory.
	DatabasePath string
	// ListenAddr is the HTTP listen address, e.g. ":3000".
	ListenAddr string
	// BaseURL is the externally visible URL report links are built on.
	BaseURL string
	// SigningSecret is the Slack signing secret. Empty disables request
	// verification (local development only).
	SigningSecret string
	// AttachmentColor is the sidebar color of the clock-out attachment.
	AttachmentColor string
	// LogLevel is a charmbracelet/log level name.
	LogLevel string
	// ReportTTL is how long report links stay valid.
	ReportTTL time.Duration
}

const (
	DefaultListenAddr      = ":3000"
	DefaultAttachmentColor = "#80EDBF"
	DefaultLogLevel        = "info"
	DefaultReportTTLHours  = 6
)

// Load reads configuration from the environment. When envFile is non-empty
// it is loaded first; a missing file is not an error, the environment just
// wins as-is.
func Load(envFile string) Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	ttl := time.Duration(DefaultReportTTLHours) * time.Hour
	if raw := os.Getenv("TIMES_REPORT_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return Config{
		DatabasePath:    os.Getenv("TIMES_DB_PATH"),
		ListenAddr:      coalesce(os.Getenv("TIMES_LISTEN_ADDR"), DefaultListenAddr),
		BaseURL:         os.Getenv("TIMES_BASE_URL"),
		SigningSecret:   os.Getenv("TIMES_SLACK_SIGNING_SECRET"),
		AttachmentColor: coalesce(os.Getenv("TIMES_ATTACHMENT_COLOR"), DefaultAttachmentColor),
		LogLevel:        coalesce(os.Getenv("TIMES_LOG_LEVEL"), DefaultLogLevel),
		ReportTTL:       ttl,
	}
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}
