package calendar

import (
	"os"
	"strconv"
)

// Config holds configuration for the Google Calendar source. Disabled by
// default: planning falls back to an empty fixed-event list.
type Config struct {
	Enabled      bool
	CalendarName string
	ConfigDir    string
	TimeoutMs    int
}

func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		CalendarName: "primary",
		ConfigDir:    "",
		TimeoutMs:    5000,
	}
}

// LoadConfig reads calendar configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TEMPO_CALENDAR_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TEMPO_CALENDAR_NAME"); v != "" {
		cfg.CalendarName = v
	}
	if v := os.Getenv("TEMPO_CALENDAR_CONFIG_DIR"); v != "" {
		cfg.ConfigDir = v
	}
	if v := os.Getenv("TEMPO_CALENDAR_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	return cfg
}
