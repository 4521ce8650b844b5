package wellness

import (
	"os"
	"strconv"
)

// Config holds configuration for the wellness collaborator. Disabled by
// default: planning works without it, falling back to baseline energy.
type Config struct {
	Enabled   bool
	LogCalls  bool
	Endpoint  string
	TimeoutMs int
}

func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		LogCalls:  false,
		Endpoint:  "http://localhost:8090",
		TimeoutMs: 3000,
	}
}

// LoadConfig reads wellness configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TEMPO_WELLNESS_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TEMPO_WELLNESS_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TEMPO_WELLNESS_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TEMPO_WELLNESS_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	return cfg
}
