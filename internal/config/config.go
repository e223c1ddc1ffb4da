package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Book mode values.
const (
	ModeTwoSided   = "two-sided"
	ModeAskResting = "ask-resting"
)

// Trade emission policy values.
const (
	EmitStreaming = "streaming"
	EmitBatched   = "batched"
)

// Bad record policy values.
const (
	PolicySkip = "skip"
	PolicyFail = "fail"
)

// Config selects among the engine's policy variants. All values come
// from the environment, optionally seeded from a .env file.
type Config struct {
	BookMode    string // two-sided | ask-resting
	Emission    string // streaming | batched
	ErrorPolicy string // skip | fail
	LogLevel    string // zerolog level name
}

// Load reads configuration from the environment. A missing .env file is
// fine; the environment may be set directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BookMode:    getEnv("MATCHBOOK_MODE", ModeTwoSided),
		Emission:    getEnv("MATCHBOOK_EMIT", EmitStreaming),
		ErrorPolicy: getEnv("MATCHBOOK_BAD_RECORDS", PolicySkip),
		LogLevel:    getEnv("MATCHBOOK_LOG_LEVEL", zerolog.LevelInfoValue),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.BookMode {
	case ModeTwoSided, ModeAskResting:
	default:
		return fmt.Errorf("invalid MATCHBOOK_MODE %q", c.BookMode)
	}
	switch c.Emission {
	case EmitStreaming, EmitBatched:
	default:
		return fmt.Errorf("invalid MATCHBOOK_EMIT %q", c.Emission)
	}
	switch c.ErrorPolicy {
	case PolicySkip, PolicyFail:
	default:
		return fmt.Errorf("invalid MATCHBOOK_BAD_RECORDS %q", c.ErrorPolicy)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid MATCHBOOK_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level parses the configured zerolog level. Only valid after Load.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
