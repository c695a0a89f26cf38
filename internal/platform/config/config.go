package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"pairrank/internal/platform/id"
)

// FileName is the optional per-directory config file read from the
// data directory.
const FileName = "pairrank.toml"

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type IDConfig struct {
	Strategy string `toml:"strategy"`
	Attempts int    `toml:"attempts"`
}

type Config struct {
	DataDir string        `toml:"-"`
	DBPath  string        `toml:"-"`
	Logging LoggingConfig `toml:"logging"`
	IDs     IDConfig      `toml:"ids"`
}

// New resolves configuration in precedence order: defaults, then the
// TOML file in the data directory, then PAIRRANK_* environment
// variables (a .env file is honored when present).
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data directory is required")
	}
	_ = godotenv.Load()

	cfg := Config{
		Logging: LoggingConfig{Level: "info"},
		IDs:     IDConfig{Strategy: id.StrategySlug, Attempts: id.DefaultAttempts},
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if err == nil {
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", FileName, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}

	cfg.Logging.Level = getEnv("PAIRRANK_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.File = getEnv("PAIRRANK_LOG_FILE", cfg.Logging.File)
	cfg.IDs.Strategy = getEnv("PAIRRANK_ID_STRATEGY", cfg.IDs.Strategy)
	cfg.IDs.Attempts = getEnvInt("PAIRRANK_ID_ATTEMPTS", cfg.IDs.Attempts)

	cfg.DataDir = dataDir
	cfg.DBPath = filepath.Join(dataDir, ".pairrank", "pairrank.db")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.IDs.Strategy {
	case id.StrategySlug, id.StrategyHex, id.StrategyUUID:
	default:
		return fmt.Errorf("invalid id strategy %q (want %s, %s or %s)", c.IDs.Strategy, id.StrategySlug, id.StrategyHex, id.StrategyUUID)
	}
	if c.IDs.Attempts < 1 {
		return fmt.Errorf("id attempts must be at least 1, got %d", c.IDs.Attempts)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
