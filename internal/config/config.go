package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"ebios-rm/internal/scoring"
)

type Config struct {
	DBDriver    string
	DBDSN       string
	ServerPort  string
	GinMode     string
	LogLevel    string
	LogFile     string // пусто: только stdout
	CatalogPath string // пусто: встроенный справочник

	Matrix     scoring.Matrix
	Mitigation scoring.Mitigation
}

// Load читает окружение (и .env, если есть).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:    getenv("DB_DRIVER", "postgres"),
		DBDSN:       os.Getenv("DB_DSN"),
		ServerPort:  getenv("SERVER_PORT", "8080"),
		GinMode:     getenv("GIN_MODE", "release"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),
		CatalogPath: os.Getenv("CATALOG_PATH"),
		Matrix:      scoring.DefaultMatrix,
		Mitigation:  scoring.DefaultMitigation,
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN is not set")
		}
	case "sqlite":
		if cfg.DBDSN == "" {
			cfg.DBDSN = "ebios.db"
		}
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("GIN_MODE: unknown mode %q", cfg.GinMode)
	}

	if raw := os.Getenv("RISK_MATRIX"); raw != "" {
		m, err := scoring.ParseMatrix(raw)
		if err != nil {
			return nil, fmt.Errorf("RISK_MATRIX: %w", err)
		}
		cfg.Matrix = m
	}

	if raw := os.Getenv("REDUCE_STEPS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("REDUCE_STEPS: %q is not a number", raw)
		}
		cfg.Mitigation = scoring.Mitigation{ReduceSteps: n}
		if err := cfg.Mitigation.Check(); err != nil {
			return nil, fmt.Errorf("REDUCE_STEPS: %w", err)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
