// Package config loads run settings from the environment and an optional
// .env file. Nothing here changes how records are replayed; it only controls
// diagnostics and the optional export sinks.
package config

import (
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultPostgresTable = "account_balances"
	DefaultKafkaTopic    = "account_settled"
)

type Config struct {
	LogLevel zapcore.Level

	// Empty DSN disables the Postgres export.
	PostgresDSN   string
	PostgresTable string

	// No brokers disables event publishing.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads envFiles (".env" when none are given) into the process
// environment, without overriding variables already set, and builds a
// Config from it. Missing env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "load %s", f)
		}
	}

	cfg := Config{
		LogLevel:      zapcore.InfoLevel,
		PostgresDSN:   os.Getenv("LEDGER_POSTGRES_DSN"),
		PostgresTable: getenv("LEDGER_POSTGRES_TABLE", DefaultPostgresTable),
		KafkaBrokers:  splitList(os.Getenv("LEDGER_KAFKA_BROKERS")),
		KafkaTopic:    getenv("LEDGER_KAFKA_TOPIC", DefaultKafkaTopic),
	}

	if lvl := os.Getenv("LEDGER_LOG_LEVEL"); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return Config{}, errors.Wrap(err, "LEDGER_LOG_LEVEL")
		}
		cfg.LogLevel = parsed
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
