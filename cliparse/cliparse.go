// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseEtcd     = "etcd"
	DatabaseMemory   = "memory"
)

const defaultSQLiteDSN = "estimation.db"

type Config struct {
	Port               int           `env:"PORT" envDefault:"3318"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	DatabaseType       string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	FacilitatorKeySalt string        `env:"FACILITATOR_KEY_SALT"`
	BaseURL            string        `env:"BASE_URL" envDefault:"http://localhost:3318"`
	EtcdEndpoints      []string      `env:"ETCD_ENDPOINTS" envSeparator:"," envDefault:"localhost:2379"`
	EtcdDialTimeout    time.Duration `env:"ETCD_DIAL_TIMEOUT" envDefault:"5s"`
	SessionTTL         time.Duration `env:"SESSION_TTL"`
}

// ParseFlags builds the config from, in increasing precedence: defaults, a
// .env file in the working directory, environment variables and CLI flags.
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("estimation-lab", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL or DSN")
	flags.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Storage backend (sqlite, postgres, etcd or memory)")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Public base URL used in join links")
	endpoints := flags.String("etcd-endpoints", strings.Join(cfg.EtcdEndpoints, ","), "Comma separated etcd endpoints")
	flags.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Default session lifetime (0 = never expire)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.FacilitatorKeySalt, "facilitator-salt", cfg.FacilitatorKeySalt, "Facilitator key salt (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.EtcdEndpoints = splitList(*endpoints)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}

	switch cfg.DatabaseType {
	case DatabaseSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultSQLiteDSN
		}
	case DatabasePostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	case DatabaseEtcd:
		if len(cfg.EtcdEndpoints) == 0 {
			return errors.New("etcd endpoints required (use -etcd-endpoints or ETCD_ENDPOINTS env)")
		}
	case DatabaseMemory:
	default:
		return fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.SessionTTL < 0 {
		return errors.New("session TTL cannot be negative")
	}

	// Secrets - MUST be provided
	if cfg.FacilitatorKeySalt == "" {
		return errors.New("FACILITATOR_KEY_SALT required")
	}
	return nil
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
