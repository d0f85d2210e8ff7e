package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	Addr   string
	DBPath string
	Env    string

	AdminEmail    string
	AdminPassword string

	// CSRFKey is the raw 32-byte key; empty means "generate one per start".
	CSRFKey []byte

	ResendKey string
	EmailFrom string

	GymName        string
	ReceiptPrefix  string
	CurrencySymbol string

	RateLimitPerSecond int
	SlowQueryMs        int
	SlowRequestMs      int
	LogLevel           slog.Level
}

// Load reads an optional .env file from the working directory and then the
// GYM_* environment variables. Variables already set in the environment win
// over .env values.
// PRE: none
// POST: Returns a populated Config or an error for malformed values
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Split out from Load so tests
// do not touch the process environment.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Addr:           get("GYM_ADDR", ":8080"),
		DBPath:         get("GYM_DB_PATH", "gymdesk.db"),
		Env:            get("GYM_ENV", EnvDevelopment),
		AdminEmail:     get("GYM_ADMIN_EMAIL", "admin@gymrats.local"),
		AdminPassword:  getenv("GYM_ADMIN_PASSWORD"),
		ResendKey:      getenv("GYM_RESEND_KEY"),
		EmailFrom:      get("GYM_EMAIL_FROM", "GymRats <noreply@gymrats.local>"),
		GymName:        get("GYM_NAME", "GymRats"),
		ReceiptPrefix:  get("GYM_RECEIPT_PREFIX", "GymPro_Receipt"),
		CurrencySymbol: get("GYM_CURRENCY", "₹"),
	}

	if keyHex := getenv("GYM_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("GYM_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.CSRFKey = key
	}

	var err error
	if cfg.RateLimitPerSecond, err = positiveInt(getenv, "GYM_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = positiveInt(getenv, "GYM_SLOW_QUERY_MS", 50); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequestMs, err = positiveInt(getenv, "GYM_SLOW_REQUEST_MS", 200); err != nil {
		return Config{}, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("GYM_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid GYM_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with GYM_ENV=production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Validate enforces the settings production cannot run without.
// PRE: Config was produced by FromEnv
// POST: Returns nil if the config is usable for c.Env
func (c Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	if len(c.CSRFKey) == 0 {
		return errors.New("GYM_CSRF_KEY is required in production")
	}
	if c.AdminPassword == "" {
		return errors.New("GYM_ADMIN_PASSWORD is required in production")
	}
	return nil
}

func positiveInt(getenv func(string) string, key string, fallback int) (int, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
