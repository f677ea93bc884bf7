package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultAppName          = "Banco"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultWithdrawalCap    = "500"
	defaultDailyWithdrawals = 3
	defaultAuditStream      = "banco:audit:v1"
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	RedisURL       string
	AuditStream    string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	// DepositCeiling caps account balances reachable by deposit. Zero disables it.
	DepositCeiling decimal.Decimal
	// Defaults applied when an account-opening request omits its limits.
	DefaultWithdrawalCap    decimal.Decimal
	DefaultDailyWithdrawals int
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:                 getEnv("APP_NAME", defaultAppName),
		AppEnv:                  getEnv("APP_ENV", defaultAppEnv),
		Port:                    getEnv("PORT", defaultPort),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RedisURL:                os.Getenv("REDIS_URL"),
		AuditStream:             getEnv("AUDIT_STREAM", defaultAuditStream),
		ShutdownPeriod:          defaultShutdownDelay,
		IdempotencyTTL:          defaultIdempotencyTTL,
		DepositCeiling:          decimal.Zero,
		DefaultWithdrawalCap:    decimal.RequireFromString(defaultWithdrawalCap),
		DefaultDailyWithdrawals: defaultDailyWithdrawals,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(idemTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLSecondsEnvVar, err)
		}
		cfg.IdempotencyTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(idemTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLDurEnvVar, err)
		}
		cfg.IdempotencyTTL = d
	}

	if v := os.Getenv("DEPOSIT_CEILING"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEPOSIT_CEILING: %w", err)
		}
		if d.IsNegative() {
			return Config{}, fmt.Errorf("DEPOSIT_CEILING must not be negative")
		}
		cfg.DepositCeiling = d
	}

	if v := os.Getenv("DEFAULT_WITHDRAWAL_CAP"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEFAULT_WITHDRAWAL_CAP: %w", err)
		}
		cfg.DefaultWithdrawalCap = d
	}
	if !cfg.DefaultWithdrawalCap.IsPositive() {
		return Config{}, fmt.Errorf("DEFAULT_WITHDRAWAL_CAP must be positive")
	}

	if v := os.Getenv("DEFAULT_DAILY_WITHDRAWALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEFAULT_DAILY_WITHDRAWALS: %w", err)
		}
		cfg.DefaultDailyWithdrawals = n
	}
	if cfg.DefaultDailyWithdrawals <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_DAILY_WITHDRAWALS must be positive")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
