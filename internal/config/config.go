package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/M0SENI/VisaBot/internal/domain"

	"github.com/joho/godotenv"
)

const defaultCommissionTiers = "0:0.05,5:0.075,10:0.10"

// Config holds all application configuration
type Config struct {
	BotToken        string
	AdminID         int64
	WalletAddress   string
	Currency        string
	CommissionTiers domain.CommissionTiers
	DepositPercent  int
	ClearOnFailure  bool
	MetricsAddr     string
	LogLevel        string
	Database        DatabaseConfig
	Session         SessionConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// SessionConfig selects and tunes the conversation session store
type SessionConfig struct {
	// RedisAddr selects the Redis store when set
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// TTL is the idle time after which a session is dropped
	TTL time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		WalletAddress: os.Getenv("WALLET_ADDRESS"),
		Currency:      getEnv("CURRENCY", "IRR"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "visabot"),
			User:     getEnv("DB_USER", "visabot"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	adminID := os.Getenv("ADMIN_ID")
	if adminID == "" {
		return nil, fmt.Errorf("ADMIN_ID is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	var err error
	if cfg.AdminID, err = strconv.ParseInt(adminID, 10, 64); err != nil {
		return nil, fmt.Errorf("ADMIN_ID: %w", err)
	}
	if cfg.DepositPercent, err = strconv.Atoi(getEnv("DEPOSIT_PERCENT", "20")); err != nil {
		return nil, fmt.Errorf("DEPOSIT_PERCENT: %w", err)
	}
	if cfg.DepositPercent < 0 || cfg.DepositPercent > 100 {
		return nil, fmt.Errorf("DEPOSIT_PERCENT must be between 0 and 100, got %d", cfg.DepositPercent)
	}
	if cfg.CommissionTiers, err = ParseCommissionTiers(getEnv("COMMISSION_TIERS", defaultCommissionTiers)); err != nil {
		return nil, fmt.Errorf("COMMISSION_TIERS: %w", err)
	}
	if cfg.ClearOnFailure, err = strconv.ParseBool(getEnv("CLEAR_ON_FAILURE", "false")); err != nil {
		return nil, fmt.Errorf("CLEAR_ON_FAILURE: %w", err)
	}
	if cfg.Session.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.Session.TTL, err = time.ParseDuration(getEnv("SESSION_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	return cfg, nil
}

// ParseCommissionTiers parses "minOrders:rate" pairs separated by commas
func ParseCommissionTiers(s string) (domain.CommissionTiers, error) {
	var tiers domain.CommissionTiers
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		minOrders, rate, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("tier %q: expected minOrders:rate", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(minOrders))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("tier %q: bad order count", part)
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil || r < 0 || r > 1 {
			return nil, fmt.Errorf("tier %q: rate must be between 0 and 1", part)
		}
		tiers = append(tiers, domain.CommissionTier{MinOrders: n, Rate: r})
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("no tiers in %q", s)
	}
	return tiers, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
