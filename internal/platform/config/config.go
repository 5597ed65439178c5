package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration values.
type AppConfig struct {
	PGSQLURL      string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Circulation policy knobs that are global rather than per item type.
	CheckoutLimit       int
	ReservationHoldDays int

	RateLimit string
}

// LoadConfig loads configuration from environment variables, with an optional
// .env file for local development. Values already present in the environment
// win over the file.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_EXPIRY_DURATION", "24h")
	v.SetDefault("JWT_ISSUER", "library-circulation-app")
	v.SetDefault("CHECKOUT_LIMIT", 20)
	v.SetDefault("RESERVATION_HOLD_DAYS", 3)
	v.SetDefault("RATE_LIMIT", "100-M")

	cfg := &AppConfig{
		PGSQLURL:            v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTExpiryDuration:   v.GetDuration("JWT_EXPIRY_DURATION"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		CheckoutLimit:       v.GetInt("CHECKOUT_LIMIT"),
		ReservationHoldDays: v.GetInt("RESERVATION_HOLD_DAYS"),
		RateLimit:           v.GetString("RATE_LIMIT"),
	}

	if cfg.PGSQLURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.CheckoutLimit <= 0 {
		return nil, fmt.Errorf("CHECKOUT_LIMIT must be positive, got %d", cfg.CheckoutLimit)
	}
	if cfg.ReservationHoldDays <= 0 {
		return nil, fmt.Errorf("RESERVATION_HOLD_DAYS must be positive, got %d", cfg.ReservationHoldDays)
	}

	return cfg, nil
}
