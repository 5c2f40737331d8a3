package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	BaseURL  string
	Yalidine YalidineConfig
	Orders   OrdersConfig
	Redis    RedisConfig
	Parcel   ParcelConfig
	Session  SessionConfig
}

// YalidineConfig holds credentials and tuning for the Yalidine shipping API.
// The timeout is deliberately generous: quotes are requested from mobile
// connections and the provider is slow under load.
type YalidineConfig struct {
	BaseURL        string
	APIID          string
	APIToken       string
	Timeout        time.Duration
	OriginWilayaID int
}

// OrdersConfig holds the external order-submission service settings.
type OrdersConfig struct {
	SubmitURL string
	APIKey    string
	Timeout   time.Duration
}

// RedisConfig holds directory cache settings. When Addr is empty the
// application falls back to the in-memory cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ParcelConfig holds default parcel attributes used when the product does not
// carry physical dimensions. Weight is in grams, dimensions in centimeters.
type ParcelConfig struct {
	WeightGrams int
	LengthCm    int
	WidthCm     int
	HeightCm    int
}

// SessionConfig controls in-memory checkout session lifetime.
type SessionConfig struct {
	TTL time.Duration
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		BaseURL:  getEnv("BASE_URL", "http://localhost:3000"),
		Yalidine: YalidineConfig{
			BaseURL:        getEnv("YALIDINE_BASE_URL", "https://api.yalidine.app/v1"),
			APIID:          getEnv("YALIDINE_API_ID", ""),
			APIToken:       getEnv("YALIDINE_API_TOKEN", ""),
			Timeout:        getEnvDuration("YALIDINE_TIMEOUT", 30*time.Second),
			OriginWilayaID: int(getEnvInt("ORIGIN_WILAYA_ID", 16)), // Alger
		},
		Orders: OrdersConfig{
			SubmitURL: getEnv("ORDERS_SUBMIT_URL", "http://localhost:4000/api/orders"),
			APIKey:    getEnv("ORDERS_API_KEY", ""),
			Timeout:   getEnvDuration("ORDERS_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(getEnvInt("REDIS_DB", 0)),
			TTL:      getEnvDuration("DIRECTORY_CACHE_TTL", 6*time.Hour),
		},
		Parcel: ParcelConfig{
			WeightGrams: int(getEnvInt("PARCEL_DEFAULT_WEIGHT_GRAMS", 1000)),
			LengthCm:    int(getEnvInt("PARCEL_DEFAULT_LENGTH_CM", 30)),
			WidthCm:     int(getEnvInt("PARCEL_DEFAULT_WIDTH_CM", 20)),
			HeightCm:    int(getEnvInt("PARCEL_DEFAULT_HEIGHT_CM", 10)),
		},
		Session: SessionConfig{
			TTL: getEnvDuration("CHECKOUT_SESSION_TTL", 2*time.Hour),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	// Yalidine credentials are mandatory outside dev
	if cfg.Env == "prod" {
		if cfg.Yalidine.APIID == "" || cfg.Yalidine.APIToken == "" {
			return nil, fmt.Errorf("YALIDINE_API_ID and YALIDINE_API_TOKEN must be set in production")
		}
		if cfg.Orders.SubmitURL == "" {
			return nil, fmt.Errorf("ORDERS_SUBMIT_URL must be set in production")
		}
	}

	if cfg.Parcel.WeightGrams <= 0 {
		return nil, fmt.Errorf("PARCEL_DEFAULT_WEIGHT_GRAMS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
