package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	MigrationsDir  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CartConfig controls where cart snapshots live and how long sessions stay in memory
type CartConfig struct {
	StorageKey  string
	SnapshotTTL time.Duration
	SaveTimeout time.Duration
	SessionIdle time.Duration
}

// RateLimitConfig limits checkout submissions per client
type RateLimitConfig struct {
	CheckoutRequests int
	CheckoutWindow   time.Duration
}

// IsDevelopment reports whether the server runs in development mode
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the Redis host:port
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func Load() *Config {
	// Export .env to the process environment too; a missing file is fine.
	_ = godotenv.Load()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CART_STORAGE_KEY", "sweetlayers-cart")
	viper.SetDefault("CART_SNAPSHOT_TTL_HOURS", 720)
	viper.SetDefault("CART_SAVE_TIMEOUT_MS", 500)
	viper.SetDefault("CART_SESSION_IDLE_MINUTES", 30)
	viper.SetDefault("RATE_LIMIT_CHECKOUT_REQUESTS", 10)
	viper.SetDefault("RATE_LIMIT_CHECKOUT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			MigrationsDir:  viper.GetString("MIGRATIONS_DIR"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cart: CartConfig{
			StorageKey:  viper.GetString("CART_STORAGE_KEY"),
			SnapshotTTL: time.Duration(viper.GetInt("CART_SNAPSHOT_TTL_HOURS")) * time.Hour,
			SaveTimeout: time.Duration(viper.GetInt("CART_SAVE_TIMEOUT_MS")) * time.Millisecond,
			SessionIdle: time.Duration(viper.GetInt("CART_SESSION_IDLE_MINUTES")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			CheckoutRequests: viper.GetInt("RATE_LIMIT_CHECKOUT_REQUESTS"),
			CheckoutWindow:   time.Duration(viper.GetInt("RATE_LIMIT_CHECKOUT_WINDOW_SECONDS")) * time.Second,
		},
	}
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
