package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Cart     CartConfig
	Pricing  PricingConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type LogConfig struct {
	Level  string // empty picks debug in development, info elsewhere
	Format string // console or json
	File   string // optional rotated log file
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type CartConfig struct {
	RequiredCategories []string
	CategoryRank       []string
	DateLayout         string
	IdleTTL            time.Duration // carts untouched this long are dropped
	SweepSpec          string        // cron spec for the idle sweep
}

type PricingConfig struct {
	ShippingFee      decimal.Decimal
	DiscountFee      decimal.Decimal
	CategoryPrefixes []string
	RefreshSpec      string        // cron spec for threshold refresh
	CacheTTL         time.Duration // redis TTL of cached threshold rows
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	shipping, err := parseDecimal("SHIPPING_FEE", getEnv("SHIPPING_FEE", "10.85"))
	if err != nil {
		return nil, err
	}
	discount, err := parseDecimal("DISCOUNT_FEE", getEnv("DISCOUNT_FEE", "9"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", ""),
			Format: getEnv("LOG_FORMAT", "console"),
			File:   getEnv("LOG_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "tiffin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "true")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Cart: CartConfig{
			RequiredCategories: parseSlice(getEnv("CART_REQUIRED_CATEGORIES", "PROTEIN,VEGGIES,SIDES,PROBIOTICS")),
			CategoryRank:       parseSlice(getEnv("CART_CATEGORY_RANK", "PROTEIN,VEGGIES,SIDES,PROBIOTICS")),
			DateLayout:         getEnv("CART_DATE_LAYOUT", "Mon, 02 Jan 2006"),
			IdleTTL:            parseDuration(getEnv("CART_IDLE_TTL", "24h"), 24*time.Hour),
			SweepSpec:          getEnv("CART_SWEEP_SPEC", "@every 15m"),
		},
		Pricing: PricingConfig{
			ShippingFee:      shipping,
			DiscountFee:      discount,
			CategoryPrefixes: parseSlice(getEnv("PRICING_CATEGORY_PREFIXES", "main_tiffin_,addon_tiffin_,addon_")),
			RefreshSpec:      getEnv("PRICING_REFRESH_SPEC", "@every 10m"),
			CacheTTL:         parseDuration(getEnv("PRICING_CACHE_TTL", "24h"), 24*time.Hour),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDecimal(key, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
