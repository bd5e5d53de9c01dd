package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	APIToken        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	Domain          string
	CDNHost         string
	Timeout         time.Duration
	UserAgent       string
	AcceptLanguage  string
	MarkupPercent   decimal.Decimal
	MaxImages       int
	ConcurrentLimit int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	markup, err := decimal.NewFromString(getEnvOrDefault("SCRAPER_MARKUP_PERCENT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPER_MARKUP_PERCENT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			APIToken:        getEnvOrDefault("API_TOKEN", ""),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			Domain:          getEnvOrDefault("SCRAPER_DOMAIN", "trendyol.com"),
			CDNHost:         getEnvOrDefault("SCRAPER_CDN_HOST", "cdn.dsmcdn.com"),
			Timeout:         getDurationOrDefault("SCRAPER_TIMEOUT", 30*time.Second),
			UserAgent:       getEnvOrDefault("SCRAPER_USER_AGENT", defaultUserAgent),
			AcceptLanguage:  getEnvOrDefault("SCRAPER_ACCEPT_LANGUAGE", "tr,en-US;q=0.7,en;q=0.3"),
			MarkupPercent:   markup,
			MaxImages:       getIntOrDefault("SCRAPER_MAX_IMAGES", 8),
			ConcurrentLimit: getIntOrDefault("SCRAPER_CONCURRENT_LIMIT", 5),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			Name:     getEnvOrDefault("DB_NAME", "trendyol_catalog"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.Domain == "" {
		return fmt.Errorf("SCRAPER_DOMAIN must not be empty")
	}

	if c.Scraper.CDNHost == "" {
		return fmt.Errorf("SCRAPER_CDN_HOST must not be empty")
	}

	if c.Scraper.MaxImages < 1 {
		return fmt.Errorf("SCRAPER_MAX_IMAGES must be at least 1")
	}

	if c.Scraper.ConcurrentLimit < 1 {
		return fmt.Errorf("SCRAPER_CONCURRENT_LIMIT must be at least 1")
	}

	if c.Scraper.MarkupPercent.IsNegative() {
		return fmt.Errorf("SCRAPER_MARKUP_PERCENT must not be negative")
	}

	return nil
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
