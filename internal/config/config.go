package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DBDSN       string `mapstructure:"DB_DSN"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`

	TelegramToken string  `mapstructure:"TELEGRAM_TOKEN"`
	OperatorIDs   []int64 `mapstructure:"OPERATOR_IDS"` // Telegram ID операторов, пустой список - бот открыт всем

	HorizonDays        int           `mapstructure:"HORIZON_DAYS"`
	GridLocale         string        `mapstructure:"GRID_LOCALE"`
	StaleCheckInterval time.Duration `mapstructure:"STALE_CHECK_INTERVAL"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения и проставляет значения по умолчанию
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:   getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", ""),
		DBDSN:         os.Getenv("DB_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		GridLocale:    getEnv("GRID_LOCALE", "en"),
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	horizon, err := strconv.Atoi(getEnv("HORIZON_DAYS", "730"))
	if err != nil || horizon <= 0 {
		return nil, fmt.Errorf("HORIZON_DAYS must be a positive integer, got %q", os.Getenv("HORIZON_DAYS"))
	}
	cfg.HorizonDays = horizon

	interval, err := time.ParseDuration(getEnv("STALE_CHECK_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse STALE_CHECK_INTERVAL: %w", err)
	}
	cfg.StaleCheckInterval = interval

	if raw := os.Getenv("OPERATOR_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse OPERATOR_IDS: %w", err)
			}
			cfg.OperatorIDs = append(cfg.OperatorIDs, id)
		}
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsOperator проверяет, может ли пользователь Telegram управлять расписанием
func (c *Config) IsOperator(telegramID int64) bool {
	if len(c.OperatorIDs) == 0 {
		return true
	}
	for _, id := range c.OperatorIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
