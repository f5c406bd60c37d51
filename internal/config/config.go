package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN       string // Postgres DSN (required)
	Environment string // "development" | "production"

	HTTPAddr string // ex: ":8080"
	AppURL   string // базовый URL для ссылок в письмах, ex: "https://booking.example.com"

	AdminSecret string // секрет админских операций; пустой = админка закрыта
	CronSecret  string // секрет триггера очистки; пустой = триггер закрыт

	// Почта (все поля обязательны, иначе канал выключен)
	SMTPHost   string
	SMTPPort   string
	FromEmail  string
	AdminEmail string

	// Telegram-уведомления администратору (опционально)
	TelegramToken       string
	TelegramAdminChatID int64

	// Rate limiting на публичной форме (опционально, без Redis выключен)
	RedisAddr          string
	RateLimitPerMinute int
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		AppURL:        os.Getenv("APP_URL"),
		AdminSecret:   os.Getenv("ADMIN_SECRET"),
		CronSecret:    os.Getenv("CRON_SECRET"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		FromEmail:     os.Getenv("FROM_EMAIL"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.SMTPPort == "" {
		cfg.SMTPPort = "25"
	}

	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID must be a number: %w", err)
		}
		cfg.TelegramAdminChatID = chatID
	}

	cfg.RateLimitPerMinute = 30
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a positive number")
		}
		cfg.RateLimitPerMinute = n
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// MailerReady reports whether every field needed for the email channel is set.
// Без полной почтовой конфигурации бронирование всё равно работает.
func (c *Config) MailerReady() bool {
	return c.SMTPHost != "" && c.FromEmail != "" && c.AdminEmail != "" && c.AppURL != ""
}

// TelegramReady reports whether the telegram admin channel is configured.
func (c *Config) TelegramReady() bool {
	return c.TelegramToken != "" && c.TelegramAdminChatID != 0
}
