package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/app"
	"github.com/Freeeeeet/massage_booking/internal/config"
	"github.com/Freeeeeet/massage_booking/internal/controller"
	"github.com/Freeeeeet/massage_booking/internal/notifier"
	"github.com/Freeeeeet/massage_booking/internal/repository"
	"github.com/Freeeeeet/massage_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting booking server",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- База данных
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	_ = migrator.Close()

	bookingRepo := repository.NewBookingRepository(pool)

	// --- Каналы уведомлений (какие настроены, те и работают)
	channels := notifier.Multi{}
	if cfg.MailerReady() {
		sender := notifier.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail)
		channels = append(channels, notifier.NewEmailNotifier(sender, cfg.AdminEmail, cfg.AppURL, logger))
		logger.Info("Email notifications enabled", zap.String("admin", cfg.AdminEmail))
	} else {
		logger.Warn("Email notifications disabled: SMTP_HOST, FROM_EMAIL, ADMIN_EMAIL and APP_URL must all be set")
	}
	if cfg.TelegramReady() {
		tg, err := bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create telegram bot", zap.Error(err))
		}
		channels = append(channels, notifier.NewTelegramNotifier(tg, cfg.TelegramAdminChatID, cfg.AppURL, logger))
		logger.Info("Telegram notifications enabled", zap.Int64("chat_id", cfg.TelegramAdminChatID))
	}

	var events notifier.Notifier = channels
	if len(channels) == 0 {
		events = notifier.Noop{}
	}

	// --- Сервисы
	cleanupService := service.NewCleanupService(bookingRepo, cfg.CronSecret, logger)
	bookingService := service.NewBookingService(bookingRepo, events, logger)
	scheduleService := service.NewScheduleService(bookingRepo, cleanupService, logger)
	decisionService := service.NewDecisionService(bookingRepo, events, cfg.AdminSecret, logger)
	adminService := service.NewAdminService(bookingRepo, cfg.AdminSecret, logger)

	// --- Rate limiting публичной формы (опционально)
	var rateLimit func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		rateLimit = controller.NewRateLimiter(rdb, cfg.RateLimitPerMinute, logger).Middleware
		logger.Info("Rate limiting enabled",
			zap.String("redis", cfg.RedisAddr),
			zap.Int("per_minute", cfg.RateLimitPerMinute),
		)
	}

	handlers := controller.NewHandlers(
		bookingService,
		scheduleService,
		decisionService,
		cleanupService,
		adminService,
		bookingRepo.Ping,
		logger,
	)
	server := controller.NewServer(cfg.HTTPAddr, handlers, rateLimit, logger)

	// --- Фоновая чистка
	scheduler := app.NewScheduler(cleanupService, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
}
