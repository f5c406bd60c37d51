package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/service"
	"go.uber.org/zap"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cleanupService *service.CleanupService
	logger         *zap.Logger
	stopChan       chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(cleanupService *service.CleanupService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cleanupService: cleanupService,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runRetentionTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runRetentionTask периодически удаляет заявки старше горизонта хранения.
// Та же чистка запускается лениво перед чтением расписания, поэтому тикер
// здесь только страховка для простаивающего сервиса.
func (s *Scheduler) runRetentionTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Retention task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Retention task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	deleted, cutoff, err := s.cleanupService.Run(ctx)
	if err != nil {
		s.logger.Error("Scheduled retention sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled retention sweep completed",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
}
