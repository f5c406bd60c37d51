package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetentionDays — горизонт хранения заявок; всё старше удаляется
// независимо от статуса.
const RetentionDays = 30

// CleanupService удаляет устаревшие заявки. Запускается лениво перед чтением
// расписания, по тикеру и вручную через защищённый эндпоинт; все три пути
// идемпотентны.
type CleanupService struct {
	store      BookingStore
	cronSecret string
	logger     *zap.Logger
}

func NewCleanupService(store BookingStore, cronSecret string, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		store:      store,
		cronSecret: cronSecret,
		logger:     logger,
	}
}

// Run удаляет все заявки старше горизонта, возвращает количество и cutoff.
func (s *CleanupService) Run(ctx context.Context) (int64, time.Time, error) {
	cutoff := time.Now().Add(-RetentionDays * 24 * time.Hour)

	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, cutoff, fmt.Errorf("retention sweep: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("Retention sweep removed old bookings",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}

	return deleted, cutoff, nil
}

// RunAuthorized — ручной запуск чистки, закрытый отдельным секретом.
func (s *CleanupService) RunAuthorized(ctx context.Context, secret string) (int64, time.Time, error) {
	if s.cronSecret == "" || secret != s.cronSecret {
		return 0, time.Time{}, ErrUnauthorized
	}
	return s.Run(ctx)
}
