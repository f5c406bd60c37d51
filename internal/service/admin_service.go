package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"go.uber.org/zap"
)

// AdminService отдаёт полный список заявок для админки.
type AdminService struct {
	store       BookingStore
	adminSecret string
	logger      *zap.Logger
}

func NewAdminService(store BookingStore, adminSecret string, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:       store,
		adminSecret: adminSecret,
		logger:      logger,
	}
}

// ListBookings возвращает все заявки, свежие первыми. Доступ закрыт общим
// секретом; без настроенного секрета путь закрыт совсем.
func (s *AdminService) ListBookings(ctx context.Context, secret string) ([]*model.BookingRequest, error) {
	if s.adminSecret == "" || secret != s.adminSecret {
		return nil, ErrUnauthorized
	}

	bookings, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
