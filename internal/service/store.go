package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/model"
)

// BookingStore is the record store as the services need it. Implemented by
// repository.BookingRepository; tests substitute an in-memory store.
//
// Мутации одной записи выражаются условным обновлением по ожидаемому
// статусу, чтобы конкурирующие решения не теряли друг друга.
type BookingStore interface {
	Create(ctx context.Context, booking *model.BookingRequest) error
	GetByID(ctx context.Context, id string) (*model.BookingRequest, error)
	GetByToken(ctx context.Context, token string) (*model.BookingRequest, error)
	FindConflict(ctx context.Context, date, slotTime string, statuses []model.BookingStatus) (*model.BookingRequest, error)
	FindOccupied(ctx context.Context, dates []string) ([]*model.BookingRequest, error)
	List(ctx context.Context) ([]*model.BookingRequest, error)
	UpdateStatusIfPending(ctx context.Context, id string, status model.BookingStatus) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
