package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"github.com/Freeeeeet/massage_booking/internal/notifier"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// occupyingStatuses занимают слот: жёлтая (PENDING) и красная (CONFIRMED) клетки.
var occupyingStatuses = []model.BookingStatus{
	model.BookingStatusPending,
	model.BookingStatusConfirmed,
}

type BookingService struct {
	store    BookingStore
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewBookingService(store BookingStore, n notifier.Notifier, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:    store,
		notifier: n,
		logger:   logger,
	}
}

// CreateBooking принимает заявку: валидация, проверка занятости слота,
// запись PENDING-заявки со свежим токеном решения.
//
// Проверка занятости здесь best-effort: между ней и INSERT другая заявка
// может успеть записаться. Это допустимо — инвариант "не больше одного
// CONFIRMED на слот" окончательно обеспечивает DecisionService при
// подтверждении, а не эта проверка.
func (s *BookingService) CreateBooking(ctx context.Context, in *model.CreateBookingInput) (*model.BookingRequest, error) {
	if verr := in.Validate(); verr != nil {
		return nil, verr
	}

	conflict, err := s.store.FindConflict(ctx, in.Date, in.Time, occupyingStatuses)
	if err != nil {
		return nil, fmt.Errorf("check slot occupancy: %w", err)
	}
	if conflict != nil {
		return nil, ErrSlotConflict
	}

	token, err := newDecisionToken()
	if err != nil {
		return nil, err
	}

	booking := &model.BookingRequest{
		ID:            uuid.NewString(),
		Date:          in.Date,
		Time:          in.Time,
		Name:          in.Name,
		Phone:         in.Phone,
		Email:         in.Email,
		Status:        model.BookingStatusPending,
		DecisionToken: token,
	}

	if err := s.store.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking request created",
		zap.String("booking_id", booking.ID),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time),
	)

	// Уведомление не влияет на результат: заявка уже записана.
	s.notifier.BookingCreated(ctx, booking)

	return booking, nil
}
