package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"github.com/Freeeeeet/massage_booking/internal/notifier"
	"go.uber.org/zap"
)

type DecisionOutcome string

const (
	OutcomeConfirmed        DecisionOutcome = "confirmed"
	OutcomeRejected         DecisionOutcome = "rejected"
	OutcomeAlreadyProcessed DecisionOutcome = "already_processed"
	OutcomeAutoRejected     DecisionOutcome = "auto_rejected"
)

// DecisionResult is what a decision call reports back: the record after the
// call and how the requested action actually resolved.
type DecisionResult struct {
	Booking *model.BookingRequest `json:"booking"`
	Outcome DecisionOutcome       `json:"outcome"`
	Note    string                `json:"note,omitempty"`
}

// DecisionService применяет confirm/reject к PENDING-заявке. Это
// авторитетная точка дедупликации: перед подтверждением заново проверяется
// занятость слота, а сама запись мутируется условным обновлением.
type DecisionService struct {
	store       BookingStore
	notifier    notifier.Notifier
	adminSecret string
	logger      *zap.Logger
}

func NewDecisionService(store BookingStore, n notifier.Notifier, adminSecret string, logger *zap.Logger) *DecisionService {
	return &DecisionService{
		store:       store,
		notifier:    n,
		adminSecret: adminSecret,
		logger:      logger,
	}
}

// DecideByToken применяет решение по токену из письма. Токен сам по себе
// является авторизацией, логина на этом пути нет.
func (s *DecisionService) DecideByToken(ctx context.Context, token string, action model.DecisionAction) (*DecisionResult, error) {
	booking, err := s.store.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup by token: %w", err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}

	return s.decide(ctx, booking, action)
}

// DecideByAdmin применяет решение из админки: запись ищется по id,
// авторизация общим секретом. Без настроенного секрета путь закрыт.
func (s *DecisionService) DecideByAdmin(ctx context.Context, secret, id string, action model.DecisionAction) (*DecisionResult, error) {
	if s.adminSecret == "" || secret != s.adminSecret {
		return nil, ErrUnauthorized
	}

	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup by id: %w", err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}

	return s.decide(ctx, booking, action)
}

func (s *DecisionService) decide(ctx context.Context, booking *model.BookingRequest, action model.DecisionAction) (*DecisionResult, error) {
	// Повторное решение по терминальной заявке — no-op, не ошибка.
	if !booking.IsPending() {
		return &DecisionResult{
			Booking: booking,
			Outcome: OutcomeAlreadyProcessed,
			Note:    "Already processed",
		}, nil
	}

	newStatus := model.BookingStatusRejected
	outcome := OutcomeRejected
	note := ""

	if action == model.ActionConfirm {
		newStatus = model.BookingStatusConfirmed
		outcome = OutcomeConfirmed

		// Две заявки на один слот могли обе пройти приём как PENDING.
		// Если слот уже кем-то подтверждён, эта заявка проигрывает гонку
		// и отклоняется автоматически.
		conflict, err := s.store.FindConflict(ctx, booking.Date, booking.Time,
			[]model.BookingStatus{model.BookingStatusConfirmed})
		if err != nil {
			return nil, fmt.Errorf("recheck slot occupancy: %w", err)
		}
		if conflict != nil {
			newStatus = model.BookingStatusRejected
			outcome = OutcomeAutoRejected
			note = "Conflict existed, auto-rejected"
		}
	}

	// Условная запись закрывает остаточную гонку между перечитыванием выше
	// и этим обновлением: коммитится только первое решение.
	updated, err := s.store.UpdateStatusIfPending(ctx, booking.ID, newStatus)
	if err != nil {
		return nil, fmt.Errorf("apply decision: %w", err)
	}
	if !updated {
		current, err := s.store.GetByID(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("reload booking: %w", err)
		}
		if current == nil {
			return nil, ErrNotFound
		}
		return &DecisionResult{
			Booking: current,
			Outcome: OutcomeAlreadyProcessed,
			Note:    "Already processed",
		}, nil
	}

	booking.Status = newStatus

	s.logger.Info("Booking decision applied",
		zap.String("booking_id", booking.ID),
		zap.String("status", string(newStatus)),
		zap.String("outcome", string(outcome)),
	)

	// Статус уже закоммичен; судьба письма на него не влияет.
	s.notifier.BookingDecided(ctx, booking)

	return &DecisionResult{
		Booking: booking,
		Outcome: outcome,
		Note:    note,
	}, nil
}
