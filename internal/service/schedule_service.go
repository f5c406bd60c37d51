package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"go.uber.org/zap"
)

// ScheduleWindow is the occupancy view over a window of dates and the fixed
// time grid. Slots holds only occupied cells; everything else is available.
type ScheduleWindow struct {
	Dates []string                               `json:"dates"`
	Times []string                               `json:"times"`
	Slots map[string]map[string]model.SlotStatus `json:"slots"`
}

// StatusAt returns the state of one cell of the window.
func (w *ScheduleWindow) StatusAt(date, slotTime string) model.SlotStatus {
	if day, ok := w.Slots[date]; ok {
		if st, ok := day[slotTime]; ok {
			return st
		}
	}
	return model.SlotStatusAvailable
}

type ScheduleService struct {
	store   BookingStore
	cleanup *CleanupService
	logger  *zap.Logger
}

func NewScheduleService(store BookingStore, cleanup *CleanupService, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		store:   store,
		cleanup: cleanup,
		logger:  logger,
	}
}

// Slots строит окно занятости от start на dayCount дней (не больше 14).
// Перед чтением лениво запускает чистку старых заявок; её ошибка не мешает
// ответу.
func (s *ScheduleService) Slots(ctx context.Context, start time.Time, dayCount int) (*ScheduleWindow, error) {
	if dayCount < 1 {
		dayCount = 1
	}
	if dayCount > model.MaxWindowDays {
		dayCount = model.MaxWindowDays
	}

	if _, _, err := s.cleanup.Run(ctx); err != nil {
		s.logger.Warn("Lazy retention sweep failed, ignored", zap.Error(err))
	}

	dates := model.DateWindow(start, dayCount)

	occupied, err := s.store.FindOccupied(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("load occupied slots: %w", err)
	}

	slots := make(map[string]map[string]model.SlotStatus, len(dates))
	for _, d := range dates {
		slots[d] = make(map[string]model.SlotStatus)
	}

	for _, b := range occupied {
		day, ok := slots[b.Date]
		if !ok {
			// Заявка вне окна сюда не попадает по запросу, но перестрахуемся.
			continue
		}
		day[b.Time] = model.SlotStatus(b.Status)
	}

	return &ScheduleWindow{
		Dates: dates,
		Times: model.TimeGrid(),
		Slots: slots,
	}, nil
}
