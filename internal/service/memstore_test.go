package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/model"
)

// memStore — потокобезопасная in-memory реализация BookingStore с той же
// семантикой условной записи, что и у Postgres-репозитория.
type memStore struct {
	mu      sync.Mutex
	records map[string]*model.BookingRequest
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*model.BookingRequest)}
}

func (s *memStore) Create(ctx context.Context, booking *model.BookingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	cp := *booking
	s.records[booking.ID] = &cp
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.records[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) GetByToken(ctx context.Context, token string) (*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.records {
		if b.DecisionToken == token {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindConflict(ctx context.Context, date, slotTime string, statuses []model.BookingStatus) (*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.records {
		if b.Date != date || b.Time != slotTime {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				cp := *b
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (s *memStore) FindOccupied(ctx context.Context, dates []string) ([]*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inWindow := make(map[string]bool, len(dates))
	for _, d := range dates {
		inWindow[d] = true
	}

	var out []*model.BookingRequest
	for _, b := range s.records {
		if !inWindow[b.Date] {
			continue
		}
		if b.Status == model.BookingStatusPending || b.Status == model.BookingStatusConfirmed {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) List(ctx context.Context) ([]*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.BookingRequest, 0, len(s.records))
	for _, b := range s.records {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) UpdateStatusIfPending(ctx context.Context, id string, status model.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.records[id]
	if !ok || b.Status != model.BookingStatusPending {
		return false, nil
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return true, nil
}

func (s *memStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, b := range s.records {
		if b.CreatedAt.Before(cutoff) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// statusCounts возвращает количество записей по статусам для слота.
func (s *memStore) statusCounts(date, slotTime string) map[model.BookingStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[model.BookingStatus]int)
	for _, b := range s.records {
		if b.Date == date && b.Time == slotTime {
			counts[b.Status]++
		}
	}
	return counts
}

// spyNotifier запоминает события, чтобы тесты проверяли их отправку.
type spyNotifier struct {
	mu      sync.Mutex
	created []*model.BookingRequest
	decided []*model.BookingRequest
}

func (n *spyNotifier) BookingCreated(ctx context.Context, booking *model.BookingRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := *booking
	n.created = append(n.created, &cp)
}

func (n *spyNotifier) BookingDecided(ctx context.Context, booking *model.BookingRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := *booking
	n.decided = append(n.decided, &cp)
}
