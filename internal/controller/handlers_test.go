package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"github.com/Freeeeeet/massage_booking/internal/notifier"
	"github.com/Freeeeeet/massage_booking/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	testAdminSecret = "admin-secret"
	testCronSecret  = "cron-secret"
)

// fakeStore — минимальная in-memory реализация service.BookingStore для
// хендлерных тестов.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]*model.BookingRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*model.BookingRequest)}
}

func (s *fakeStore) Create(ctx context.Context, b *model.BookingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	cp := *b
	s.records[b.ID] = &cp
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.records[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeStore) GetByToken(ctx context.Context, token string) (*model.BookingRequest, error) {
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

func (s *fakeStore) FindConflict(ctx context.Context, date, slotTime string, statuses []model.BookingStatus) (*model.BookingRequest, error) {
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

func (s *fakeStore) FindOccupied(ctx context.Context, dates []string) ([]*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inWindow := make(map[string]bool, len(dates))
	for _, d := range dates {
		inWindow[d] = true
	}
	var out []*model.BookingRequest
	for _, b := range s.records {
		if inWindow[b.Date] && (b.Status == model.BookingStatusPending || b.Status == model.BookingStatusConfirmed) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeStore) List(ctx context.Context) ([]*model.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.BookingRequest, 0, len(s.records))
	for _, b := range s.records {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) UpdateStatusIfPending(ctx context.Context, id string, status model.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.records[id]
	if !ok || b.Status != model.BookingStatusPending {
		return false, nil
	}
	b.Status = status
	return true, nil
}

func (s *fakeStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
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

func newTestRouter(store *fakeStore) chi.Router {
	logger := zap.NewNop()
	events := notifier.Noop{}

	cleanup := service.NewCleanupService(store, testCronSecret, logger)
	bookings := service.NewBookingService(store, events, logger)
	schedule := service.NewScheduleService(store, cleanup, logger)
	decisions := service.NewDecisionService(store, events, testAdminSecret, logger)
	admin := service.NewAdminService(store, testAdminSecret, logger)

	h := NewHandlers(bookings, schedule, decisions, cleanup, admin,
		func(ctx context.Context) error { return nil }, logger)

	return newRouter(h, nil, logger)
}

func doJSON(t *testing.T, router chi.Router, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, payload
}

func TestCreateBookingEndpoint(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store)

	rec, payload := doJSON(t, router, http.MethodPost, "/api/bookings",
		`{"date":"2024-06-01","time":"10:00","name":"Anna","phone":"+79001234567","email":"anna@gmail.com"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	id, _ := payload["bookingId"].(string)
	if id == "" {
		t.Fatal("expected bookingId in response")
	}
	if b, _ := store.GetByID(context.Background(), id); b == nil || b.Status != model.BookingStatusPending {
		t.Error("expected PENDING record in store")
	}
}

func TestCreateBookingEndpoint_Validation(t *testing.T) {
	router := newTestRouter(newFakeStore())

	rec, payload := doJSON(t, router, http.MethodPost, "/api/bookings",
		`{"date":"2024-06-01","time":"10:00","name":"Anna","phone":"+79001234567","email":"anna@yahoo.com"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields, _ := payload["fields"].(map[string]interface{})
	if _, ok := fields["email"]; !ok {
		t.Errorf("expected email in failing fields, got %v", payload)
	}
}

func TestCreateBookingEndpoint_Conflict(t *testing.T) {
	store := newFakeStore()
	store.Create(context.Background(), &model.BookingRequest{
		ID: "x", Date: "2024-06-01", Time: "10:00",
		Status: model.BookingStatusPending, DecisionToken: "tx",
	})
	router := newTestRouter(store)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/bookings",
		`{"date":"2024-06-01","time":"10:00","name":"Anna","phone":"+79001234567","email":"anna@gmail.com"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSlotsEndpoint(t *testing.T) {
	store := newFakeStore()
	store.Create(context.Background(), &model.BookingRequest{
		ID: "x", Date: "2024-06-01", Time: "11:00",
		Status: model.BookingStatusConfirmed, DecisionToken: "tx",
	})
	router := newTestRouter(store)

	rec, payload := doJSON(t, router, http.MethodGet, "/api/bookings/slots?start=2024-06-01&days=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	dates, _ := payload["dates"].([]interface{})
	if len(dates) != 2 {
		t.Errorf("expected 2 dates, got %v", dates)
	}
	slots, _ := payload["slots"].(map[string]interface{})
	day, _ := slots["2024-06-01"].(map[string]interface{})
	if day["11:00"] != "CONFIRMED" {
		t.Errorf("expected CONFIRMED at 11:00, got %v", day)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/bookings/slots?start=yesterday", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed start, got %d", rec.Code)
	}
}

func TestDecisionEndpoint_Token(t *testing.T) {
	store := newFakeStore()
	store.Create(context.Background(), &model.BookingRequest{
		ID: "b1", Date: "2024-06-01", Time: "10:00", Email: "anna@gmail.com",
		Status: model.BookingStatusPending, DecisionToken: "tok1",
	})
	router := newTestRouter(store)

	rec, payload := doJSON(t, router, http.MethodGet, "/api/decision?token=tok1&action=confirm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["outcome"] != "confirmed" {
		t.Errorf("expected confirmed outcome, got %v", payload["outcome"])
	}

	// Повторный клик по той же ссылке — идемпотентный ответ.
	rec, payload = doJSON(t, router, http.MethodGet, "/api/decision?token=tok1&action=confirm", "")
	if rec.Code != http.StatusOK || payload["outcome"] != "already_processed" {
		t.Errorf("expected idempotent already_processed, got %d %v", rec.Code, payload["outcome"])
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/decision?token=unknown&action=confirm", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown token, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/decision?token=tok1&action=destroy", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad action, got %d", rec.Code)
	}
}

func TestDecisionEndpoint_Admin(t *testing.T) {
	store := newFakeStore()
	store.Create(context.Background(), &model.BookingRequest{
		ID: "b1", Date: "2024-06-01", Time: "10:00", Email: "anna@gmail.com",
		Status: model.BookingStatusPending, DecisionToken: "tok1",
	})
	router := newTestRouter(store)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/admin/bookings/decision",
		`{"key":"wrong","id":"b1","action":"reject"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong key, got %d", rec.Code)
	}

	rec, payload := doJSON(t, router, http.MethodPost, "/api/admin/bookings/decision",
		`{"key":"`+testAdminSecret+`","id":"b1","action":"reject"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["outcome"] != "rejected" {
		t.Errorf("expected rejected outcome, got %v", payload["outcome"])
	}
}

func TestAdminListEndpoint(t *testing.T) {
	store := newFakeStore()
	store.Create(context.Background(), &model.BookingRequest{
		ID: "b1", Date: "2024-06-01", Time: "10:00",
		Status: model.BookingStatusPending, DecisionToken: "tok1",
	})
	router := newTestRouter(store)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/admin/bookings", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	rec, payload := doJSON(t, router, http.MethodGet, "/api/admin/bookings?key="+testAdminSecret, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	list, _ := payload["list"].([]interface{})
	if len(list) != 1 {
		t.Errorf("expected 1 booking in list, got %d", len(list))
	}
}

func TestCleanupEndpoint(t *testing.T) {
	store := newFakeStore()
	store.Create(context.Background(), &model.BookingRequest{
		ID: "old", Date: "2023-01-01", Time: "10:00",
		Status: model.BookingStatusRejected, DecisionToken: "told",
		CreatedAt: time.Now().Add(-40 * 24 * time.Hour),
	})
	router := newTestRouter(store)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/cron/cleanup?key=wrong", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong key, got %d", rec.Code)
	}

	rec, payload := doJSON(t, router, http.MethodGet, "/api/cron/cleanup?key="+testCronSecret, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted, _ := payload["deleted"].(float64); deleted != 1 {
		t.Errorf("expected 1 deleted, got %v", payload["deleted"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(newFakeStore())

	rec, _ := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("readyz: expected 200, got %d", rec.Code)
	}
}
