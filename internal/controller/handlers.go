package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"github.com/Freeeeeet/massage_booking/internal/service"
	"go.uber.org/zap"
)

const defaultWindowDays = 7

type Handlers struct {
	bookings  *service.BookingService
	schedule  *service.ScheduleService
	decisions *service.DecisionService
	cleanup   *service.CleanupService
	admin     *service.AdminService
	pingStore func(ctx context.Context) error
	logger    *zap.Logger
}

func NewHandlers(
	bookings *service.BookingService,
	schedule *service.ScheduleService,
	decisions *service.DecisionService,
	cleanup *service.CleanupService,
	admin *service.AdminService,
	pingStore func(ctx context.Context) error,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		bookings:  bookings,
		schedule:  schedule,
		decisions: decisions,
		cleanup:   cleanup,
		admin:     admin,
		pingStore: pingStore,
		logger:    logger,
	}
}

// CreateBooking принимает заявку с публичной формы.
// POST /api/bookings
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var in model.CreateBookingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), &in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":        true,
		"bookingId": booking.ID,
	})
}

// Slots отдаёт окно занятости расписания.
// GET /api/bookings/slots?start=YYYY-MM-DD&days=N
func (h *Handlers) Slots(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse(model.DateLayout, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start must be YYYY-MM-DD."})
			return
		}
		start = parsed
	}

	days := defaultWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "days must be a number."})
			return
		}
		days = n
	}

	window, err := h.schedule.Slots(r.Context(), start, days)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"dates": window.Dates,
		"times": window.Times,
		"slots": window.Slots,
	})
}

// DecideByToken применяет решение по ссылке из письма.
// GET /api/decision?token=...&action=confirm|reject
func (h *Handlers) DecideByToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	action, ok := model.ParseAction(r.URL.Query().Get("action"))
	if token == "" || !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid link."})
		return
	}

	result, err := h.decisions.DecideByToken(r.Context(), token, action)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeDecision(w, result)
}

// AdminDecide применяет решение из админки.
// POST /api/admin/bookings/decision {key, id, action}
func (h *Handlers) AdminDecide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key    string `json:"key"`
		ID     string `json:"id"`
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	action, ok := model.ParseAction(body.Action)
	if body.ID == "" || !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Bad request."})
		return
	}

	result, err := h.decisions.DecideByAdmin(r.Context(), body.Key, body.ID, action)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeDecision(w, result)
}

// AdminList отдаёт все заявки.
// GET /api/admin/bookings?key=... (или заголовок X-Admin-Key)
func (h *Handlers) AdminList(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.admin.ListBookings(r.Context(), adminKey(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"list": bookings,
	})
}

// Cleanup — ручной запуск чистки старых заявок.
// GET /api/cron/cleanup?key=...
func (h *Handlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	deleted, cutoff, err := h.cleanup.RunAuthorized(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"deleted": deleted,
		"cutoff":  cutoff.UTC().Format(time.RFC3339),
	})
}

// Healthz — процесс жив.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Readyz — процесс готов принимать трафик (база отвечает).
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.pingStore(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Storage unavailable."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func writeDecision(w http.ResponseWriter, result *service.DecisionResult) {
	payload := map[string]interface{}{
		"ok":      true,
		"booking": result.Booking,
		"outcome": result.Outcome,
	}
	if result.Note != "" {
		payload["note"] = result.Note
	}
	writeJSON(w, http.StatusOK, payload)
}

func adminKey(r *http.Request) string {
	if key := r.Header.Get("X-Admin-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("key")
}
