package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"github.com/Freeeeeet/massage_booking/internal/service"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	OK     bool              `json:"ok"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError переводит сервисные ошибки в HTTP-статусы. Всё нераспознанное
// считается недоступностью хранилища.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "Validation failed.",
			Fields: verr.Fields,
		})
	case errors.Is(err, service.ErrSlotConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "This time slot is already taken."})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found."})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized."})
	default:
		logger.Error("Request failed on storage", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Storage unavailable."})
	}
}
