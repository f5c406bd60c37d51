package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"   // Ожидает решения администратора
	BookingStatusConfirmed BookingStatus = "CONFIRMED" // Подтверждено
	BookingStatusRejected  BookingStatus = "REJECTED"  // Отклонено
)

// BookingRequest is a customer's request for one slot of the schedule grid.
// Created as PENDING, resolved exactly once to CONFIRMED or REJECTED.
type BookingRequest struct {
	ID            string        `json:"id"`
	Date          string        `json:"date"` // YYYY-MM-DD
	Time          string        `json:"time"` // HH:MM, one of TimeGrid()
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	Status        BookingStatus `json:"status"`
	DecisionToken string        `json:"-"` // секрет для ссылки решения, наружу не отдаём
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsPending checks if the request still awaits a decision
func (b *BookingRequest) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsTerminal checks if the request already received a decision
func (b *BookingRequest) IsTerminal() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusRejected
}

type DecisionAction string

const (
	ActionConfirm DecisionAction = "confirm"
	ActionReject  DecisionAction = "reject"
)

// ParseAction validates an action string coming from a decision link or an admin call.
func ParseAction(s string) (DecisionAction, bool) {
	switch DecisionAction(s) {
	case ActionConfirm, ActionReject:
		return DecisionAction(s), true
	}
	return "", false
}
