package model

import (
	"regexp"
	"strings"
)

const (
	maxNameLen  = 50
	minPhoneLen = 6
	maxPhoneLen = 30
)

// Принимаем только Gmail-адреса (как и просил заказчик).
var emailRegex = regexp.MustCompile(`(?i)^[^\s@]+@(gmail\.com|googlemail\.com)$`)

// CreateBookingInput is what a customer submits from the booking form.
type CreateBookingInput struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every field and returns a ValidationError naming all
// failing fields, or nil if the input is acceptable.
func (in *CreateBookingInput) Validate() *ValidationError {
	fields := make(map[string]string)

	if !IsValidDate(in.Date) {
		fields["date"] = "must be a valid date in YYYY-MM-DD form"
	}
	if !IsGridTime(in.Time) {
		fields["time"] = "must be one of the bookable times"
	}
	if name := strings.TrimSpace(in.Name); name == "" || len(name) > maxNameLen {
		fields["name"] = "must be non-empty, at most 50 characters"
	}
	if phone := strings.TrimSpace(in.Phone); len(phone) < minPhoneLen || len(phone) > maxPhoneLen {
		fields["phone"] = "must be 6 to 30 characters"
	}
	if !emailRegex.MatchString(in.Email) {
		fields["email"] = "only Gmail addresses are allowed"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
