package model

import (
	"fmt"
	"time"
)

// Рабочая сетка: почасовые слоты с 10:00 до 20:00 включительно.
const (
	GridStartHour = 10
	GridEndHour   = 20

	// MaxWindowDays ограничивает окно расписания, запрашиваемое за один раз.
	MaxWindowDays = 14

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// SlotStatus is the state of one (date, time) cell of the schedule grid.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "AVAILABLE"
	SlotStatusPending   SlotStatus = "PENDING"
	SlotStatusConfirmed SlotStatus = "CONFIRMED"
)

// TimeGrid returns the fixed list of bookable times of day, in order.
func TimeGrid() []string {
	times := make([]string, 0, GridEndHour-GridStartHour+1)
	for h := GridStartHour; h <= GridEndHour; h++ {
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}

// IsGridTime checks if a time string is one of the bookable grid times.
func IsGridTime(t string) bool {
	for _, g := range TimeGrid() {
		if g == t {
			return true
		}
	}
	return false
}

// IsValidDate checks the YYYY-MM-DD shape.
func IsValidDate(d string) bool {
	_, err := time.Parse(DateLayout, d)
	return err == nil && len(d) == len(DateLayout)
}

// DateWindow returns dayCount consecutive dates starting from start.
func DateWindow(start time.Time, dayCount int) []string {
	dates := make([]string, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}
