package notifier

import (
	"context"

	"github.com/Freeeeeet/massage_booking/internal/model"
)

// Notifier is a one-way channel for booking events. Implementations log
// their own failures; callers never learn about them — by the time an event
// is fired the state change has already committed.
type Notifier interface {
	// BookingCreated fires after a new request is admitted as PENDING.
	BookingCreated(ctx context.Context, booking *model.BookingRequest)
	// BookingDecided fires after a request reached a terminal status.
	BookingDecided(ctx context.Context, booking *model.BookingRequest)
}

// Multi рассылает событие по всем каналам.
type Multi []Notifier

func (m Multi) BookingCreated(ctx context.Context, booking *model.BookingRequest) {
	for _, n := range m {
		n.BookingCreated(ctx, booking)
	}
}

func (m Multi) BookingDecided(ctx context.Context, booking *model.BookingRequest) {
	for _, n := range m {
		n.BookingDecided(ctx, booking)
	}
}

// Noop используется когда ни один канал не настроен.
type Noop struct{}

func (Noop) BookingCreated(context.Context, *model.BookingRequest) {}
func (Noop) BookingDecided(context.Context, *model.BookingRequest) {}
