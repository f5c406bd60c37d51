package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"github.com/Freeeeeet/massage_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, date, time, name, phone, email, status, decision_token, created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую заявку на бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.BookingRequest) error {
	query := `
		INSERT INTO booking_requests (id, date, time, name, phone, email, status, decision_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.Date,
		booking.Time,
		booking.Name,
		booking.Phone,
		booking.Email,
		booking.Status,
		booking.DecisionToken,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking request: %w", err)
	}

	return nil
}

// GetByID получает заявку по ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM booking_requests
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetByToken получает заявку по секретному токену решения
func (r *BookingRepository) GetByToken(ctx context.Context, token string) (*model.BookingRequest, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM booking_requests
		WHERE decision_token = $1
	`
	return r.scanOne(ctx, query, token)
}

// FindConflict получает заявку, занимающую слот (date, time) в одном из статусов
func (r *BookingRepository) FindConflict(ctx context.Context, date, slotTime string, statuses []model.BookingStatus) (*model.BookingRequest, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM booking_requests
		WHERE date = $1 AND time = $2 AND status = ANY($3)
		LIMIT 1
	`
	return r.scanOne(ctx, query, date, slotTime, statusStrings(statuses))
}

// FindOccupied получает все занимающие слоты заявки (PENDING или CONFIRMED) в окне дат
func (r *BookingRepository) FindOccupied(ctx context.Context, dates []string) ([]*model.BookingRequest, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM booking_requests
		WHERE date = ANY($1) AND status = ANY($2)
	`

	occupying := statusStrings([]model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed})
	rows, err := r.Query(ctx, query, dates, occupying)
	if err != nil {
		return nil, fmt.Errorf("find occupied slots: %w", err)
	}
	defer rows.Close()

	var bookings []*model.BookingRequest
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan booking request: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// List получает все заявки для админки, свежие даты первыми
func (r *BookingRepository) List(ctx context.Context) ([]*model.BookingRequest, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM booking_requests
		ORDER BY date DESC, time DESC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list booking requests: %w", err)
	}
	defer rows.Close()

	var bookings []*model.BookingRequest
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan booking request: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// UpdateStatusIfPending переводит заявку в терминальный статус условно:
// обновление проходит только если заявка всё ещё PENDING. Возвращает false,
// если конкурирующее решение успело закоммититься первым.
func (r *BookingRepository) UpdateStatusIfPending(ctx context.Context, id string, status model.BookingStatus) (bool, error) {
	query := `
		UPDATE booking_requests
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = 'PENDING'
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return affected > 0, nil
}

// DeleteOlderThan удаляет все заявки старше cutoff независимо от статуса
func (r *BookingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM booking_requests
		WHERE created_at < $1
	`

	deleted, err := r.ExecAffected(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old booking requests: %w", err)
	}

	return deleted, nil
}

func (r *BookingRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*model.BookingRequest, error) {
	booking, err := scanBooking(r.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking request: %w", err)
	}
	return booking, nil
}

func scanBooking(scan func(dest ...interface{}) error) (*model.BookingRequest, error) {
	var booking model.BookingRequest
	err := scan(
		&booking.ID,
		&booking.Date,
		&booking.Time,
		&booking.Name,
		&booking.Phone,
		&booking.Email,
		&booking.Status,
		&booking.DecisionToken,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func statusStrings(statuses []model.BookingStatus) []string {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	return ss
}
