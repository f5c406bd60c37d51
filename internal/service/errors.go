package service

import "errors"

// Типизированные ошибки уровня сервисов. Транспорт по ним выбирает
// HTTP-статус; всё остальное считается недоступностью хранилища.
var (
	ErrNotFound     = errors.New("booking request not found")
	ErrSlotConflict = errors.New("slot is already taken")
	ErrUnauthorized = errors.New("unauthorized")
)
