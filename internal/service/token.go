package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newDecisionToken генерирует секрет для ссылки решения: 24 случайных байта
// в hex (48 символов). Уникальность дополнительно гарантирует индекс в БД.
func newDecisionToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate decision token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
