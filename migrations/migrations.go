// Package migrations содержит встроенные goose-миграции схемы.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
