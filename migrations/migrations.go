// AngelaMos | 2026
// migrations.go

// Package migrations embeds the SQL schema migrations that are applied
// on startup.
package migrations

import (
	"embed"
)

//go:embed *.sql
var Files embed.FS
