// Package migrations embeds the schema migrations applied on startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
