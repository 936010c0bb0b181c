// Package migrations embeds goose SQL migrations for the record archive.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
