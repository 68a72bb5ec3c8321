// Package migrations embeds the SQLite schema. Files are applied in name
// order and each version is recorded in schema_migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
