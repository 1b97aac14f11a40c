// Package migrations embeds the schema migration files so they compile into
// the service binary.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
