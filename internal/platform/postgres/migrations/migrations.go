// Package migrations embeds the goose SQL migrations for the PostgreSQL schema.
package migrations

import "embed"

// Migrations holds every *.sql migration, applied in filename order.
//
//go:embed *.sql
var Migrations embed.FS
