package db

import "embed"

// MigrationFS embeds the SQL migration files from internal/db/migrations so
// cmd/migrate and the migrate runner work from a single binary.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
