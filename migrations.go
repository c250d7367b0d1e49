package xlist

import (
	"embed"
	"io/fs"
)

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// The migrations are organized per dialect:
//   - data/sql/migrations/postgres/*.sql
//   - data/sql/migrations/sqlite/*.sql
//
// migrations.Apply picks the directory matching the bun dialect.
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// GetMigrationsFS returns the migration tree rooted at data/sql/migrations so
// runners see the dialect directories at the top level.
func GetMigrationsFS() fs.FS {
	sub, err := fs.Sub(MigrationsFS, "data/sql/migrations")
	if err != nil {
		return MigrationsFS
	}
	return sub
}
