package migrations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

// Dialect directory names inside a migrations filesystem.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Bookkeeping tables used by the bun migrator.
const (
	TableName      = "xlist_migrations"
	LocksTableName = "xlist_migration_locks"
)

// DialectDir maps a bun dialect to the directory holding its migrations.
func DialectDir(db *bun.DB) (string, error) {
	if db == nil {
		return "", errors.New("migrations: db required")
	}
	switch db.Dialect().Name() {
	case dialect.PG:
		return DialectPostgres, nil
	case dialect.SQLite:
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %s", db.Dialect().Name())
	}
}

// Apply runs every pending migration for the database dialect through the
// bun migrator. When no filesystem is supplied the registered ones are used.
// Files follow bun's naming (<version>_<name>.tx.up.sql) and are recorded in
// xlist_migrations, so Apply is safe to call on every start. It returns the
// names of the migrations applied.
func Apply(ctx context.Context, db *bun.DB, fsyss ...fs.FS) ([]string, error) {
	dir, err := DialectDir(db)
	if err != nil {
		return nil, err
	}
	if len(fsyss) == 0 {
		fsyss = Filesystems()
	}

	found, err := discover(dir, fsyss)
	if err != nil {
		return nil, err
	}
	migrator := migrate.NewMigrator(db, found,
		migrate.WithTableName(TableName),
		migrate.WithLocksTableName(LocksTableName),
		migrate.WithMarkAppliedOnSuccess(true),
	)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("migrations: init: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Migrate(ctx)
	ran := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		ran = append(ran, m.String())
	}
	if err != nil {
		// the failing migration is the last in the group and was not recorded
		return ran[:max(len(ran)-1, 0)], fmt.Errorf("migrations: %w", err)
	}
	return ran, nil
}

func discover(dir string, fsyss []fs.FS) (*migrate.Migrations, error) {
	found := migrate.NewMigrations()
	for _, fsys := range fsyss {
		if _, err := fs.Stat(fsys, dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			return nil, err
		}
		if err := found.Discover(sub); err != nil {
			return nil, fmt.Errorf("migrations: discover %s: %w", dir, err)
		}
	}
	return found, nil
}
