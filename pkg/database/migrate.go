package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations live under migrations/ as 0001_name.up.sql / 0001_name.down.sql.
var migrationFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.(up|down)\.sql$`)

type migration struct {
	version  int
	name     string
	upFile   string
	downFile string
}

// Migrate applies every pending up migration in version order.
func Migrate(ctx context.Context, db PgxIface) error {
	migs, err := loadMigrations(migrationsFS)
	if err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migs {
		if applied[m.version] {
			continue
		}
		if m.upFile == "" {
			return fmt.Errorf("missing up migration for version %04d", m.version)
		}

		script, err := migrationsFS.ReadFile(m.upFile)
		if err != nil {
			return fmt.Errorf("read migration %04d: %w", m.version, err)
		}

		err = runScript(ctx, db, string(script),
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name)
		if err != nil {
			return fmt.Errorf("migration %04d_%s failed: %w", m.version, m.name, err)
		}
	}

	return nil
}

// RollbackLast reverts the most recently applied migration.
func RollbackLast(ctx context.Context, db PgxIface) error {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return err
	}

	var version int
	err := db.QueryRow(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find last migration: %w", err)
	}

	migs, err := loadMigrations(migrationsFS)
	if err != nil {
		return err
	}

	m, err := findDownMigration(migs, version)
	if err != nil {
		return err
	}

	script, err := migrationsFS.ReadFile(m.downFile)
	if err != nil {
		return fmt.Errorf("read migration %04d: %w", version, err)
	}

	return runScript(ctx, db, string(script),
		`DELETE FROM schema_migrations WHERE version = $1`, version)
}

func findDownMigration(migs []migration, version int) (migration, error) {
	for _, m := range migs {
		if m.version == version && m.downFile != "" {
			return m, nil
		}
	}
	return migration{}, fmt.Errorf("no down migration found for version %04d", version)
}

func runScript(ctx context.Context, db PgxIface, script, bookkeeping string, args ...any) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, script); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, bookkeeping, args...); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	byVersion := map[int]migration{}
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		match := migrationFileRe.FindStringSubmatch(de.Name())
		if match == nil {
			continue
		}

		version, _ := strconv.Atoi(match[1])
		m := byVersion[version]
		m.version = version
		m.name = match[2]

		path := "migrations/" + de.Name()
		if match[3] == "up" {
			m.upFile = path
		} else {
			m.downFile = path
		}
		byVersion[version] = m
	}

	migs := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		migs = append(migs, m)
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].version < migs[j].version })

	return migs, nil
}

func ensureMigrationsTable(ctx context.Context, db PgxIface) error {
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func appliedVersions(ctx context.Context, db PgxIface) (map[int]bool, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}

	return applied, rows.Err()
}
