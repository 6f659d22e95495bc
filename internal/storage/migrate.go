package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// schemaVersions records which kv migrations a database has seen, so an
// existing list database is never re-created underneath its data.
const schemaVersions = `CREATE TABLE IF NOT EXISTS kv_schema_versions (
	name TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// MigrateUp applies the kv migrations the database has not recorded yet, in
// name order, and returns the names it applied.
func MigrateUp(ctx context.Context, db *sql.DB) ([]string, error) {
	done, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	names, err := migrationNames(".up.sql")
	if err != nil {
		return nil, err
	}
	var applied []string
	for _, name := range names {
		if done[name] {
			continue
		}
		if err := runMigration(ctx, db, name, ".up.sql", func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO kv_schema_versions(name, applied_at) VALUES(?, ?)`,
				name, time.Now().UTC().Format(sqliteTimeLayout))
			return err
		}); err != nil {
			return applied, err
		}
		applied = append(applied, name)
	}
	return applied, nil
}

// MigrateDown reverts recorded migrations, newest first, and returns the
// names it reverted.
func MigrateDown(ctx context.Context, db *sql.DB) ([]string, error) {
	done, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	names, err := migrationNames(".down.sql")
	if err != nil {
		return nil, err
	}
	var reverted []string
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		if !done[name] {
			continue
		}
		if err := runMigration(ctx, db, name, ".down.sql", func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `DELETE FROM kv_schema_versions WHERE name = ?`, name)
			return err
		}); err != nil {
			return reverted, err
		}
		reverted = append(reverted, name)
	}
	return reverted, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	if _, err := db.ExecContext(ctx, schemaVersions); err != nil {
		return nil, fmt.Errorf("create schema versions: %w", err)
	}
	rows, err := db.QueryContext(ctx, `SELECT name FROM kv_schema_versions`)
	if err != nil {
		return nil, fmt.Errorf("read schema versions: %w", err)
	}
	defer rows.Close()
	done := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("read schema versions: %w", err)
		}
		done[name] = true
	}
	return done, rows.Err()
}

// migrationNames lists migrations by their bare name, "0001_kv" for
// "migrations/0001_kv.up.sql".
func migrationNames(suffix string) ([]string, error) {
	files, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(path.Base(f), suffix))
	}
	sort.Strings(names)
	return names, nil
}

func runMigration(ctx context.Context, db *sql.DB, name, suffix string, record func(*sql.Tx) error) error {
	body, err := migrationFiles.ReadFile("migrations/" + name + suffix)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s%s: %w", name, suffix, err)
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}
