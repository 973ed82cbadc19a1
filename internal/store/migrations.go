package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	sql     string
}

func (m migration) String() string {
	return fmt.Sprintf("%03d_%s", m.version, m.name)
}

// schemaProbe reports whether a migration's effect is already present in a
// database that predates schema_migrations.
type schemaProbe func(ctx context.Context, db *sql.DB) (bool, error)

var schemaProbes = map[int]schemaProbe{
	1: func(ctx context.Context, db *sql.DB) (bool, error) {
		return tableExists(ctx, db, "kv")
	},
	2: func(ctx context.Context, db *sql.DB) (bool, error) {
		return columnExists(db, "kv", "updated_at")
	},
}

// runMigrations brings db up to the newest embedded schema version.
func runMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	pending, err := loadMigrations(migrationsFS)
	if err != nil {
		return err
	}

	applied, err := appliedMigrationVersions(ctx, db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		if applied, err = adoptExistingSchema(ctx, db, pending); err != nil {
			return err
		}
	}

	for _, m := range pending {
		if applied[m.version] {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
		log.WithField("migration", m.String()).Info("applied schema migration")
	}
	return nil
}

// loadMigrations reads <version>_<name>.sql files from fsys in version order.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	out := make([]migration, 0, len(files))
	byVersion := make(map[int]string, len(files))
	for _, file := range files {
		filename := path.Base(file)
		version, name, err := parseMigrationFilename(filename)
		if err != nil {
			return nil, err
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, prev, filename)
		}
		byVersion[version] = filename

		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}
		out = append(out, migration{version: version, name: name, sql: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func parseMigrationFilename(filename string) (int, string, error) {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	prefix, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: expected '<version>_<name>.sql'", filename)
	}

	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid migration version in %q: %w", filename, err)
	}
	return version, name, nil
}

func appliedMigrationVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	versions := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions[v] = true
	}
	return versions, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", m, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", m, err)
	}
	if err := recordMigration(ctx, tx, m); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", m, err)
	}
	return nil
}

func recordMigration(ctx context.Context, tx *sql.Tx, m migration) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m, err)
	}
	return nil
}

// adoptExistingSchema marks as applied the leading migrations whose effect is
// already present, for databases created before schema_migrations existed.
// It stops at the first migration that is missing or has no probe.
func adoptExistingSchema(ctx context.Context, db *sql.DB, all []migration) (map[int]bool, error) {
	adopted := make(map[int]bool)
	var present []migration
	for _, m := range all {
		probe, ok := schemaProbes[m.version]
		if !ok {
			break
		}
		found, err := probe(ctx, db)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		present = append(present, m)
	}
	if len(present) == 0 {
		return adopted, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin schema adoption: %w", err)
	}
	defer tx.Rollback()

	for _, m := range present {
		if err := recordMigration(ctx, tx, m); err != nil {
			return nil, err
		}
		adopted[m.version] = true
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit schema adoption: %w", err)
	}

	log.WithField("baseline", present[len(present)-1].String()).Info("adopted existing database schema")
	return adopted, nil
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return true, nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	var found int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to inspect columns of %s: %w", table, err)
	}
	return found > 0, nil
}
