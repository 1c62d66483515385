package database

import (
	"cmp"
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var schemaFiles embed.FS

// migration is one numbered schema file, e.g. migrations/2_list_items_modified.sql.
type migration struct {
	version  int64
	name     string
	body     string
	checksum string
}

// loadMigrations reads every *.sql file under migrations/ in fsys,
// ordered by version. Versions must be unique.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	out := make([]migration, 0, len(files))
	byVersion := map[int64]string{}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".sql")
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %q has no version prefix", file)
		}
		version, err := strconv.ParseInt(prefix, 10, 64)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %q has an invalid version %q", file, prefix)
		}
		if other, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", other, name, version)
		}
		byVersion[version] = name

		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		sum := sha256.Sum256(body)
		out = append(out, migration{
			version:  version,
			name:     name,
			body:     string(body),
			checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(out, func(a, b migration) int {
		return cmp.Compare(a.version, b.version)
	})
	return out, nil
}

// migrate applies pending migrations from fsys and returns how many ran.
// An applied migration whose file has since changed is an error.
func (d *Database) migrate(ctx context.Context, fsys fs.FS) (int, error) {
	if _, err := d.writer.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			checksum   TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	pending, err := loadMigrations(fsys)
	if err != nil {
		return 0, err
	}

	applied := map[int64]string{}
	rows, err := d.writer.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return 0, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	for rows.Next() {
		var v int64
		var sum string
		if err := rows.Scan(&v, &sum); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan applied migration: %w", err)
		}
		applied[v] = sum
	}
	rows.Close()

	ran := 0
	for _, m := range pending {
		if sum, ok := applied[m.version]; ok {
			if sum != m.checksum {
				return ran, fmt.Errorf("migration %s was modified after it was applied", m.name)
			}
			continue
		}
		err := d.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.body); err != nil {
				return fmt.Errorf("migration %s: %w", m.name, err)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, checksum) VALUES (?, ?, ?)`,
				m.version, m.name, m.checksum)
			return err
		})
		if err != nil {
			return ran, err
		}
		d.logger.Database("Migration applied", "version", m.version, "name", m.name)
		ran++
	}
	return ran, nil
}
