package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migration is one numbered schema step. Files are named
// NNNN_description.up.sql and NNNN_description.down.sql.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

// SchemaVersion reports the highest migration applied to db.
func SchemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// MigrateUp applies every embedded migration newer than the stored schema
// version. Each step runs in its own transaction.
func MigrateUp(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range steps {
		if m.version <= current {
			continue
		}
		if err := applyStep(db, m.name+".up.sql", m.up, m.version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for i := len(steps) - 1; i >= 0; i-- {
		m := steps[i]
		if m.version > current {
			continue
		}
		if err := applyStep(db, m.name+".down.sql", m.down, m.version-1); err != nil {
			return err
		}
	}
	return nil
}

func applyStep(db *sql.DB, name, body string, version int) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if strings.TrimSpace(body) != "" {
		if _, err := tx.ExecContext(ctx, body); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

func loadMigrations() ([]migration, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	byVersion := make(map[int]*migration)
	for _, entry := range entries {
		base := path.Base(entry)
		var stem string
		var up bool
		switch {
		case strings.HasSuffix(base, ".up.sql"):
			stem, up = strings.TrimSuffix(base, ".up.sql"), true
		case strings.HasSuffix(base, ".down.sql"):
			stem = strings.TrimSuffix(base, ".down.sql")
		default:
			continue
		}
		prefix, _, _ := strings.Cut(stem, "_")
		version, convErr := strconv.Atoi(prefix)
		if convErr != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: bad version prefix", base)
		}
		body, readErr := migrationFiles.ReadFile(entry)
		if readErr != nil {
			return nil, fmt.Errorf("read migration %s: %w", base, readErr)
		}
		m, ok := byVersion[version]
		if !ok {
			m = &migration{version: version, name: stem}
			byVersion[version] = m
		}
		if up {
			m.up = string(body)
		} else {
			m.down = string(body)
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %s: missing up file", m.name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}
