package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// preferencesRowID is the only id the preferences table accepts.
const preferencesRowID = 1

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	// One connection keeps PRAGMA data_version meaningful: it only moves when
	// another process writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database at path, creating its directory and applying
// migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// DataVersion reports SQLite's data_version counter, which changes when
// another connection commits to the database.
func (r *SQLiteRepository) DataVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := r.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read data_version: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, status, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Status, nullInt(in.SortOrder), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, status, sort_order, created_at, updated_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, status = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Status, nullInt(in.SortOrder), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, title, status, sort_order, created_at, updated_at FROM tasks`
	args := make([]any, 0, 3)
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY COALESCE(sort_order, 0) ASC, created_at ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// UpdateTaskOrders writes every order in a single transaction.
func (r *SQLiteRepository) UpdateTaskOrders(ctx context.Context, orders []TaskOrder) error {
	if len(orders) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `UPDATE tasks SET sort_order = ?, updated_at = ? WHERE id = ?`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()
	for _, o := range orders {
		res, execErr := stmt.ExecContext(ctx, o.SortOrder, mustTime(o.UpdatedAt), o.ID)
		if execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reorder task %s: %w", o.ID, execErr)
		}
		if rowsErr := checkRowsAffected(res); rowsErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reorder task %s: %w", o.ID, rowsErr)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeleteAllTasks(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *SQLiteRepository) DeleteTasksByStatus(ctx context.Context, status string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE status = ?`, status)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *SQLiteRepository) GetPreferences(ctx context.Context) (Preferences, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT todo_symbol, todo_label, waiting_symbol, waiting_label, done_symbol, done_label,
		       use_symbols, inactive_panel_opacity, updated_at
		FROM preferences WHERE id = ?`, preferencesRowID)
	var out Preferences
	var useSymbols int
	var updated string
	err := row.Scan(&out.TodoSymbol, &out.TodoLabel, &out.WaitingSymbol, &out.WaitingLabel,
		&out.DoneSymbol, &out.DoneLabel, &useSymbols, &out.InactivePanelOpacity, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preferences{}, ErrNotFound
		}
		return Preferences{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Preferences{}, err
	}
	out.UseSymbols = useSymbols == 1
	out.UpdatedAt = updatedAt
	return out, nil
}

// SavePreferences inserts the singleton row or overwrites it in place.
func (r *SQLiteRepository) SavePreferences(ctx context.Context, in Preferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (id, todo_symbol, todo_label, waiting_symbol, waiting_label, done_symbol, done_label,
		                         use_symbols, inactive_panel_opacity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			todo_symbol = excluded.todo_symbol,
			todo_label = excluded.todo_label,
			waiting_symbol = excluded.waiting_symbol,
			waiting_label = excluded.waiting_label,
			done_symbol = excluded.done_symbol,
			done_label = excluded.done_label,
			use_symbols = excluded.use_symbols,
			inactive_panel_opacity = excluded.inactive_panel_opacity,
			updated_at = excluded.updated_at`,
		preferencesRowID, in.TodoSymbol, in.TodoLabel, in.WaitingSymbol, in.WaitingLabel, in.DoneSymbol, in.DoneLabel,
		boolInt(in.UseSymbols), in.InactivePanelOpacity, mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) SetState(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(time.Now()),
	)
	return err
}

// DeleteState removes key. Missing keys are not an error.
func (r *SQLiteRepository) DeleteState(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key)
	return err
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var order sql.NullInt64
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Status, &order, &created, &updated); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Task{}, err
	}
	if order.Valid {
		v := int(order.Int64)
		out.SortOrder = &v
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
