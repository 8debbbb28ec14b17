package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tempo/internal/modules/goal/domain"
	goalout "tempo/internal/modules/goal/port/out"
	apperrors "tempo/internal/platform/errors"
)

type SQLiteGoalStore struct {
	db *sql.DB
}

func NewSQLiteGoalStore(dbPath string) (goalout.GoalStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open goal db: %w", err)
	}
	store := &SQLiteGoalStore{db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteGoalStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS goals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			target_seconds INTEGER NOT NULL,
			progress_seconds INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure goals schema: %w", err)
	}
	return nil
}

func (s *SQLiteGoalStore) Save(ctx context.Context, goal domain.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, target_seconds, progress_seconds, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_seconds = excluded.target_seconds
	`, goal.ID, goal.Name, goal.TargetSeconds, goal.ProgressSeconds, goal.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save goal %s: %w", goal.ID, err)
	}
	return nil
}

func (s *SQLiteGoalStore) Get(ctx context.Context, id string) (domain.Goal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, target_seconds, progress_seconds, created_at
		FROM goals WHERE id = ?
	`, id)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Goal{}, fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Goal{}, fmt.Errorf("get goal %s: %w", id, err)
	}
	return goal, nil
}

func (s *SQLiteGoalStore) List(ctx context.Context) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target_seconds, progress_seconds, created_at
		FROM goals ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (s *SQLiteGoalStore) UpdateProgress(ctx context.Context, id string, progressSeconds int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE goals SET progress_seconds = ? WHERE id = ?
	`, progressSeconds, id)
	if err != nil {
		return fmt.Errorf("update goal progress %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal progress %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (domain.Goal, error) {
	var goal domain.Goal
	var createdAt string
	if err := row.Scan(&goal.ID, &goal.Name, &goal.TargetSeconds, &goal.ProgressSeconds, &createdAt); err != nil {
		return domain.Goal{}, err
	}
	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("parse created_at: %w", err)
	}
	goal.CreatedAt = parsed
	return goal, nil
}
