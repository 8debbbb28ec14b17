package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tempo/internal/modules/activity/domain"
	activityout "tempo/internal/modules/activity/port/out"
	apperrors "tempo/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteActivityStore struct {
	db *sql.DB
}

func NewSQLiteActivityStore(dbPath string) (activityout.ActivityStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteActivityStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteActivityStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS activities (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  goal_id TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  archived INTEGER NOT NULL DEFAULT 0
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create activities table: %w", err)
	}
	return nil
}

func (s *SQLiteActivityStore) Save(ctx context.Context, activity domain.Activity) error {
	const stmt = `
INSERT INTO activities (id, name, goal_id, created_at, archived)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  goal_id=excluded.goal_id,
  archived=excluded.archived;
`
	archived := 0
	if activity.Archived {
		archived = 1
	}
	_, err := s.db.ExecContext(ctx, stmt,
		activity.ID,
		activity.Name,
		activity.GoalID,
		activity.CreatedAt.Format(time.RFC3339),
		archived,
	)
	if err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}
	return nil
}

func (s *SQLiteActivityStore) Get(ctx context.Context, id string) (domain.Activity, error) {
	const query = `SELECT id, name, goal_id, created_at, archived FROM activities WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Activity{}, fmt.Errorf("activity %q: %w", id, apperrors.ErrNotFound)
		}
		return domain.Activity{}, fmt.Errorf("read activity: %w", err)
	}
	return activity, nil
}

func (s *SQLiteActivityStore) List(ctx context.Context, includeArchived bool) ([]domain.Activity, error) {
	query := `SELECT id, name, goal_id, created_at, archived FROM activities ORDER BY name`
	if !includeArchived {
		query = `SELECT id, name, goal_id, created_at, archived FROM activities WHERE archived = 0 ORDER BY name`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := []domain.Activity{}
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return out, nil
}

func (s *SQLiteActivityStore) SetArchived(ctx context.Context, id string, archived bool) error {
	value := 0
	if archived {
		value = 1
	}
	result, err := s.db.ExecContext(ctx, `UPDATE activities SET archived = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("archive activity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive activity: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("activity %q: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (domain.Activity, error) {
	activity := domain.Activity{}
	var createdAt string
	var archived int
	if err := row.Scan(&activity.ID, &activity.Name, &activity.GoalID, &createdAt, &archived); err != nil {
		return domain.Activity{}, err
	}
	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("parse created_at: %w", err)
	}
	activity.CreatedAt = parsed
	activity.Archived = archived == 1
	return activity, nil
}
