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

	"tempo/internal/modules/session/domain"
	sessionout "tempo/internal/modules/session/port/out"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/id"
)

type SQLiteSessionStore struct {
	db    *sql.DB
	idGen id.Generator
}

func NewSQLiteSessionStore(dbPath string, idGen id.Generator) (sessionout.RecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	store := &SQLiteSessionStore{db: db, idGen: idGen}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			activity_id TEXT NOT NULL,
			activity_name TEXT NOT NULL,
			goal_id TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			ended_at TEXT,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			session_date TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			mood INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(session_date);
		CREATE INDEX IF NOT EXISTS idx_sessions_goal ON sessions(goal_id);
	`)
	if err != nil {
		return fmt.Errorf("ensure sessions schema: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) CreateInProgress(ctx context.Context, draft domain.Draft) (string, error) {
	recordID := s.idGen.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, activity_id, activity_name, goal_id, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, recordID, draft.ActivityID, draft.ActivityName, draft.GoalID, draft.StartTime.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("create in-progress session: %w", err)
	}
	return recordID, nil
}

func (s *SQLiteSessionStore) Finalize(ctx context.Context, recordID string, end time.Time, durationSeconds int64, date string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = ?, duration_seconds = ?, session_date = ?
		WHERE id = ?
	`, end.Format(time.RFC3339), durationSeconds, date, recordID)
	if err != nil {
		return fmt.Errorf("finalize session %s: %w", recordID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize session %s: %w", recordID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, recordID)
	}
	return nil
}

func (s *SQLiteSessionStore) CreateCompleted(ctx context.Context, session domain.CompletedSession) (string, error) {
	recordID := session.ID
	if recordID == "" {
		recordID = s.idGen.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, activity_id, activity_name, goal_id, started_at, ended_at, duration_seconds, session_date, notes, mood)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, recordID, session.ActivityID, session.ActivityName, session.GoalID,
		session.StartTime.Format(time.RFC3339), session.EndTime.Format(time.RFC3339),
		session.DurationSeconds, session.SessionDate, session.Notes, session.Mood)
	if err != nil {
		return "", fmt.Errorf("create completed session: %w", err)
	}
	return recordID, nil
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, recordID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, recordID)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", recordID, err)
	}
	return nil
}

func (s *SQLiteSessionStore) ReadActive(ctx context.Context) (domain.Draft, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, activity_id, activity_name, goal_id, started_at
		FROM sessions WHERE ended_at IS NULL
		ORDER BY started_at DESC LIMIT 1
	`)
	var draft domain.Draft
	var startedAt string
	err := row.Scan(&draft.RecordID, &draft.ActivityID, &draft.ActivityName, &draft.GoalID, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Draft{}, apperrors.ErrNoActiveSession
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("read active session: %w", err)
	}
	start, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("parse started_at: %w", err)
	}
	draft.StartTime = start
	return draft, nil
}

func (s *SQLiteSessionStore) SaveReflection(ctx context.Context, recordID string, mood int, notes string) (string, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET mood = ?, notes = ? WHERE id = ?
	`, mood, notes, recordID)
	if err != nil {
		return "", fmt.Errorf("save reflection for %s: %w", recordID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("save reflection for %s: %w", recordID, err)
	}
	if affected == 0 {
		return "", fmt.Errorf("%w: session %s", apperrors.ErrNotFound, recordID)
	}
	return recordID, nil
}

func (s *SQLiteSessionStore) ListRecent(ctx context.Context, limit int) ([]domain.CompletedSession, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, activity_id, activity_name, goal_id, started_at, ended_at, duration_seconds, session_date, notes, mood
		FROM sessions WHERE ended_at IS NOT NULL
		ORDER BY ended_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.CompletedSession
	for rows.Next() {
		session, err := scanCompleted(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *SQLiteSessionStore) DailyTotals(ctx context.Context, days int, now time.Time) ([]domain.DailyTotal, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := now.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_date, SUM(duration_seconds), COUNT(*)
		FROM sessions
		WHERE ended_at IS NOT NULL AND session_date >= ?
		GROUP BY session_date
		ORDER BY session_date
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.DailyTotal
	for rows.Next() {
		var total domain.DailyTotal
		if err := rows.Scan(&total.Date, &total.TotalSeconds, &total.Sessions); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

func (s *SQLiteSessionStore) TotalByGoal(ctx context.Context, goalID string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration_seconds), 0)
		FROM sessions WHERE ended_at IS NOT NULL AND goal_id = ?
	`, goalID)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("total for goal %s: %w", goalID, err)
	}
	return total, nil
}

func scanCompleted(rows *sql.Rows) (domain.CompletedSession, error) {
	var session domain.CompletedSession
	var startedAt, endedAt string
	if err := rows.Scan(&session.ID, &session.ActivityID, &session.ActivityName, &session.GoalID,
		&startedAt, &endedAt, &session.DurationSeconds, &session.SessionDate, &session.Notes, &session.Mood); err != nil {
		return domain.CompletedSession{}, err
	}
	start, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return domain.CompletedSession{}, fmt.Errorf("parse started_at: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endedAt)
	if err != nil {
		return domain.CompletedSession{}, fmt.Errorf("parse ended_at: %w", err)
	}
	session.StartTime = start
	session.EndTime = end
	return session, nil
}
