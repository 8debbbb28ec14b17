package out

import (
	"context"
	"time"

	"tempo/internal/modules/session/domain"
)

// RecordStore is the external collaborator holding finished and in-progress
// session records.
type RecordStore interface {
	// CreateInProgress registers an open-ended record (no end time) so a
	// restarted process can rediscover the running session.
	CreateInProgress(ctx context.Context, draft domain.Draft) (string, error)
	// Finalize closes the in-progress record in place for same-day saves.
	Finalize(ctx context.Context, recordID string, end time.Time, durationSeconds int64, date string) error
	// CreateCompleted inserts a finished day-attributed record, used when a
	// session is split across calendar days.
	CreateCompleted(ctx context.Context, session domain.CompletedSession) (string, error)
	// Delete removes a record, used when a draft is replaced by split segments.
	Delete(ctx context.Context, recordID string) error
	// ReadActive returns the one open-ended record, or ErrNoActiveSession.
	ReadActive(ctx context.Context) (domain.Draft, error)
	SaveReflection(ctx context.Context, recordID string, mood int, notes string) (string, error)
	ListRecent(ctx context.Context, limit int) ([]domain.CompletedSession, error)
	DailyTotals(ctx context.Context, days int, now time.Time) ([]domain.DailyTotal, error)
	TotalByGoal(ctx context.Context, goalID string) (int64, error)
}

// SnapshotStore persists per-record accounting snapshots keyed by record
// identity.
type SnapshotStore interface {
	Save(ctx context.Context, recordID string, snapshot domain.Snapshot) error
	// Load returns ErrNotFound when no snapshot exists for the record.
	Load(ctx context.Context, recordID string) (domain.Snapshot, error)
	Clear(ctx context.Context, recordID string) error
}

// GoalProgress credits saved session time to a goal, best-effort.
type GoalProgress interface {
	Apply(ctx context.Context, goalID string, deltaSeconds int64) error
}

// SaveListener is notified after a session has been persisted.
type SaveListener interface {
	SessionSaved(ctx context.Context, session domain.CompletedSession) error
}

// JournalStore writes a human-readable note for a saved session.
type JournalStore interface {
	Write(ctx context.Context, session domain.CompletedSession) (string, error)
}
