package service

import (
	"context"
	"errors"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"tempo/internal/modules/session/domain"
	sessionout "tempo/internal/modules/session/port/out"
	"tempo/internal/platform/clock"
	apperrors "tempo/internal/platform/errors"
)

// Engine owns the lifecycle of the single in-progress session draft. All
// accounting fields live behind its mutex; transition methods are the only
// mutators. Invalid transitions are logged no-ops rather than errors.
type Engine struct {
	clock     clock.Clock
	log       hclog.Logger
	records   sessionout.RecordStore
	snapshots sessionout.SnapshotStore
	tickEvery time.Duration

	mu          sync.Mutex
	draft       domain.Draft
	hasDraft    bool
	state       domain.State
	accumulated int64
	lastActive  time.Time
	endedAt     time.Time
	tickStop    chan struct{}
	onTick      func(seconds int64)

	// saveMu is the single-flight guard: a concurrent Save is rejected
	// immediately, never queued.
	saveMu sync.Mutex
}

func NewEngine(clk clock.Clock, log hclog.Logger, records sessionout.RecordStore, snapshots sessionout.SnapshotStore, tickEvery time.Duration) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if tickEvery <= 0 {
		tickEvery = time.Second
	}
	return &Engine{
		clock:     clk,
		log:       log,
		records:   records,
		snapshots: snapshots,
		tickEvery: tickEvery,
	}
}

// Subscribe registers the display callback invoked with elapsed seconds on
// every tick while the session is active.
func (e *Engine) Subscribe(fn func(seconds int64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// Start begins tracking a new draft. At most one draft may exist at a time;
// a second start is a logged no-op returning the current draft. The external
// in-progress record is created optimistically: a store failure does not
// block the user, it only disables crash recovery for this session.
func (e *Engine) Start(ctx context.Context, draft domain.Draft) (domain.Draft, bool) {
	e.mu.Lock()
	if e.hasDraft {
		current := e.draft
		e.mu.Unlock()
		e.log.Warn("start ignored: a session is already being tracked",
			"activity_id", current.ActivityID)
		return current, false
	}
	now := e.clock.Now()
	draft.RecordID = ""
	draft.StartTime = now
	e.draft = draft
	e.hasDraft = true
	e.state = domain.StateActive
	e.accumulated = 0
	e.lastActive = now
	e.endedAt = time.Time{}
	e.startTickerLocked()
	e.mu.Unlock()

	recordID, err := e.records.CreateInProgress(ctx, draft)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.log.Warn("create in-progress record failed; session continues locally without recovery",
			"activity_id", draft.ActivityID, "error", err)
		return e.draft, true
	}
	e.draft.RecordID = recordID
	e.writeSnapshotLocked(ctx, now)
	return e.draft, true
}

// Pause freezes elapsed time. Pausing while not active is a logged no-op so
// time can never be double-counted.
func (e *Engine) Pause(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasDraft || !domain.CanTransition(e.state, domain.StatePaused) {
		e.log.Warn("pause ignored", "state", string(e.state))
		return false
	}
	now := e.clock.Now()
	e.freezeLocked(now)
	e.state = domain.StatePaused
	e.stopTickerLocked()
	e.writeSnapshotLocked(ctx, now)
	return true
}

// Resume continues counting from the frozen accumulated value.
func (e *Engine) Resume(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasDraft || !domain.CanTransition(e.state, domain.StateActive) {
		e.log.Warn("resume ignored", "state", string(e.state))
		return false
	}
	now := e.clock.Now()
	e.lastActive = now
	e.state = domain.StateActive
	e.startTickerLocked()
	e.writeSnapshotLocked(ctx, now)
	return true
}

// End freezes elapsed time and moves to the terminal state. The reflection is
// collected separately; Save completes the lifecycle.
func (e *Engine) End(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasDraft || !domain.CanTransition(e.state, domain.StateEnded) {
		e.log.Warn("end ignored", "state", string(e.state))
		return false
	}
	now := e.clock.Now()
	e.freezeLocked(now)
	e.state = domain.StateEnded
	e.endedAt = now
	e.stopTickerLocked()
	e.writeSnapshotLocked(ctx, now)
	return true
}

// SaveResult describes what Save persisted.
type SaveResult struct {
	PrimaryRecordID string
	Sessions        []domain.CompletedSession
	TotalSeconds    int64
	Draft           domain.Draft
}

// Save persists the ended draft, splitting it per local calendar day when it
// crossed midnight. On failure the draft is kept so the caller can retry; the
// single-flight lock is always released.
func (e *Engine) Save(ctx context.Context, reflection domain.Reflection, loc *time.Location) (SaveResult, error) {
	if !e.saveMu.TryLock() {
		return SaveResult{}, apperrors.ErrSaveInFlight
	}
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if !e.hasDraft {
		e.mu.Unlock()
		return SaveResult{}, apperrors.ErrNoActiveSession
	}
	if e.state != domain.StateEnded {
		e.mu.Unlock()
		return SaveResult{}, apperrors.ErrSessionNotEnded
	}
	draft := e.draft
	total := e.accumulated
	endedAt := e.endedAt
	e.mu.Unlock()

	segments := domain.SplitByDay(draft.StartTime, endedAt, total, loc)
	sessions := make([]domain.CompletedSession, 0, len(segments))
	for i, seg := range segments {
		session := domain.CompletedSession{
			ActivityID:      draft.ActivityID,
			ActivityName:    draft.ActivityName,
			GoalID:          draft.GoalID,
			StartTime:       seg.StartTime,
			EndTime:         seg.EndTime,
			DurationSeconds: seg.DurationSeconds,
			SessionDate:     seg.Date,
		}
		// Only the first segment carries the user's reflection.
		if i == 0 {
			session.Notes = reflection.Notes
			session.Mood = reflection.Mood
		}
		sessions = append(sessions, session)
	}

	var primary string
	if len(sessions) == 1 {
		one := sessions[0]
		if draft.RecordID != "" {
			if err := e.records.Finalize(ctx, draft.RecordID, one.EndTime, one.DurationSeconds, one.SessionDate); err != nil {
				return SaveResult{}, err
			}
			primary = draft.RecordID
		} else {
			id, err := e.records.CreateCompleted(ctx, one)
			if err != nil {
				return SaveResult{}, err
			}
			primary = id
		}
		sessions[0].ID = primary
	} else {
		for i := range sessions {
			id, err := e.records.CreateCompleted(ctx, sessions[i])
			if err != nil {
				return SaveResult{}, err
			}
			sessions[i].ID = id
			if i == 0 {
				primary = id
			}
		}
		if draft.RecordID != "" {
			if err := e.records.Delete(ctx, draft.RecordID); err != nil {
				return SaveResult{}, err
			}
		}
	}

	if _, err := e.records.SaveReflection(ctx, primary, reflection.Mood, reflection.Notes); err != nil {
		return SaveResult{}, err
	}

	if draft.RecordID != "" {
		if err := e.snapshots.Clear(ctx, draft.RecordID); err != nil {
			e.log.Warn("clear snapshot failed", "record_id", draft.RecordID, "error", err)
		}
	}

	e.mu.Lock()
	e.resetLocked()
	e.mu.Unlock()

	return SaveResult{
		PrimaryRecordID: primary,
		Sessions:        sessions,
		TotalSeconds:    total,
		Draft:           draft,
	}, nil
}

// Recover rebuilds engine state after a process restart from the open-ended
// store record and, when fresh, the persisted snapshot. A missing, stale, or
// active snapshot means "assume the session kept running since it started":
// an active snapshot never captures elapsed time, only that ticking was in
// progress. Identity always comes from the record, never the snapshot.
func (e *Engine) Recover(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.hasDraft {
		e.mu.Unlock()
		return false, nil
	}
	e.mu.Unlock()

	draft, err := e.records.ReadActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return false, nil
		}
		return false, err
	}

	now := e.clock.Now()
	state := domain.StateActive
	var accumulated int64
	lastActive := draft.StartTime
	var endedAt time.Time

	snapshot, err := e.snapshots.Load(ctx, draft.RecordID)
	switch {
	case err != nil:
		if !errors.Is(err, apperrors.ErrNotFound) {
			e.log.Warn("read snapshot failed; assuming session still running", "error", err)
		}
	case snapshot.Stale(now) || snapshot.State == domain.StateActive:
		// rebuild from the record alone
	default:
		state = snapshot.State
		accumulated = snapshot.AccumulatedSeconds
		lastActive = time.Time{}
		if state == domain.StateEnded {
			if snapshot.LastTransition != nil {
				endedAt = *snapshot.LastTransition
			} else {
				endedAt = snapshot.WriteInstant
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = draft
	e.hasDraft = true
	e.state = state
	e.accumulated = accumulated
	e.lastActive = lastActive
	e.endedAt = endedAt
	if state == domain.StateActive {
		e.startTickerLocked()
	}
	return true, nil
}

// Status returns the draft, state and elapsed seconds in one consistent read.
func (e *Engine) Status() (domain.Draft, domain.State, int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	elapsed := domain.Elapsed(e.state, e.accumulated, e.lastActive, e.clock.Now())
	return e.draft, e.state, elapsed, e.hasDraft
}

func (e *Engine) ElapsedSeconds() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Elapsed(e.state, e.accumulated, e.lastActive, e.clock.Now())
}

func (e *Engine) FormattedElapsed() string {
	return domain.FormatElapsed(e.ElapsedSeconds())
}

func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasDraft && e.state == domain.StateActive
}

// TickerRunning reports whether the display ticker is live.
func (e *Engine) TickerRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickStop != nil
}

// Close stops the ticker without touching session state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickerLocked()
}

// freezeLocked folds the current active run into accumulated seconds. Calling
// it while not active leaves the value unchanged, which makes End after Pause
// idempotent.
func (e *Engine) freezeLocked(now time.Time) {
	e.accumulated = domain.Elapsed(e.state, e.accumulated, e.lastActive, now)
	e.lastActive = time.Time{}
}

func (e *Engine) resetLocked() {
	e.draft = domain.Draft{}
	e.hasDraft = false
	e.state = ""
	e.accumulated = 0
	e.lastActive = time.Time{}
	e.endedAt = time.Time{}
	e.stopTickerLocked()
}

// writeSnapshotLocked persists accounting for the current record. Snapshot
// failures are logged, never surfaced: the snapshot is a durability aid, not
// a transition precondition.
func (e *Engine) writeSnapshotLocked(ctx context.Context, transition time.Time) {
	if e.draft.RecordID == "" {
		return
	}
	lt := transition
	snapshot := domain.Snapshot{
		State:              e.state,
		AccumulatedSeconds: e.accumulated,
		LastTransition:     &lt,
		WriteInstant:       e.clock.Now(),
	}
	if err := e.snapshots.Save(ctx, e.draft.RecordID, snapshot); err != nil {
		e.log.Warn("write snapshot failed", "record_id", e.draft.RecordID, "error", err)
	}
}

// startTickerLocked is idempotent: exactly one ticker may run at a time.
func (e *Engine) startTickerLocked() {
	if e.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	e.tickStop = stop
	go func() {
		ticker := time.NewTicker(e.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.publish()
			}
		}
	}()
}

func (e *Engine) stopTickerLocked() {
	if e.tickStop == nil {
		return
	}
	close(e.tickStop)
	e.tickStop = nil
}

func (e *Engine) publish() {
	e.mu.Lock()
	fn := e.onTick
	elapsed := domain.Elapsed(e.state, e.accumulated, e.lastActive, e.clock.Now())
	e.mu.Unlock()
	if fn != nil {
		fn(elapsed)
	}
}
