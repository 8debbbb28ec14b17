package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tempo/internal/modules/session/domain"
	"tempo/internal/modules/session/service"
	apperrors "tempo/internal/platform/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type finalizedRecord struct {
	end      time.Time
	duration int64
	date     string
}

type memRecordStore struct {
	mu          sync.Mutex
	nextID      int
	inProgress  map[string]domain.Draft
	completed   []domain.CompletedSession
	finalized   map[string]finalizedRecord
	reflections map[string]domain.Reflection
	deleted     []string

	failCreate  bool
	saveEntered chan struct{}
	saveRelease chan struct{}
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{
		inProgress:  map[string]domain.Draft{},
		finalized:   map[string]finalizedRecord{},
		reflections: map[string]domain.Reflection{},
	}
}

func (s *memRecordStore) newID() string {
	s.nextID++
	return fmt.Sprintf("rec-%d", s.nextID)
}

func (s *memRecordStore) CreateInProgress(_ context.Context, draft domain.Draft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return "", errors.New("store unavailable")
	}
	id := s.newID()
	draft.RecordID = id
	s.inProgress[id] = draft
	return id, nil
}

func (s *memRecordStore) Finalize(_ context.Context, recordID string, end time.Time, duration int64, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized[recordID] = finalizedRecord{end: end, duration: duration, date: date}
	delete(s.inProgress, recordID)
	return nil
}

func (s *memRecordStore) CreateCompleted(_ context.Context, session domain.CompletedSession) (string, error) {
	s.mu.Lock()
	id := s.newID()
	session.ID = id
	s.completed = append(s.completed, session)
	s.mu.Unlock()
	return id, nil
}

func (s *memRecordStore) Delete(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, recordID)
	delete(s.inProgress, recordID)
	return nil
}

func (s *memRecordStore) ReadActive(_ context.Context) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, draft := range s.inProgress {
		return draft, nil
	}
	return domain.Draft{}, apperrors.ErrNoActiveSession
}

func (s *memRecordStore) SaveReflection(_ context.Context, recordID string, mood int, notes string) (string, error) {
	if s.saveEntered != nil {
		s.saveEntered <- struct{}{}
		<-s.saveRelease
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reflections[recordID] = domain.Reflection{Mood: mood, Notes: notes}
	return "refl-" + recordID, nil
}

func (s *memRecordStore) ListRecent(context.Context, int) ([]domain.CompletedSession, error) {
	return nil, nil
}

func (s *memRecordStore) DailyTotals(context.Context, int, time.Time) ([]domain.DailyTotal, error) {
	return nil, nil
}

func (s *memRecordStore) TotalByGoal(context.Context, string) (int64, error) {
	return 0, nil
}

type memSnapshotStore struct {
	mu    sync.Mutex
	snaps map[string]domain.Snapshot
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{snaps: map[string]domain.Snapshot{}}
}

func (s *memSnapshotStore) Save(_ context.Context, recordID string, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[recordID] = snapshot
	return nil
}

func (s *memSnapshotStore) Load(_ context.Context, recordID string) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snaps[recordID]
	if !ok {
		return domain.Snapshot{}, apperrors.ErrNotFound
	}
	return snapshot, nil
}

func (s *memSnapshotStore) Clear(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, recordID)
	return nil
}

var testStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newTestEngine(clk *fakeClock) (*service.Engine, *memRecordStore, *memSnapshotStore) {
	records := newMemRecordStore()
	snapshots := newMemSnapshotStore()
	return service.NewEngine(clk, nil, records, snapshots, time.Hour), records, snapshots
}

func TestPauseResumeAccounting(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, _, _ := newTestEngine(clk)
	defer engine.Close()

	if _, ok := engine.Start(context.Background(), domain.Draft{ActivityID: "deep-work", ActivityName: "Deep Work"}); !ok {
		t.Fatalf("start must succeed")
	}
	clk.Advance(120 * time.Second)
	if !engine.Pause(context.Background()) {
		t.Fatalf("pause must succeed from active")
	}
	clk.Advance(300 * time.Second)
	if got := engine.ElapsedSeconds(); got != 120 {
		t.Fatalf("elapsed while paused = %d, want 120", got)
	}
	if !engine.Resume(context.Background()) {
		t.Fatalf("resume must succeed from paused")
	}
	clk.Advance(60 * time.Second)
	if got := engine.ElapsedSeconds(); got != 180 {
		t.Fatalf("elapsed after resume = %d, want 180 not 480", got)
	}
}

func TestDoublePauseDoesNotDoubleCount(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, _, _ := newTestEngine(clk)
	defer engine.Close()

	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	clk.Advance(50 * time.Second)
	engine.Pause(context.Background())
	if engine.Pause(context.Background()) {
		t.Fatalf("second pause must be a no-op")
	}
	clk.Advance(50 * time.Second)
	if got := engine.ElapsedSeconds(); got != 50 {
		t.Fatalf("elapsed = %d, want 50", got)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, _, _ := newTestEngine(clk)
	defer engine.Close()

	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	clk.Advance(90 * time.Second)
	if !engine.End(context.Background()) {
		t.Fatalf("end must succeed from active")
	}
	before := engine.ElapsedSeconds()
	clk.Advance(30 * time.Second)
	if engine.End(context.Background()) {
		t.Fatalf("second end must be a no-op")
	}
	if got := engine.ElapsedSeconds(); got != before {
		t.Fatalf("elapsed changed after second end: %d -> %d", before, got)
	}
}

func TestStartWhileActiveIsNoOp(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, records, _ := newTestEngine(clk)
	defer engine.Close()

	first, ok := engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	if !ok {
		t.Fatalf("first start must succeed")
	}
	second, ok := engine.Start(context.Background(), domain.Draft{ActivityID: "b"})
	if ok {
		t.Fatalf("second start must be rejected")
	}
	if second.ActivityID != first.ActivityID {
		t.Fatalf("rejected start must return the current draft, got %+v", second)
	}
	records.mu.Lock()
	open := len(records.inProgress)
	records.mu.Unlock()
	if open != 1 {
		t.Fatalf("expected 1 in-progress record, got %d", open)
	}
}

func TestStartSurvivesStoreFailure(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, records, snapshots := newTestEngine(clk)
	defer engine.Close()
	records.failCreate = true

	draft, ok := engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	if !ok {
		t.Fatalf("start must succeed locally despite store failure")
	}
	if draft.RecordID != "" {
		t.Fatalf("record id must stay empty on create failure, got %q", draft.RecordID)
	}
	clk.Advance(30 * time.Second)
	if got := engine.ElapsedSeconds(); got != 30 {
		t.Fatalf("elapsed = %d, want 30", got)
	}
	snapshots.mu.Lock()
	count := len(snapshots.snaps)
	snapshots.mu.Unlock()
	if count != 0 {
		t.Fatalf("no snapshot should exist without a record id")
	}
}

func TestTickerLifecycle(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, _, _ := newTestEngine(clk)
	defer engine.Close()

	if engine.TickerRunning() {
		t.Fatalf("ticker must not run before start")
	}
	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	if !engine.TickerRunning() {
		t.Fatalf("ticker must run while active")
	}
	engine.Pause(context.Background())
	if engine.TickerRunning() {
		t.Fatalf("ticker must stop on pause")
	}
	engine.Resume(context.Background())
	if !engine.TickerRunning() {
		t.Fatalf("ticker must restart on resume")
	}
	engine.End(context.Background())
	if engine.TickerRunning() {
		t.Fatalf("ticker must stop on end")
	}
}

func TestTickerPublishesElapsed(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	records := newMemRecordStore()
	snapshots := newMemSnapshotStore()
	engine := service.NewEngine(clk, nil, records, snapshots, 10*time.Millisecond)
	defer engine.Close()

	ticks := make(chan int64, 8)
	engine.Subscribe(func(seconds int64) {
		select {
		case ticks <- seconds:
		default:
		}
	})
	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	clk.Advance(42 * time.Second)

	select {
	case got := <-ticks:
		if got != 42 {
			t.Fatalf("published elapsed = %d, want 42", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no tick published")
	}
}

func TestSaveSameDayFinalizesInPlace(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, records, snapshots := newTestEngine(clk)
	defer engine.Close()

	engine.Start(context.Background(), domain.Draft{ActivityID: "a", ActivityName: "A", GoalID: "g1"})
	clk.Advance(45 * time.Minute)
	engine.End(context.Background())

	result, err := engine.Save(context.Background(), domain.Reflection{Mood: 4, Notes: "solid block"}, time.UTC)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(result.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(result.Sessions))
	}
	if result.TotalSeconds != 2700 {
		t.Fatalf("total = %d, want 2700", result.TotalSeconds)
	}
	fin, ok := records.finalized[result.PrimaryRecordID]
	if !ok {
		t.Fatalf("in-progress record must be finalized in place")
	}
	if fin.duration != 2700 || fin.date != "2026-03-02" {
		t.Fatalf("unexpected finalize: %+v", fin)
	}
	if _, ok := records.reflections[result.PrimaryRecordID]; !ok {
		t.Fatalf("reflection must be saved on the primary record")
	}
	snapshots.mu.Lock()
	remaining := len(snapshots.snaps)
	snapshots.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("snapshot must be cleared after save")
	}
	if _, ok := engine.Start(context.Background(), domain.Draft{ActivityID: "b"}); !ok {
		t.Fatalf("engine must accept a new start after save")
	}
}

func TestSaveSplitsAcrossMidnight(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 11, 10, 23, 30, 0, 0, time.UTC)
	clk := newFakeClock(start)
	engine, records, _ := newTestEngine(clk)
	defer engine.Close()

	engine.Start(context.Background(), domain.Draft{ActivityID: "a", ActivityName: "A"})
	clk.Advance(45 * time.Minute)
	engine.End(context.Background())

	result, err := engine.Save(context.Background(), domain.Reflection{Mood: 5, Notes: "late night"}, time.UTC)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(result.Sessions) != 2 {
		t.Fatalf("expected 2 day segments, got %d", len(result.Sessions))
	}
	first, second := result.Sessions[0], result.Sessions[1]
	if first.SessionDate != "2024-11-10" || first.DurationSeconds != 1800 {
		t.Fatalf("first segment: %+v", first)
	}
	if second.SessionDate != "2024-11-11" || second.DurationSeconds != 900 {
		t.Fatalf("second segment: %+v", second)
	}
	if first.Notes != "late night" || second.Notes != "" {
		t.Fatalf("only the first segment may carry notes")
	}
	if result.PrimaryRecordID != first.ID {
		t.Fatalf("primary must be the first segment")
	}
	records.mu.Lock()
	deleted := len(records.deleted)
	records.mu.Unlock()
	if deleted != 1 {
		t.Fatalf("draft record must be deleted when replaced by segments")
	}
}

func TestSaveRejectsInvalidStates(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	engine, _, _ := newTestEngine(clk)
	defer engine.Close()

	if _, err := engine.Save(context.Background(), domain.Reflection{Mood: 3}, time.UTC); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("save without draft: %v", err)
	}
	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	if _, err := engine.Save(context.Background(), domain.Reflection{Mood: 3}, time.UTC); !errors.Is(err, apperrors.ErrSessionNotEnded) {
		t.Fatalf("save before end: %v", err)
	}
}

func TestConcurrentSaveIsSingleFlight(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	records := newMemRecordStore()
	records.saveEntered = make(chan struct{})
	records.saveRelease = make(chan struct{})
	snapshots := newMemSnapshotStore()
	engine := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	defer engine.Close()

	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	clk.Advance(time.Minute)
	engine.End(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := engine.Save(context.Background(), domain.Reflection{Mood: 4}, time.UTC)
		done <- err
	}()
	<-records.saveEntered

	if _, err := engine.Save(context.Background(), domain.Reflection{Mood: 4}, time.UTC); !errors.Is(err, apperrors.ErrSaveInFlight) {
		t.Fatalf("concurrent save must be rejected immediately, got %v", err)
	}
	close(records.saveRelease)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	records.mu.Lock()
	defer records.mu.Unlock()
	if len(records.reflections) != 1 {
		t.Fatalf("exactly one primary record must be persisted, got %d", len(records.reflections))
	}
}

func TestRecoverWithoutSnapshotAssumesStillRunning(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	records := newMemRecordStore()
	records.inProgress["rec-9"] = domain.Draft{
		RecordID:     "rec-9",
		ActivityID:   "deep-work",
		ActivityName: "Deep Work",
		GoalID:       "g1",
		StartTime:    testStart,
	}
	snapshots := newMemSnapshotStore()
	engine := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	defer engine.Close()

	clk.Advance(90 * time.Second)
	recovered, err := engine.Recover(context.Background())
	if err != nil || !recovered {
		t.Fatalf("recover = %v, %v", recovered, err)
	}
	draft, state, elapsed, ok := engine.Status()
	if !ok || state != domain.StateActive {
		t.Fatalf("recovered state = %s", state)
	}
	if draft.ActivityID != "deep-work" || draft.GoalID != "g1" || !draft.StartTime.Equal(testStart) {
		t.Fatalf("identity must come from the record: %+v", draft)
	}
	if elapsed < 90 {
		t.Fatalf("elapsed after crash = %d, want >= 90", elapsed)
	}
	if !engine.TickerRunning() {
		t.Fatalf("ticker must restart for an active recovery")
	}
}

func TestRecoverActiveSnapshotMatchesUninterruptedRun(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	records := newMemRecordStore()
	snapshots := newMemSnapshotStore()
	engine := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	engine.Close()

	clk.Advance(4 * time.Minute)
	restarted := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	defer restarted.Close()
	if recovered, err := restarted.Recover(context.Background()); err != nil || !recovered {
		t.Fatalf("recover = %v, %v", recovered, err)
	}
	if got := restarted.ElapsedSeconds(); got != 240 {
		t.Fatalf("recovered elapsed = %d, want 240 (same as an uninterrupted run)", got)
	}
}

func TestRecoverPausedSnapshotRestoresFrozenValue(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	records := newMemRecordStore()
	snapshots := newMemSnapshotStore()
	engine := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	clk.Advance(120 * time.Second)
	engine.Pause(context.Background())
	engine.Close()

	clk.Advance(2 * time.Minute)
	restarted := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	defer restarted.Close()
	if recovered, err := restarted.Recover(context.Background()); err != nil || !recovered {
		t.Fatalf("recover = %v, %v", recovered, err)
	}
	_, state, elapsed, _ := restarted.Status()
	if state != domain.StatePaused || elapsed != 120 {
		t.Fatalf("recovered %s/%d, want paused/120", state, elapsed)
	}
	if restarted.TickerRunning() {
		t.Fatalf("ticker must stay stopped for a paused recovery")
	}
	restarted.Resume(context.Background())
	clk.Advance(30 * time.Second)
	if got := restarted.ElapsedSeconds(); got != 150 {
		t.Fatalf("elapsed after resume = %d, want 150", got)
	}
}

func TestRecoverStaleSnapshotFallsBackToRecord(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	records := newMemRecordStore()
	snapshots := newMemSnapshotStore()
	engine := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	engine.Start(context.Background(), domain.Draft{ActivityID: "a"})
	clk.Advance(120 * time.Second)
	engine.Pause(context.Background())
	engine.Close()

	// Past the freshness window the frozen value is untrusted; the bias is
	// to assume the session kept running rather than lose it.
	clk.Advance(6 * time.Minute)
	restarted := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	defer restarted.Close()
	if recovered, err := restarted.Recover(context.Background()); err != nil || !recovered {
		t.Fatalf("recover = %v, %v", recovered, err)
	}
	_, state, elapsed, _ := restarted.Status()
	if state != domain.StateActive {
		t.Fatalf("stale snapshot must rebuild as active, got %s", state)
	}
	if elapsed != 480 {
		t.Fatalf("elapsed = %d, want 480 (counted from start)", elapsed)
	}
}

func TestRecoverEndedSnapshotAllowsSave(t *testing.T) {
	t.Parallel()
	clk := newFakeClock(testStart)
	records := newMemRecordStore()
	snapshots := newMemSnapshotStore()
	engine := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	engine.Start(context.Background(), domain.Draft{ActivityID: "a", ActivityName: "A"})
	clk.Advance(10 * time.Minute)
	engine.End(context.Background())
	engine.Close()

	clk.Advance(time.Minute)
	restarted := service.NewEngine(clk, nil, records, snapshots, time.Hour)
	defer restarted.Close()
	if recovered, err := restarted.Recover(context.Background()); err != nil || !recovered {
		t.Fatalf("recover = %v, %v", recovered, err)
	}
	_, state, elapsed, _ := restarted.Status()
	if state != domain.StateEnded || elapsed != 600 {
		t.Fatalf("recovered %s/%d, want ended/600", state, elapsed)
	}
	result, err := restarted.Save(context.Background(), domain.Reflection{Mood: 3, Notes: "resumed save"}, time.UTC)
	if err != nil {
		t.Fatalf("save after recovery: %v", err)
	}
	if result.TotalSeconds != 600 {
		t.Fatalf("saved total = %d, want 600", result.TotalSeconds)
	}
}
