package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	activitydto "tempo/internal/modules/activity/dto"
	"tempo/internal/modules/session/domain"
	"tempo/internal/modules/session/dto"
	sessionin "tempo/internal/modules/session/port/in"
	"tempo/internal/modules/session/service"
	"tempo/internal/modules/session/usecase"
	apperrors "tempo/internal/platform/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memRecordStore struct {
	mu        sync.Mutex
	nextID    int
	completed []domain.CompletedSession
	finalized map[string]int64
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{finalized: map[string]int64{}}
}

func (s *memRecordStore) CreateInProgress(context.Context, domain.Draft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("rec-%d", s.nextID), nil
}

func (s *memRecordStore) Finalize(_ context.Context, recordID string, _ time.Time, durationSeconds int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized[recordID] = durationSeconds
	return nil
}

func (s *memRecordStore) CreateCompleted(_ context.Context, session domain.CompletedSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	session.ID = fmt.Sprintf("rec-%d", s.nextID)
	s.completed = append(s.completed, session)
	return session.ID, nil
}

func (s *memRecordStore) Delete(context.Context, string) error { return nil }

func (s *memRecordStore) ReadActive(context.Context) (domain.Draft, error) {
	return domain.Draft{}, apperrors.ErrNoActiveSession
}

func (s *memRecordStore) SaveReflection(_ context.Context, recordID string, _ int, _ string) (string, error) {
	return recordID, nil
}

func (s *memRecordStore) ListRecent(context.Context, int) ([]domain.CompletedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CompletedSession(nil), s.completed...), nil
}

func (s *memRecordStore) DailyTotals(context.Context, int, time.Time) ([]domain.DailyTotal, error) {
	return []domain.DailyTotal{{Date: "2026-03-02", TotalSeconds: 3725, Sessions: 2}}, nil
}

func (s *memRecordStore) TotalByGoal(context.Context, string) (int64, error) {
	return 5400, nil
}

type memSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]domain.Snapshot
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{snapshots: map[string]domain.Snapshot{}}
}

func (s *memSnapshotStore) Save(_ context.Context, recordID string, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[recordID] = snapshot
	return nil
}

func (s *memSnapshotStore) Load(_ context.Context, recordID string) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[recordID]
	if !ok {
		return domain.Snapshot{}, apperrors.ErrNotFound
	}
	return snapshot, nil
}

func (s *memSnapshotStore) Clear(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, recordID)
	return nil
}

type fakeActivities struct {
	activities map[string]activitydto.ActivityOutput
}

func (f fakeActivities) Add(context.Context, activitydto.AddInput) (activitydto.ActivityOutput, error) {
	return activitydto.ActivityOutput{}, nil
}

func (f fakeActivities) List(context.Context, bool) ([]activitydto.ActivityOutput, error) {
	return nil, nil
}

func (f fakeActivities) Get(_ context.Context, id string) (activitydto.ActivityOutput, error) {
	activity, ok := f.activities[id]
	if !ok {
		return activitydto.ActivityOutput{}, fmt.Errorf("%w: activity %s", apperrors.ErrNotFound, id)
	}
	return activity, nil
}

func (f fakeActivities) Archive(context.Context, string) error { return nil }

type fakeGoalProgress struct {
	mu      sync.Mutex
	applied map[string]int64
	fail    bool
}

func (g *fakeGoalProgress) Apply(_ context.Context, goalID string, deltaSeconds int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errors.New("goal store offline")
	}
	if g.applied == nil {
		g.applied = map[string]int64{}
	}
	g.applied[goalID] += deltaSeconds
	return nil
}

type fakeListener struct {
	mu    sync.Mutex
	saved []domain.CompletedSession
}

func (l *fakeListener) SessionSaved(_ context.Context, session domain.CompletedSession) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saved = append(l.saved, session)
	return nil
}

type fakeJournal struct{}

func (fakeJournal) Write(_ context.Context, session domain.CompletedSession) (string, error) {
	return "/journal/" + session.SessionDate + ".md", nil
}

type fixture struct {
	usecase  sessionin.Usecase
	clock    *fakeClock
	goals    *fakeGoalProgress
	listener *fakeListener
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	records := newMemRecordStore()
	engine := service.NewEngine(clk, nil, records, newMemSnapshotStore(), time.Hour)
	t.Cleanup(engine.Close)
	goals := &fakeGoalProgress{}
	listener := &fakeListener{}
	uc := usecase.NewInteractor(usecase.Deps{
		Engine: engine,
		Activities: fakeActivities{activities: map[string]activitydto.ActivityOutput{
			"writing": {ID: "writing", Name: "Writing", GoalID: "book"},
		}},
		Records:  records,
		Goals:    goals,
		Hooks:    listener,
		Journal:  fakeJournal{},
		Clock:    clk,
		Location: time.UTC,
	})
	return fixture{usecase: uc, clock: clk, goals: goals, listener: listener}
}

func TestStartInheritsActivityGoal(t *testing.T) {
	t.Parallel()
	fix := newFixture(t)

	out, err := fix.usecase.Start(context.Background(), dto.StartInput{ActivityID: "writing"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if out.AlreadyActive {
		t.Fatalf("expected a fresh session")
	}
	if out.ActivityName != "Writing" {
		t.Fatalf("activity name = %q", out.ActivityName)
	}

	status, err := fix.usecase.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.GoalID != "book" {
		t.Fatalf("goal id = %q, want inherited %q", status.GoalID, "book")
	}
}

func TestStartRejectsUnknownActivity(t *testing.T) {
	t.Parallel()
	fix := newFixture(t)

	_, err := fix.usecase.Start(context.Background(), dto.StartInput{ActivityID: "nope"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRunsSideEffects(t *testing.T) {
	t.Parallel()
	fix := newFixture(t)
	ctx := context.Background()

	if _, err := fix.usecase.Start(ctx, dto.StartInput{ActivityID: "writing"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	fix.clock.Advance(45 * time.Minute)
	if _, err := fix.usecase.End(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}

	out, err := fix.usecase.Save(ctx, dto.SaveInput{Mood: 4, Notes: "good run"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if out.DurationSeconds != 2700 {
		t.Fatalf("duration = %d, want 2700", out.DurationSeconds)
	}
	if !out.GoalApplied {
		t.Fatalf("expected goal progress applied")
	}
	if fix.goals.applied["book"] != 2700 {
		t.Fatalf("goal delta = %d, want 2700", fix.goals.applied["book"])
	}
	if len(fix.listener.saved) != 1 {
		t.Fatalf("expected one hook notification, got %d", len(fix.listener.saved))
	}
	if out.JournalPath == "" {
		t.Fatalf("expected a journal path")
	}
}

func TestSaveSurvivesGoalFailure(t *testing.T) {
	t.Parallel()
	fix := newFixture(t)
	fix.goals.fail = true
	ctx := context.Background()

	if _, err := fix.usecase.Start(ctx, dto.StartInput{ActivityID: "writing"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	fix.clock.Advance(10 * time.Minute)
	if _, err := fix.usecase.End(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}

	out, err := fix.usecase.Save(ctx, dto.SaveInput{Mood: 3})
	if err != nil {
		t.Fatalf("save should not fail on goal error: %v", err)
	}
	if out.GoalApplied {
		t.Fatalf("goal should not be marked applied")
	}
	if out.DurationSeconds != 600 {
		t.Fatalf("duration = %d, want 600", out.DurationSeconds)
	}
}

func TestSaveValidatesMood(t *testing.T) {
	t.Parallel()
	fix := newFixture(t)
	ctx := context.Background()

	if _, err := fix.usecase.Start(ctx, dto.StartInput{ActivityID: "writing"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := fix.usecase.End(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}

	if _, err := fix.usecase.Save(ctx, dto.SaveInput{Mood: 9}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReportDailyFormatsTotals(t *testing.T) {
	t.Parallel()
	fix := newFixture(t)

	totals, err := fix.usecase.ReportDaily(context.Background(), 7)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("expected one day, got %d", len(totals))
	}
	if totals[0].Total != "1:02:05" {
		t.Fatalf("formatted total = %q", totals[0].Total)
	}
}
