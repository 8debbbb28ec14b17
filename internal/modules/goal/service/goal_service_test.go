package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tempo/internal/modules/goal/domain"
	"tempo/internal/modules/goal/service"
	apperrors "tempo/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDGen struct{ n int }

func (g *seqIDGen) New() string {
	g.n++
	return fmt.Sprintf("goal-%d", g.n)
}

type memGoalStore struct {
	goals map[string]domain.Goal
}

func newMemGoalStore() *memGoalStore {
	return &memGoalStore{goals: map[string]domain.Goal{}}
}

func (s *memGoalStore) Save(_ context.Context, goal domain.Goal) error {
	s.goals[goal.ID] = goal
	return nil
}

func (s *memGoalStore) Get(_ context.Context, id string) (domain.Goal, error) {
	goal, ok := s.goals[id]
	if !ok {
		return domain.Goal{}, fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, id)
	}
	return goal, nil
}

func (s *memGoalStore) List(_ context.Context) ([]domain.Goal, error) {
	out := make([]domain.Goal, 0, len(s.goals))
	for _, goal := range s.goals {
		out = append(out, goal)
	}
	return out, nil
}

func (s *memGoalStore) UpdateProgress(_ context.Context, id string, progressSeconds int64) error {
	goal, ok := s.goals[id]
	if !ok {
		return fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, id)
	}
	goal.ProgressSeconds = progressSeconds
	s.goals[id] = goal
	return nil
}

func newTestService(store *memGoalStore) *service.GoalService {
	clk := fixedClock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	return service.NewGoalService(clk, &seqIDGen{}, store)
}

func TestAddValidatesInput(t *testing.T) {
	t.Parallel()
	svc := newTestService(newMemGoalStore())

	_, err := svc.Add(context.Background(), "", 3600)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	goal, err := svc.Add(context.Background(), "Deep work", 10*3600)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if goal.ID == "" || goal.TargetSeconds != 36000 {
		t.Fatalf("unexpected goal: %+v", goal)
	}
}

func TestApplyProgressAccumulates(t *testing.T) {
	t.Parallel()
	store := newMemGoalStore()
	svc := newTestService(store)

	goal, err := svc.Add(context.Background(), "Deep work", 3600)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.ApplyProgress(context.Background(), goal.ID, 900); err != nil {
		t.Fatalf("apply: %v", err)
	}
	updated, err := svc.ApplyProgress(context.Background(), goal.ID, 600)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.ProgressSeconds != 1500 {
		t.Fatalf("progress = %d, want 1500", updated.ProgressSeconds)
	}

	if _, err := svc.ApplyProgress(context.Background(), goal.ID, -1); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative delta, got %v", err)
	}
	if _, err := svc.ApplyProgress(context.Background(), "missing", 10); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecomputeOverwritesProgress(t *testing.T) {
	t.Parallel()
	store := newMemGoalStore()
	svc := newTestService(store)

	goal, err := svc.Add(context.Background(), "Deep work", 3600)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.ApplyProgress(context.Background(), goal.ID, 9999); err != nil {
		t.Fatalf("apply: %v", err)
	}

	corrected, err := svc.Recompute(context.Background(), goal.ID, 1200)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if corrected.ProgressSeconds != 1200 {
		t.Fatalf("progress = %d, want 1200", corrected.ProgressSeconds)
	}
}

func TestPercentCompleteClamps(t *testing.T) {
	t.Parallel()
	goal := domain.Goal{ID: "g", Name: "g", TargetSeconds: 100, ProgressSeconds: 250}
	if pct := goal.PercentComplete(); pct != 100 {
		t.Fatalf("pct = %v, want 100", pct)
	}
	goal.TargetSeconds = 0
	if pct := goal.PercentComplete(); pct != 0 {
		t.Fatalf("pct = %v, want 0 for zero target", pct)
	}
}
