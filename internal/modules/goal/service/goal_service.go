package service

import (
	"context"
	"fmt"

	"tempo/internal/modules/goal/domain"
	goalout "tempo/internal/modules/goal/port/out"
	"tempo/internal/platform/clock"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/id"
)

type GoalService struct {
	clock clock.Clock
	idGen id.Generator
	store goalout.GoalStore
}

func NewGoalService(clk clock.Clock, idGen id.Generator, store goalout.GoalStore) *GoalService {
	return &GoalService{clock: clk, idGen: idGen, store: store}
}

func (s *GoalService) Add(ctx context.Context, name string, targetSeconds int64) (domain.Goal, error) {
	goal := domain.Goal{
		ID:            s.idGen.New(),
		Name:          name,
		TargetSeconds: targetSeconds,
		CreatedAt:     s.clock.Now(),
	}
	if err := goal.Validate(); err != nil {
		return domain.Goal{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.Save(ctx, goal); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context) ([]domain.Goal, error) {
	return s.store.List(ctx)
}

func (s *GoalService) Get(ctx context.Context, id string) (domain.Goal, error) {
	if id == "" {
		return domain.Goal{}, fmt.Errorf("%w: goal id is required", apperrors.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// ApplyProgress reads the current counter, adds the delta, and writes it
// back. Session persistence is the primary guarantee; callers treat a failure
// here as non-fatal.
func (s *GoalService) ApplyProgress(ctx context.Context, id string, deltaSeconds int64) (domain.Goal, error) {
	if deltaSeconds < 0 {
		return domain.Goal{}, fmt.Errorf("%w: progress delta must be non-negative", apperrors.ErrInvalidInput)
	}
	goal, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Goal{}, err
	}
	goal.ProgressSeconds += deltaSeconds
	if err := s.store.UpdateProgress(ctx, id, goal.ProgressSeconds); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}

func (s *GoalService) Recompute(ctx context.Context, id string, totalSeconds int64) (domain.Goal, error) {
	if totalSeconds < 0 {
		return domain.Goal{}, fmt.Errorf("%w: total must be non-negative", apperrors.ErrInvalidInput)
	}
	goal, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Goal{}, err
	}
	goal.ProgressSeconds = totalSeconds
	if err := s.store.UpdateProgress(ctx, id, totalSeconds); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}
