package service

import (
	"context"
	"errors"
	"fmt"

	"tempo/internal/modules/activity/domain"
	activityout "tempo/internal/modules/activity/port/out"
	"tempo/internal/platform/clock"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/slug"
)

type ActivityService struct {
	clock clock.Clock
	store activityout.ActivityStore
}

func NewActivityService(clk clock.Clock, store activityout.ActivityStore) *ActivityService {
	return &ActivityService{clock: clk, store: store}
}

func (s *ActivityService) Add(ctx context.Context, name, goalID string) (domain.Activity, error) {
	if name == "" {
		return domain.Activity{}, fmt.Errorf("%w: activity name is required", apperrors.ErrInvalidInput)
	}
	activity := domain.Activity{
		ID:        slug.Make(name),
		Name:      name,
		GoalID:    goalID,
		CreatedAt: s.clock.Now(),
	}
	if _, err := s.store.Get(ctx, activity.ID); err == nil {
		return domain.Activity{}, fmt.Errorf("activity %q already exists", activity.ID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return domain.Activity{}, err
	}
	if err := s.store.Save(ctx, activity); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

func (s *ActivityService) List(ctx context.Context, includeArchived bool) ([]domain.Activity, error) {
	return s.store.List(ctx, includeArchived)
}

func (s *ActivityService) Get(ctx context.Context, id string) (domain.Activity, error) {
	if id == "" {
		return domain.Activity{}, fmt.Errorf("%w: activity id is required", apperrors.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

func (s *ActivityService) Archive(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.SetArchived(ctx, id, true)
}
