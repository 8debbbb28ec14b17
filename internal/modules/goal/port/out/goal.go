package out

import (
	"context"

	"tempo/internal/modules/goal/domain"
)

type GoalStore interface {
	Save(ctx context.Context, goal domain.Goal) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (domain.Goal, error)
	List(ctx context.Context) ([]domain.Goal, error)
	UpdateProgress(ctx context.Context, id string, progressSeconds int64) error
}
