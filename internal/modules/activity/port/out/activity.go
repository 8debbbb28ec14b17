package out

import (
	"context"

	"tempo/internal/modules/activity/domain"
)

type ActivityStore interface {
	Save(ctx context.Context, activity domain.Activity) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (domain.Activity, error)
	List(ctx context.Context, includeArchived bool) ([]domain.Activity, error)
	SetArchived(ctx context.Context, id string, archived bool) error
}
