package budget

import (
	"context"

	"finpulse/internal/shared/stream"
)

// Repository defines read access to a user's budgets.
type Repository interface {
	ListByUserID(ctx context.Context, userID string) ([]Budget, error)
	WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]Budget]
}
