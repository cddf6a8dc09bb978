package savings

import (
	"context"

	"finpulse/internal/shared/stream"
)

// GoalRepository defines read access to a user's savings goals.
type GoalRepository interface {
	WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]Goal]
}
