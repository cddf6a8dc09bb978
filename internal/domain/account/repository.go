package account

import (
	"context"

	"finpulse/internal/shared/stream"
)

// Repository defines read access to a user's linked accounts.
type Repository interface {
	// ListByUserID returns the current full set of accounts.
	ListByUserID(ctx context.Context, userID string) ([]Account, error)

	// WatchByUserID emits the full set of accounts on every change.
	WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]Account]
}
