package transaction

import (
	"context"

	"finpulse/internal/shared/stream"
)

// Repository defines read access to a user's transactions.
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// ListByUserID returns the current full set of transactions.
	ListByUserID(ctx context.Context, userID string) ([]Transaction, error)

	// WatchByUserID emits the full set of transactions on every change.
	WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]Transaction]
}
