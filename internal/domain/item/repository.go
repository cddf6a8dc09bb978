package item

import "context"

// Repository defines data access for Items
type Repository interface {
	// FindByProviderID looks the item up across all users.
	// Returns ErrItemNotFound when no user owns it.
	FindByProviderID(ctx context.Context, itemID string) (*Item, error)

	// Update writes only the fields set in t.
	Update(ctx context.Context, userID, itemID string, t Transition) error

	// Create stores a newly linked item.
	Create(ctx context.Context, it *Item) error
}

// Provider is the aggregation provider's link API.
type Provider interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*Exchange, error)
}

// Exchange is the durable credential returned for a public token.
type Exchange struct {
	AccessToken string
	ItemID      string
}
