package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const fcmTokensField = "fcm_tokens"

// DeviceTokenRepository reads and prunes the FCM tokens on users/{uid}.
type DeviceTokenRepository struct {
	store *Store
}

func NewDeviceTokenRepository(store *Store) *DeviceTokenRepository {
	return &DeviceTokenRepository{store: store}
}

// Tokens returns the user's registered device tokens.
func (r *DeviceTokenRepository) Tokens(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, nil
	}

	doc, err := r.store.user(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user %s: %w", userID, err)
	}

	var d struct {
		Tokens []string `firestore:"fcm_tokens"`
	}
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode tokens of user %s: %w", userID, err)
	}
	return d.Tokens, nil
}

// Remove drops a token the messaging service rejected.
func (r *DeviceTokenRepository) Remove(ctx context.Context, userID, token string) error {
	_, err := r.store.user(userID).Update(ctx, []firestore.Update{
		{Path: fcmTokensField, Value: firestore.ArrayRemove(token)},
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to remove token of user %s: %w", userID, err)
	}
	return nil
}
