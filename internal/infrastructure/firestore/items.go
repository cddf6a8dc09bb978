package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finpulse/internal/domain/item"
)

type itemErrorDoc struct {
	Code    string `firestore:"error_code"`
	Message string `firestore:"error_message"`
	Type    string `firestore:"error_type,omitempty"`
}

type itemDoc struct {
	ItemID               string        `firestore:"item_id"`
	UserID               string        `firestore:"user_id"`
	InstitutionName      string        `firestore:"institution_name"`
	AccessToken          string        `firestore:"access_token"`
	SyncNeeded           bool          `firestore:"sync_needed"`
	NewTransactionsCount int64         `firestore:"new_transactions_count"`
	Status               string        `firestore:"item_status"`
	Error                *itemErrorDoc `firestore:"item_error"`
	RequiresReauth       bool          `firestore:"requires_reauth"`
	WebhookReceivedAt    time.Time     `firestore:"webhook_received_at,omitempty"`
	LinkedAt             time.Time     `firestore:"linked_at"`
}

func toItem(d *itemDoc, id string) (item.Item, error) {
	it := item.Item{
		ID:                   d.ItemID,
		UserID:               d.UserID,
		InstitutionName:      d.InstitutionName,
		AccessToken:          d.AccessToken,
		SyncNeeded:           d.SyncNeeded,
		NewTransactionsCount: int(d.NewTransactionsCount),
		Status:               item.Status(d.Status),
		RequiresReauth:       d.RequiresReauth,
		WebhookReceivedAt:    d.WebhookReceivedAt,
		LinkedAt:             d.LinkedAt,
	}
	if it.ID == "" {
		it.ID = id
	}
	if it.Status == "" {
		it.Status = item.StatusOK
	}
	if d.Error != nil {
		it.Error = &item.Error{Code: d.Error.Code, Message: d.Error.Message, Type: d.Error.Type}
	}
	return it, nil
}

func fromItem(it *item.Item) itemDoc {
	d := itemDoc{
		ItemID:               it.ID,
		UserID:               it.UserID,
		InstitutionName:      it.InstitutionName,
		AccessToken:          it.AccessToken,
		SyncNeeded:           it.SyncNeeded,
		NewTransactionsCount: int64(it.NewTransactionsCount),
		Status:               string(it.Status),
		RequiresReauth:       it.RequiresReauth,
		WebhookReceivedAt:    it.WebhookReceivedAt,
		LinkedAt:             it.LinkedAt,
	}
	if it.Error != nil {
		d.Error = &itemErrorDoc{Code: it.Error.Code, Message: it.Error.Message, Type: it.Error.Type}
	}
	return d
}

// itemUpdates lists the field paths a transition writes.
func itemUpdates(t item.Transition) []firestore.Update {
	var updates []firestore.Update
	if t.SyncNeeded != nil {
		updates = append(updates, firestore.Update{Path: "sync_needed", Value: *t.SyncNeeded})
	}
	if t.NewTransactionsCount != nil {
		updates = append(updates, firestore.Update{Path: "new_transactions_count", Value: int64(*t.NewTransactionsCount)})
	}
	if t.Status != nil {
		updates = append(updates, firestore.Update{Path: "item_status", Value: string(*t.Status)})
	}
	if t.Error != nil {
		updates = append(updates, firestore.Update{Path: "item_error", Value: map[string]any{
			"error_code":    t.Error.Code,
			"error_message": t.Error.Message,
			"error_type":    t.Error.Type,
		}})
	}
	if t.RequiresReauth != nil {
		updates = append(updates, firestore.Update{Path: "requires_reauth", Value: *t.RequiresReauth})
	}
	if len(updates) > 0 && !t.ReceivedAt.IsZero() {
		updates = append(updates, firestore.Update{Path: "webhook_received_at", Value: t.ReceivedAt})
	}
	return updates
}

// TokenCipher seals access tokens before they are stored.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	Sealed(s string) bool
}

// ItemRepository implements item.Repository
type ItemRepository struct {
	store  *Store
	tokens TokenCipher
}

// NewItemRepository creates the item repository. With a nil cipher access
// tokens are stored as given.
func NewItemRepository(store *Store, tokens TokenCipher) *ItemRepository {
	return &ItemRepository{store: store, tokens: tokens}
}

// FindByProviderID runs a collection group query over every user's items.
// The owning uid comes from the document path.
func (r *ItemRepository) FindByProviderID(ctx context.Context, itemID string) (*item.Item, error) {
	if itemID == "" {
		return nil, item.ErrItemNotFound
	}

	iter := r.store.client.CollectionGroup(itemsCollection).
		Where("item_id", "==", itemID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, item.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item %s: %w", itemID, err)
	}

	owner, err := ownerOf(doc.Ref)
	if err != nil {
		return nil, err
	}

	var d itemDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode item %s: %w", doc.Ref.Path, err)
	}
	it, err := toItem(&d, doc.Ref.ID)
	if err != nil {
		return nil, err
	}
	if r.tokens != nil {
		// Webhook handling never needs the token; a bad one must not block it.
		if it.AccessToken, err = r.tokens.Decrypt(it.AccessToken); err != nil {
			r.store.logger.Warn("failed to decrypt item access token",
				zap.String("path", doc.Ref.Path),
				zap.Error(err),
			)
			it.AccessToken = ""
		}
	}

	if it.UserID != "" && it.UserID != owner {
		r.store.logger.Warn("item user_id disagrees with its path, using path",
			zap.String("item_id", itemID),
			zap.String("user_id", it.UserID),
			zap.String("path_user_id", owner),
		)
	}
	it.UserID = owner
	return &it, nil
}

// Update writes the transition's fields only.
func (r *ItemRepository) Update(ctx context.Context, userID, itemID string, t item.Transition) error {
	updates := itemUpdates(t)
	if len(updates) == 0 {
		return nil
	}

	ref := r.store.userCollection(userID, itemsCollection).Doc(itemID)
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return item.ErrItemNotFound
		}
		return fmt.Errorf("failed to update item %s: %w", ref.Path, err)
	}
	return nil
}

// Create stores a newly linked item. Relinking the same item overwrites it.
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	d := fromItem(it)
	if r.tokens != nil {
		sealed, err := r.tokens.Encrypt(d.AccessToken)
		if err != nil {
			return fmt.Errorf("failed to encrypt access token: %w", err)
		}
		d.AccessToken = sealed
	}

	ref := r.store.userCollection(it.UserID, itemsCollection).Doc(it.ID)
	if _, err := ref.Set(ctx, d); err != nil {
		return fmt.Errorf("failed to create item %s: %w", ref.Path, err)
	}
	return nil
}

// SealPlaintextTokens encrypts every stored access token that does not yet
// decrypt with the configured cipher. It returns how many were rewritten.
func (r *ItemRepository) SealPlaintextTokens(ctx context.Context) (int, error) {
	if r.tokens == nil {
		return 0, errors.New("no token cipher configured")
	}

	iter := r.store.client.CollectionGroup(itemsCollection).Documents(ctx)
	defer iter.Stop()

	var sealed int
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return sealed, nil
		}
		if err != nil {
			return sealed, fmt.Errorf("failed to list items: %w", err)
		}

		raw, _ := doc.DataAt("access_token")
		token, _ := raw.(string)
		if token == "" || r.tokens.Sealed(token) {
			continue
		}

		ciphertext, err := r.tokens.Encrypt(token)
		if err != nil {
			return sealed, fmt.Errorf("failed to encrypt access token: %w", err)
		}
		if _, err := doc.Ref.Update(ctx, []firestore.Update{{Path: "access_token", Value: ciphertext}}); err != nil {
			return sealed, fmt.Errorf("failed to update %s: %w", doc.Ref.Path, err)
		}
		sealed++
		r.store.logger.Info("sealed access token", zap.String("path", doc.Ref.Path))
	}
}
