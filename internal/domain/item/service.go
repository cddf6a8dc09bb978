package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Service resolves items, applies webhook transitions and links new items.
type Service struct {
	repo     Repository
	provider Provider
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new item service. provider may be nil when linking is
// not available (webhook-only deployments).
func NewService(repo Repository, provider Provider, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve finds the item and its owner for a provider item id.
func (s *Service) Resolve(ctx context.Context, itemID string) (*Item, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, ErrItemNotFound
	}

	it, err := s.repo.FindByProviderID(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to resolve item %s: %w", itemID, err)
	}
	return it, nil
}

// Apply stamps t with the current time and writes it as a partial update.
// On success the in-memory item reflects the stored fields.
func (s *Service) Apply(ctx context.Context, it *Item, t Transition) error {
	if t.IsNoop() {
		return nil
	}

	t.ReceivedAt = s.now().UTC()
	if err := s.repo.Update(ctx, it.UserID, it.ID, t); err != nil {
		return fmt.Errorf("failed to apply %s to item %s: %w", t.Name, it.ID, err)
	}
	t.ApplyTo(it)

	s.logger.Info("item state updated",
		zap.String("item_id", it.ID),
		zap.String("user_id", it.UserID),
		zap.String("transition", t.Name),
		zap.String("item_status", string(it.Status)),
		zap.Bool("sync_needed", it.SyncNeeded),
		zap.Bool("requires_reauth", it.RequiresReauth),
	)
	return nil
}

// CreateLinkToken asks the provider for a token to start the link flow.
func (s *Service) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}
	if s.provider == nil {
		return "", errors.New("provider is not configured")
	}
	return s.provider.CreateLinkToken(ctx, userID)
}

// Link exchanges a public token and stores the new item for userID.
func (s *Service) Link(ctx context.Context, userID, publicToken, institutionName string) (*Item, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if strings.TrimSpace(publicToken) == "" {
		return nil, ErrMissingPublicToken
	}
	if s.provider == nil {
		return nil, errors.New("provider is not configured")
	}

	exchange, err := s.provider.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange public token: %w", err)
	}
	if exchange == nil || exchange.ItemID == "" || exchange.AccessToken == "" {
		return nil, ErrInvalidExchange
	}

	it := &Item{
		ID:              exchange.ItemID,
		UserID:          userID,
		InstitutionName: institutionName,
		AccessToken:     exchange.AccessToken,
		Status:          StatusOK,
		LinkedAt:        s.now().UTC(),
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to store item %s: %w", it.ID, err)
	}

	s.logger.Info("item linked",
		zap.String("item_id", it.ID),
		zap.String("user_id", userID),
		zap.String("institution", institutionName),
	)
	return it, nil
}
