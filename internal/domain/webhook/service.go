package webhook

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"finpulse/internal/domain/item"
)

var (
	webhookMeter    = otel.Meter("finpulse/webhook")
	webhookTotal, _ = webhookMeter.Int64Counter("webhook.received.total", metric.WithDescription("Webhooks received by type, code and outcome"))
)

// Outcome classifies how a verified webhook was handled.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeIgnored Outcome = "ignored"
	OutcomeDropped Outcome = "dropped"
)

// AttentionReason tells the user why an item needs their action.
type AttentionReason string

const (
	AttentionReauthRequired    AttentionReason = "reauth_required"
	AttentionPendingExpiration AttentionReason = "pending_expiration"
	AttentionRevoked           AttentionReason = "permission_revoked"
)

// Attention is a push notification request for the item's owner.
type Attention struct {
	UserID          string
	ItemID          string
	InstitutionName string
	Reason          AttentionReason
}

// SyncRequest asks the sync job to fetch new transactions for an item.
type SyncRequest struct {
	ItemID          string    `json:"item_id"`
	UserID          string    `json:"user_id"`
	NewTransactions int       `json:"new_transactions"`
	RequestedAt     time.Time `json:"requested_at"`
}

// Notifier delivers attention notifications.
type Notifier interface {
	NotifyAttention(ctx context.Context, a Attention) error
}

// SyncPublisher hands sync requests to the sync job.
type SyncPublisher interface {
	PublishSyncRequest(ctx context.Context, req SyncRequest) error
}

// FollowUps queues side effects without blocking the webhook response.
// Errors only report that the work could not be queued.
type FollowUps interface {
	NotifyAttention(a Attention) error
	RequestSync(req SyncRequest) error
}

// Items resolves and updates item records.
type Items interface {
	Resolve(ctx context.Context, itemID string) (*item.Item, error)
	Apply(ctx context.Context, it *item.Item, t item.Transition) error
}

// Service handles verified webhook envelopes.
type Service struct {
	items     Items
	followUps FollowUps
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a webhook service. followUps may be nil.
func NewService(items Items, followUps FollowUps, logger *zap.Logger) *Service {
	return &Service{
		items:     items,
		followUps: followUps,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle resolves the envelope's item, applies the routed transition and
// queues follow-up work. Only store failures are returned as errors.
func (s *Service) Handle(ctx context.Context, env Envelope) (Outcome, error) {
	outcome, err := s.handle(ctx, env)

	status := string(outcome)
	if err != nil {
		status = "error"
	}
	webhookTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", string(env.Type)),
		attribute.String("code", env.Code),
		attribute.String("outcome", status),
	))
	return outcome, err
}

func (s *Service) handle(ctx context.Context, env Envelope) (Outcome, error) {
	log := s.logger.With(
		zap.String("webhook_type", string(env.Type)),
		zap.String("webhook_code", env.Code),
		zap.String("item_id", env.ItemID),
	)

	it, err := s.items.Resolve(ctx, env.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrItemNotFound) {
			log.Warn("item not found, dropping webhook")
			return OutcomeDropped, nil
		}
		return "", err
	}

	t := Route(env)
	if t.IsNoop() {
		if Recognized(env) {
			log.Info("webhook acknowledged", zap.String("user_id", it.UserID))
		} else {
			log.Info("unhandled webhook ignored", zap.String("user_id", it.UserID))
		}
		return OutcomeIgnored, nil
	}

	if err := s.items.Apply(ctx, it, t); err != nil {
		return "", err
	}

	s.queueFollowUps(log, env, it)
	return OutcomeApplied, nil
}

func (s *Service) queueFollowUps(log *zap.Logger, env Envelope, it *item.Item) {
	if s.followUps == nil {
		return
	}

	if reason, ok := attentionFor(env, it); ok {
		err := s.followUps.NotifyAttention(Attention{
			UserID:          it.UserID,
			ItemID:          it.ID,
			InstitutionName: it.InstitutionName,
			Reason:          reason,
		})
		if err != nil {
			log.Warn("failed to queue attention notification", zap.Error(err))
		}
	}

	if env.Type == TypeTransactions && env.Code == CodeSyncUpdatesAvailable {
		err := s.followUps.RequestSync(SyncRequest{
			ItemID:          it.ID,
			UserID:          it.UserID,
			NewTransactions: it.NewTransactionsCount,
			RequestedAt:     s.now().UTC(),
		})
		if err != nil {
			log.Warn("failed to queue sync request", zap.Error(err))
		}
	}
}

func attentionFor(env Envelope, it *item.Item) (AttentionReason, bool) {
	if env.Type != TypeItem {
		return "", false
	}
	switch env.Code {
	case CodeError:
		return AttentionReauthRequired, it.RequiresReauth
	case CodePendingExpiration:
		return AttentionPendingExpiration, true
	case CodeUserPermissionRevoked:
		return AttentionRevoked, true
	}
	return "", false
}
