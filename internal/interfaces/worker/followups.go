package worker

import (
	"context"
	"fmt"

	"finpulse/internal/domain/webhook"
)

// FollowUps queues webhook side effects on the pool.
// It implements webhook.FollowUps.
type FollowUps struct {
	pool      *Pool
	notifier  webhook.Notifier
	publisher webhook.SyncPublisher
}

// NewFollowUps wires the side effects. notifier and publisher may be nil to
// disable push notifications or sync requests.
func NewFollowUps(pool *Pool, notifier webhook.Notifier, publisher webhook.SyncPublisher) *FollowUps {
	return &FollowUps{pool: pool, notifier: notifier, publisher: publisher}
}

func (f *FollowUps) NotifyAttention(a webhook.Attention) error {
	if f.notifier == nil {
		return nil
	}
	return f.pool.Submit(&attentionJob{notifier: f.notifier, attention: a})
}

func (f *FollowUps) RequestSync(req webhook.SyncRequest) error {
	if f.publisher == nil {
		return nil
	}
	return f.pool.Submit(&syncRequestJob{publisher: f.publisher, req: req})
}

type attentionJob struct {
	notifier  webhook.Notifier
	attention webhook.Attention
}

func (j *attentionJob) Execute(ctx context.Context) error {
	return j.notifier.NotifyAttention(ctx, j.attention)
}

func (j *attentionJob) UserID() string {
	return j.attention.UserID
}

func (j *attentionJob) Description() string {
	return fmt.Sprintf("attention notification (%s) for item %s", j.attention.Reason, j.attention.ItemID)
}

type syncRequestJob struct {
	publisher webhook.SyncPublisher
	req       webhook.SyncRequest
}

func (j *syncRequestJob) Execute(ctx context.Context) error {
	return j.publisher.PublishSyncRequest(ctx, j.req)
}

func (j *syncRequestJob) UserID() string {
	return j.req.UserID
}

func (j *syncRequestJob) Description() string {
	return fmt.Sprintf("sync request for item %s", j.req.ItemID)
}
