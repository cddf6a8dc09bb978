package savings

import (
	"context"

	"finpulse/internal/domain/budget"
	"finpulse/internal/shared/stream"
)

type Service struct {
	goals   GoalRepository
	budgets budget.Repository
}

func NewService(goals GoalRepository, budgets budget.Repository) *Service {
	return &Service{goals: goals, budgets: budgets}
}

// Watch emits a snapshot whenever goals or budgets change.
func (s *Service) Watch(ctx context.Context, userID string) stream.Subscription[Snapshot] {
	var (
		goals   stream.Subscription[[]Goal]
		budgets stream.Subscription[[]budget.Budget]
	)
	if userID == "" {
		goals = stream.Just(ctx, []Goal{})
		budgets = stream.Just(ctx, []budget.Budget{})
	} else {
		goals = s.goals.WatchByUserID(ctx, userID)
		budgets = s.budgets.WatchByUserID(ctx, userID)
	}
	return stream.CombineLatest2(ctx, goals, budgets, Compute)
}

// Current returns the first snapshot of Watch.
func (s *Service) Current(ctx context.Context, userID string) (Snapshot, error) {
	return stream.First(ctx, s.Watch(ctx, userID))
}
