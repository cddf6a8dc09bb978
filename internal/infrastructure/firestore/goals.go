package firestore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/savings"
	"finpulse/internal/shared/stream"
)

type goalDoc struct {
	GoalID        string     `firestore:"goal_id"`
	Name          string     `firestore:"name"`
	TargetAmount  float64    `firestore:"target_amount"`
	CurrentAmount float64    `firestore:"current_amount"`
	Deadline      *time.Time `firestore:"deadline"`
	CreatedAt     time.Time  `firestore:"created_at"`
}

func toGoal(d *goalDoc, id string) (savings.Goal, error) {
	g := savings.Goal{
		ID:            d.GoalID,
		Name:          d.Name,
		TargetAmount:  decimal.NewFromFloat(d.TargetAmount),
		CurrentAmount: decimal.NewFromFloat(d.CurrentAmount),
		Deadline:      d.Deadline,
		CreatedAt:     d.CreatedAt,
	}
	if g.ID == "" {
		g.ID = id
	}
	if err := g.Validate(); err != nil {
		return savings.Goal{}, err
	}
	return g, nil
}

// GoalRepository implements savings.GoalRepository
type GoalRepository struct {
	store *Store
}

func NewGoalRepository(store *Store) *GoalRepository {
	return &GoalRepository{store: store}
}

func (r *GoalRepository) WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]savings.Goal] {
	return watchUserCollection(ctx, r.store, userID, goalsCollection, decodeAs(toGoal))
}
