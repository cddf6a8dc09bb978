package firestore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/budget"
	"finpulse/internal/shared/stream"
)

type budgetDoc struct {
	BudgetID       string    `firestore:"budget_id"`
	Category       string    `firestore:"category"`
	Limit          float64   `firestore:"limit"`
	Spent          float64   `firestore:"spent"`
	Period         string    `firestore:"period"`
	AlertThreshold float64   `firestore:"alert_threshold"`
	CreatedAt      time.Time `firestore:"created_at"`
}

func toBudget(d *budgetDoc, id string) (budget.Budget, error) {
	b := budget.Budget{
		ID:             d.BudgetID,
		Category:       d.Category,
		Limit:          decimal.NewFromFloat(d.Limit),
		Spent:          decimal.NewFromFloat(d.Spent),
		Period:         budget.Period(d.Period),
		AlertThreshold: decimal.NewFromFloat(d.AlertThreshold),
		CreatedAt:      d.CreatedAt,
	}
	if b.ID == "" {
		b.ID = id
	}
	if err := b.Validate(); err != nil {
		return budget.Budget{}, err
	}
	return b, nil
}

// BudgetRepository implements budget.Repository
type BudgetRepository struct {
	store *Store
}

func NewBudgetRepository(store *Store) *BudgetRepository {
	return &BudgetRepository{store: store}
}

func (r *BudgetRepository) ListByUserID(ctx context.Context, userID string) ([]budget.Budget, error) {
	return listUserCollection(ctx, r.store, userID, budgetsCollection, decodeAs(toBudget))
}

func (r *BudgetRepository) WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]budget.Budget] {
	return watchUserCollection(ctx, r.store, userID, budgetsCollection, decodeAs(toBudget))
}
