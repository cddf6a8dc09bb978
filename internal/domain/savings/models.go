package savings

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/budget"
)

// Domain errors
var (
	ErrMissingID   = errors.New("goal id is required")
	ErrMissingName = errors.New("goal name is required")
)

// Goal is a user's savings target.
type Goal struct {
	ID            string          `json:"goal_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Progress is current/target clamped to [0, 1]; 0 without a positive target.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount)
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return p
}

// GoalStatus is a goal with its derived progress.
type GoalStatus struct {
	Goal
	Progress decimal.Decimal `json:"progress"`
}

// Snapshot is the derived savings screen state.
type Snapshot struct {
	Goals  []GoalStatus   `json:"goals"`
	Alerts []budget.Alert `json:"alerts"`
}

// Compute orders goals by creation time and attaches budget alerts.
func Compute(goals []Goal, budgets []budget.Budget) Snapshot {
	statuses := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		statuses = append(statuses, GoalStatus{Goal: g, Progress: g.Progress()})
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].CreatedAt.Before(statuses[j].CreatedAt)
	})

	return Snapshot{
		Goals:  statuses,
		Alerts: budget.Alerts(budgets),
	}
}
