package budget

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrMissingID        = errors.New("budget id is required")
	ErrMissingCategory  = errors.New("budget category is required")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrInvalidThreshold = errors.New("alert threshold must be between 0 and 1")
	ErrNegativeLimit    = errors.New("budget limit must not be negative")
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Budget caps spending in one category for a period.
type Budget struct {
	ID             string          `json:"budget_id"`
	Category       string          `json:"category"`
	Limit          decimal.Decimal `json:"limit"`
	Spent          decimal.Decimal `json:"spent"`
	Period         Period          `json:"period"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Validate checks the invariants of a stored budget.
func (b Budget) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrMissingCategory
	}
	if !b.Period.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, b.Period)
	}
	if b.Limit.IsNegative() {
		return ErrNegativeLimit
	}
	if b.AlertThreshold.IsNegative() || b.AlertThreshold.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s", ErrInvalidThreshold, b.AlertThreshold)
	}
	return nil
}

// Usage is spent/limit. ok is false when the limit is not positive.
func (b Budget) Usage() (usage decimal.Decimal, ok bool) {
	if !b.Limit.IsPositive() {
		return decimal.Zero, false
	}
	return b.Spent.Div(b.Limit), true
}

// MonthlyTotal sums the limits of every monthly budget.
func MonthlyTotal(budgets []Budget) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		if b.Period == PeriodMonthly {
			total = total.Add(b.Limit)
		}
	}
	return total
}
