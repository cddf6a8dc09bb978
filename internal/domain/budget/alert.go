package budget

import "github.com/shopspring/decimal"

type Severity string

// SeverityLow is part of the vocabulary shared with clients but the alert
// rule never yields it: budgets under their threshold raise no alert at all.
const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Alert flags a budget whose usage crossed its alert threshold.
type Alert struct {
	BudgetID string          `json:"budget_id"`
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
	Severity Severity        `json:"severity"`
}

var one = decimal.NewFromInt(1)

// AlertFor returns the alert for b, if any.
// usage >= 1 is HIGH, threshold <= usage < 1 is MEDIUM.
func AlertFor(b Budget) (Alert, bool) {
	usage, ok := b.Usage()
	if !ok || usage.LessThan(b.AlertThreshold) {
		return Alert{}, false
	}

	severity := SeverityMedium
	if usage.GreaterThanOrEqual(one) {
		severity = SeverityHigh
	}

	return Alert{
		BudgetID: b.ID,
		Category: b.Category,
		Limit:    b.Limit,
		Spent:    b.Spent,
		Severity: severity,
	}, true
}

// Alerts derives the alerts for budgets, keeping their order.
func Alerts(budgets []Budget) []Alert {
	alerts := make([]Alert, 0, len(budgets))
	for _, b := range budgets {
		if a, ok := AlertFor(b); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}
