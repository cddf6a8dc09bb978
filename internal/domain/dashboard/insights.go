package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/budget"
	"finpulse/internal/domain/transaction"
)

// insightMonths is how many months the spending trend covers, current included.
const insightMonths = 3

// Insight compares one month's spending with the monthly budget total.
type Insight struct {
	MonthLabel string          `json:"month_label"`
	Spent      decimal.Decimal `json:"spent"`
	Budget     decimal.Decimal `json:"budget"`
}

// Insights returns the current month and the two before it, oldest first.
// Budgets are not month specific, so every month carries the same budget.
func Insights(txs []transaction.Transaction, budgets []budget.Budget, now time.Time, loc *time.Location) []Insight {
	monthly := budget.MonthlyTotal(budgets)
	local := now.In(loc)

	insights := make([]Insight, 0, insightMonths)
	for i := insightMonths - 1; i >= 0; i-- {
		month := time.Date(local.Year(), local.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
		insights = append(insights, Insight{
			MonthLabel: month.Format("Jan"),
			Spent:      spentIn(txs, month, loc),
			Budget:     monthly,
		})
	}
	return insights
}

// spentIn sums the absolute value of expenses in month's calendar month.
func spentIn(txs []transaction.Transaction, month time.Time, loc *time.Location) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.IsExpense() && sameMonth(tx.Date, month, loc) {
			total = total.Add(tx.Amount.Abs())
		}
	}
	return total
}
