package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/account"
	"finpulse/internal/domain/budget"
	"finpulse/internal/domain/transaction"
)

// recentLimit caps the recent transactions list.
const recentLimit = 4

// Onboarding checklist keys.
const (
	ChecklistLinkAccount       = "link_account"
	ChecklistCreateBudget      = "create_budget"
	ChecklistFirstTransactions = "first_transactions"
)

type ChecklistItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Snapshot is the derived dashboard state. It is never stored.
type Snapshot struct {
	NetCashFlow        decimal.Decimal           `json:"net_cash_flow"`
	MonthToDateSpend   decimal.Decimal           `json:"month_to_date_spend"`
	Checklist          []ChecklistItem           `json:"onboarding_checklist"`
	SpendingInsights   []Insight                 `json:"spending_insights"`
	RecentTransactions []transaction.Transaction `json:"recent_transactions"`
}

// Empty is the snapshot shown without a signed-in user.
func Empty() Snapshot {
	return Snapshot{
		NetCashFlow:        decimal.Zero,
		MonthToDateSpend:   decimal.Zero,
		Checklist:          []ChecklistItem{},
		SpendingInsights:   []Insight{},
		RecentTransactions: []transaction.Transaction{},
	}
}

// Compute derives the dashboard from the user's current collections.
func Compute(txs []transaction.Transaction, accounts []account.Account, budgets []budget.Budget, now time.Time, loc *time.Location) Snapshot {
	income, spend := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if !sameMonth(tx.Date, now, loc) {
			continue
		}
		switch {
		case tx.IsIncome():
			income = income.Add(tx.Amount)
		case tx.IsExpense():
			spend = spend.Add(tx.Amount.Abs())
		}
	}

	recent := Flatten(GroupByMonth(txs, loc))
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	if recent == nil {
		recent = []transaction.Transaction{}
	}

	return Snapshot{
		NetCashFlow:        income.Sub(spend),
		MonthToDateSpend:   spend,
		Checklist:          Checklist(txs, accounts, budgets),
		SpendingInsights:   Insights(txs, budgets, now, loc),
		RecentTransactions: recent,
	}
}

// Checklist returns the onboarding steps in display order.
func Checklist(txs []transaction.Transaction, accounts []account.Account, budgets []budget.Budget) []ChecklistItem {
	return []ChecklistItem{
		{Key: ChecklistLinkAccount, Title: "Link a bank account", Done: len(accounts) > 0},
		{Key: ChecklistCreateBudget, Title: "Create your first budget", Done: len(budgets) > 0},
		{Key: ChecklistFirstTransactions, Title: "Review your transactions", Done: len(txs) > 0},
	}
}
