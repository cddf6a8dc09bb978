package budget

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAlertFor(t *testing.T) {
	tests := []struct {
		name      string
		limit     string
		spent     string
		threshold string
		wantAlert bool
		want      Severity
	}{
		{name: "above threshold under limit", limit: "300", spent: "265", threshold: "0.8", wantAlert: true, want: SeverityMedium},
		{name: "over limit", limit: "300", spent: "310", threshold: "0.8", wantAlert: true, want: SeverityHigh},
		{name: "well under threshold", limit: "300", spent: "100", threshold: "0.8", wantAlert: false},
		{name: "exactly at threshold", limit: "100", spent: "80", threshold: "0.8", wantAlert: true, want: SeverityMedium},
		{name: "exactly at limit", limit: "100", spent: "100", threshold: "0.8", wantAlert: true, want: SeverityHigh},
		{name: "zero threshold always alerts", limit: "100", spent: "0", threshold: "0", wantAlert: true, want: SeverityMedium},
		{name: "threshold of one only at limit", limit: "100", spent: "99.99", threshold: "1", wantAlert: false},
		{name: "zero limit never alerts", limit: "0", spent: "50", threshold: "0.5", wantAlert: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Budget{
				ID:             "b-1",
				Category:       "Groceries",
				Limit:          dec(tt.limit),
				Spent:          dec(tt.spent),
				Period:         PeriodMonthly,
				AlertThreshold: dec(tt.threshold),
			}

			got, ok := AlertFor(b)
			if ok != tt.wantAlert {
				t.Fatalf("AlertFor() ok = %v, want %v", ok, tt.wantAlert)
			}
			if !ok {
				return
			}
			if got.Severity != tt.want {
				t.Errorf("AlertFor() severity = %s, want %s", got.Severity, tt.want)
			}
			if got.BudgetID != "b-1" || got.Category != "Groceries" {
				t.Errorf("AlertFor() identity = %+v", got)
			}
			if !got.Limit.Equal(b.Limit) || !got.Spent.Equal(b.Spent) {
				t.Errorf("AlertFor() amounts = %s/%s, want %s/%s", got.Spent, got.Limit, b.Spent, b.Limit)
			}
		})
	}
}

func TestAlerts_NeverLow(t *testing.T) {
	var budgets []Budget
	for _, spent := range []string{"0", "10", "50", "79", "80", "95", "100", "150"} {
		budgets = append(budgets, Budget{
			ID: "b-" + spent, Category: "c", Limit: dec("100"), Spent: dec(spent),
			Period: PeriodMonthly, AlertThreshold: dec("0.8"),
		})
	}

	alerts := Alerts(budgets)
	if len(alerts) != 4 {
		t.Fatalf("Alerts() returned %d alerts, want 4", len(alerts))
	}
	for _, a := range alerts {
		if a.Severity == SeverityLow {
			t.Errorf("Alerts() produced LOW for %s", a.BudgetID)
		}
	}
	if alerts[0].BudgetID != "b-80" || alerts[3].BudgetID != "b-150" {
		t.Errorf("Alerts() order = %s..%s, want input order", alerts[0].BudgetID, alerts[3].BudgetID)
	}
}

func TestValidate(t *testing.T) {
	base := Budget{ID: "b-1", Category: "Rent", Limit: dec("1200"), Period: PeriodMonthly, AlertThreshold: dec("0.9")}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	mutate := map[string]func(b *Budget){
		"missing id":         func(b *Budget) { b.ID = "" },
		"missing category":   func(b *Budget) { b.Category = "" },
		"unknown period":     func(b *Budget) { b.Period = "fortnightly" },
		"negative limit":     func(b *Budget) { b.Limit = dec("-1") },
		"threshold above 1":  func(b *Budget) { b.AlertThreshold = dec("1.2") },
		"negative threshold": func(b *Budget) { b.AlertThreshold = dec("-0.1") },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			b := base
			fn(&b)
			if err := b.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestMonthlyTotal(t *testing.T) {
	budgets := []Budget{
		{Limit: dec("300"), Period: PeriodMonthly},
		{Limit: dec("450.50"), Period: PeriodMonthly},
		{Limit: dec("100"), Period: PeriodWeekly},
		{Limit: dec("5000"), Period: PeriodYearly},
	}
	if got := MonthlyTotal(budgets); !got.Equal(dec("750.50")) {
		t.Errorf("MonthlyTotal() = %s, want 750.50", got)
	}
}
