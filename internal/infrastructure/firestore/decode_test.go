package firestore

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/budget"
	"finpulse/internal/domain/item"
	"finpulse/internal/domain/transaction"
)

func TestToTransaction(t *testing.T) {
	date := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		doc        transactionDoc
		wantAmount string
		wantErr    error
	}{
		{"signed expense kept", transactionDoc{TransactionID: "t1", AccountID: "a", Amount: -82.45, Date: date}, "-82.45", nil},
		{"signed income kept", transactionDoc{TransactionID: "t1", AccountID: "a", Amount: 4200, Date: date}, "4200", nil},
		{"debit flag forces expense", transactionDoc{TransactionID: "t1", AccountID: "a", Amount: 156.80, TransactionType: "debit", Date: date}, "-156.8", nil},
		{"credit flag forces income", transactionDoc{TransactionID: "t1", AccountID: "a", Amount: -12, TransactionType: "credit", Date: date}, "12", nil},
		{"unknown flag rejected", transactionDoc{TransactionID: "t1", AccountID: "a", Amount: 1, TransactionType: "refund", Date: date}, "", transaction.ErrInvalidType},
		{"missing date rejected", transactionDoc{TransactionID: "t1", AccountID: "a", Amount: 1}, "", transaction.ErrMissingDate},
		{"missing account rejected", transactionDoc{TransactionID: "t1", Amount: 1, Date: date}, "", transaction.ErrMissingAccountID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toTransaction(&tt.doc, "doc-id")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("toTransaction() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if !got.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Errorf("Amount = %s, want %s", got.Amount, tt.wantAmount)
			}
		})
	}
}

func TestToTransaction_IDFallsBackToDocumentID(t *testing.T) {
	doc := transactionDoc{AccountID: "a", Amount: 1, Date: time.Now()}

	got, err := toTransaction(&doc, "doc-id")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "doc-id" {
		t.Errorf("ID = %q, want doc-id", got.ID)
	}
}

func TestToTransaction_ExactSums(t *testing.T) {
	date := time.Now()
	total := decimal.Zero
	for _, amount := range []float64{-82.45, -156.80, 4200.00} {
		tx, err := toTransaction(&transactionDoc{TransactionID: "t", AccountID: "a", Amount: amount, Date: date}, "t")
		if err != nil {
			t.Fatal(err)
		}
		total = total.Add(tx.Amount)
	}
	if !total.Equal(decimal.RequireFromString("3960.75")) {
		t.Errorf("total = %s, want 3960.75", total)
	}
}

func TestToBudget(t *testing.T) {
	good := budgetDoc{BudgetID: "b1", Category: "Food", Limit: 300, Spent: 265, Period: "monthly", AlertThreshold: 0.8}
	got, err := toBudget(&good, "b1")
	if err != nil {
		t.Fatalf("toBudget() error = %v", err)
	}
	if a, ok := budget.AlertFor(got); !ok || a.Severity != budget.SeverityMedium {
		t.Errorf("AlertFor(decoded) = %+v, %v; want MEDIUM", a, ok)
	}

	bad := budgetDoc{BudgetID: "b2", Category: "Food", Limit: 300, Period: "daily"}
	if _, err := toBudget(&bad, "b2"); !errors.Is(err, budget.ErrInvalidPeriod) {
		t.Errorf("toBudget(daily) error = %v, want ErrInvalidPeriod", err)
	}
}

func TestDecodeEach_SkipsFailures(t *testing.T) {
	inputs := []string{"1", "two", "3", "", "5"}
	var skipped []string

	got := decodeEach(inputs, strconv.Atoi, func(in string, err error) {
		skipped = append(skipped, in)
	})

	if want := []int{1, 3, 5}; len(got) != len(want) || got[0] != 1 || got[1] != 3 || got[2] != 5 {
		t.Errorf("decoded = %v, want %v", got, want)
	}
	if len(skipped) != 2 || skipped[0] != "two" || skipped[1] != "" {
		t.Errorf("skipped = %q, want [two \"\"]", skipped)
	}
}

func TestDecodeEach_EmptyInputIsEmptySet(t *testing.T) {
	got := decodeEach([]string(nil), strconv.Atoi, func(string, error) {})
	if got == nil || len(got) != 0 {
		t.Errorf("decoded = %v, want empty non-nil slice", got)
	}
}

func TestItemUpdates(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		t     item.Transition
		paths []string
	}{
		{"noop writes nothing", item.Noop("X"), nil},
		{"sync needed", item.MarkSyncNeeded("S", 3), []string{"sync_needed", "new_transactions_count", "webhook_received_at"}},
		{"synced", item.MarkSynced("S"), []string{"sync_needed", "webhook_received_at"}},
		{"error", item.MarkError("E", item.Error{Code: item.LoginRequiredCode}), []string{"item_status", "item_error", "requires_reauth", "webhook_received_at"}},
		{"revoked", item.SetStatus("R", item.StatusRevoked), []string{"item_status", "webhook_received_at"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.t
			tr.ReceivedAt = at
			updates := itemUpdates(tr)

			if len(updates) != len(tt.paths) {
				t.Fatalf("got %d updates, want %v", len(updates), tt.paths)
			}
			for i, u := range updates {
				if u.Path != tt.paths[i] {
					t.Errorf("update %d path = %q, want %q", i, u.Path, tt.paths[i])
				}
			}
		})
	}
}

func TestToItem_Defaults(t *testing.T) {
	got, err := toItem(&itemDoc{UserID: "u1"}, "it1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "it1" || got.Status != item.StatusOK || got.Error != nil {
		t.Errorf("item = %+v", got)
	}

	back := fromItem(&item.Item{ID: "it1", Error: &item.Error{Code: "X"}})
	if back.Error == nil || back.Error.Code != "X" {
		t.Errorf("fromItem().Error = %+v", back.Error)
	}
}
