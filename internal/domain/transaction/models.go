package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrMissingID        = errors.New("transaction id is required")
	ErrMissingAccountID = errors.New("account id is required")
	ErrMissingDate      = errors.New("transaction date is required")
	ErrInvalidType      = errors.New("transaction type must be debit or credit")
)

// Flags the provider may attach next to the amount.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Transaction is a synced bank transaction. Amount is signed:
// positive is income, negative is an expense.
type Transaction struct {
	ID           string          `json:"transaction_id"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Category     []string        `json:"category"`
	Pending      bool            `json:"pending"`
	MerchantName *string         `json:"merchant_name,omitempty"`
	SyncedAt     time.Time       `json:"synced_at"`
}

// IsExpense reports whether the transaction takes money out.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction brings money in.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// PrimaryCategory is the least specific category, or "" when uncategorized.
func (t Transaction) PrimaryCategory() string {
	if len(t.Category) == 0 {
		return ""
	}
	return t.Category[0]
}

// Validate checks the fields every stored transaction must carry.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrMissingAccountID
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// SignedAmount applies an optional debit/credit flag to a raw amount.
// A debit is always an expense and a credit always income, whatever the
// stored sign; without a flag the stored sign is kept.
func SignedAmount(amount decimal.Decimal, txType string) (decimal.Decimal, error) {
	switch strings.ToLower(strings.TrimSpace(txType)) {
	case "":
		return amount, nil
	case TypeDebit:
		return amount.Abs().Neg(), nil
	case TypeCredit:
		return amount.Abs(), nil
	default:
		return decimal.Zero, ErrInvalidType
	}
}
