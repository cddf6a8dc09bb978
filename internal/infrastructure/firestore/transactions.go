package firestore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/transaction"
	"finpulse/internal/shared/stream"
)

type transactionDoc struct {
	TransactionID   string    `firestore:"transaction_id"`
	AccountID       string    `firestore:"account_id"`
	Amount          float64   `firestore:"amount"`
	TransactionType string    `firestore:"transaction_type"`
	Date            time.Time `firestore:"date"`
	Category        []string  `firestore:"category"`
	Pending         bool      `firestore:"pending"`
	MerchantName    *string   `firestore:"merchant_name"`
	SyncedAt        time.Time `firestore:"synced_at"`
}

func toTransaction(d *transactionDoc, id string) (transaction.Transaction, error) {
	amount, err := transaction.SignedAmount(decimal.NewFromFloat(d.Amount), d.TransactionType)
	if err != nil {
		return transaction.Transaction{}, err
	}

	tx := transaction.Transaction{
		ID:           d.TransactionID,
		AccountID:    d.AccountID,
		Amount:       amount,
		Date:         d.Date,
		Category:     d.Category,
		Pending:      d.Pending,
		MerchantName: d.MerchantName,
		SyncedAt:     d.SyncedAt,
	}
	if tx.ID == "" {
		tx.ID = id
	}
	if err := tx.Validate(); err != nil {
		return transaction.Transaction{}, err
	}
	return tx, nil
}

// TransactionRepository implements transaction.Repository
type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string) ([]transaction.Transaction, error) {
	return listUserCollection(ctx, r.store, userID, transactionsCollection, decodeAs(toTransaction))
}

func (r *TransactionRepository) WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]transaction.Transaction] {
	return watchUserCollection(ctx, r.store, userID, transactionsCollection, decodeAs(toTransaction))
}
