package firestore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finpulse/internal/domain/account"
	"finpulse/internal/shared/stream"
)

type accountDoc struct {
	AccountID       string    `firestore:"account_id"`
	AccountName     string    `firestore:"account_name"`
	InstitutionName string    `firestore:"institution_name"`
	Type            string    `firestore:"type"`
	Balance         float64   `firestore:"balance"`
	LinkedAt        time.Time `firestore:"linked_at"`
}

func toAccount(d *accountDoc, id string) (account.Account, error) {
	a := account.Account{
		ID:              d.AccountID,
		Name:            d.AccountName,
		InstitutionName: d.InstitutionName,
		Type:            d.Type,
		Balance:         decimal.NewFromFloat(d.Balance),
		LinkedAt:        d.LinkedAt,
	}
	if a.ID == "" {
		a.ID = id
	}
	if err := a.Validate(); err != nil {
		return account.Account{}, err
	}
	return a, nil
}

// AccountRepository implements account.Repository
type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]account.Account, error) {
	return listUserCollection(ctx, r.store, userID, accountsCollection, decodeAs(toAccount))
}

func (r *AccountRepository) WatchByUserID(ctx context.Context, userID string) stream.Subscription[[]account.Account] {
	return watchUserCollection(ctx, r.store, userID, accountsCollection, decodeAs(toAccount))
}
