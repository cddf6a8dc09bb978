// Package firestore implements the domain repositories on Cloud Firestore.
//
// Every user's data lives under users/{uid}: items, transactions, accounts,
// budgets and savings_goals subcollections, plus the device tokens on the
// user document itself.
package firestore

import (
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
)

const (
	usersCollection        = "users"
	itemsCollection        = "items"
	transactionsCollection = "transactions"
	accountsCollection     = "accounts"
	budgetsCollection      = "budgets"
	goalsCollection        = "savings_goals"
)

// Store wraps the Firestore client shared by all repositories.
type Store struct {
	client *firestore.Client
	logger *zap.Logger
}

func NewStore(client *firestore.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

func (s *Store) user(uid string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(uid)
}

func (s *Store) userCollection(uid, name string) *firestore.CollectionRef {
	return s.user(uid).Collection(name)
}

// ownerOf returns the uid of the users/{uid} document a record is nested in.
func ownerOf(ref *firestore.DocumentRef) (string, error) {
	if ref == nil || ref.Parent == nil || ref.Parent.Parent == nil {
		return "", fmt.Errorf("document %v is not nested under a user", ref)
	}
	user := ref.Parent.Parent
	if user.Parent == nil || user.Parent.ID != usersCollection {
		return "", fmt.Errorf("document %s is not nested under a user", ref.Path)
	}
	return user.ID, nil
}
