package webhook

import (
	"testing"

	"finpulse/internal/domain/item"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name  string
		env   Envelope
		check func(t *testing.T, it *item.Item)
	}{
		{
			name: "sync updates available",
			env:  Envelope{Type: TypeTransactions, Code: CodeSyncUpdatesAvailable, NewTransactions: 7},
			check: func(t *testing.T, it *item.Item) {
				if !it.SyncNeeded || it.NewTransactionsCount != 7 {
					t.Errorf("item = %+v, want sync_needed with 7 new transactions", it)
				}
			},
		},
		{
			name: "initial update clears sync flag",
			env:  Envelope{Type: TypeTransactions, Code: CodeInitialUpdate},
			check: func(t *testing.T, it *item.Item) {
				if it.SyncNeeded {
					t.Error("SyncNeeded should be false")
				}
			},
		},
		{
			name: "historical update clears sync flag",
			env:  Envelope{Type: TypeTransactions, Code: CodeHistoricalUpdate},
			check: func(t *testing.T, it *item.Item) {
				if it.SyncNeeded {
					t.Error("SyncNeeded should be false")
				}
			},
		},
		{
			name: "item error without login",
			env:  Envelope{Type: TypeItem, Code: CodeError, Error: &item.Error{Code: "INSTITUTION_DOWN"}},
			check: func(t *testing.T, it *item.Item) {
				if it.Status != item.StatusError || it.RequiresReauth {
					t.Errorf("Status = %q RequiresReauth = %v", it.Status, it.RequiresReauth)
				}
			},
		},
		{
			name: "item error without error body",
			env:  Envelope{Type: TypeItem, Code: CodeError},
			check: func(t *testing.T, it *item.Item) {
				if it.Status != item.StatusError || it.Error == nil {
					t.Errorf("Status = %q Error = %v", it.Status, it.Error)
				}
			},
		},
		{
			name: "pending expiration",
			env:  Envelope{Type: TypeItem, Code: CodePendingExpiration},
			check: func(t *testing.T, it *item.Item) {
				if it.Status != item.StatusPendingExpiration {
					t.Errorf("Status = %q", it.Status)
				}
			},
		},
		{
			name: "permission revoked",
			env:  Envelope{Type: TypeItem, Code: CodeUserPermissionRevoked},
			check: func(t *testing.T, it *item.Item) {
				if it.Status != item.StatusRevoked {
					t.Errorf("Status = %q", it.Status)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Route(tt.env)
			if tr.IsNoop() {
				t.Fatal("Route() returned a no-op")
			}
			it := &item.Item{SyncNeeded: true, Status: item.StatusOK}
			tr.ApplyTo(it)
			tt.check(t, it)
		})
	}
}

func TestRoute_IsTotal(t *testing.T) {
	noops := []Envelope{
		{Type: TypeItem, Code: CodeWebhookUpdateAcknowledged},
		{Type: TypeAuth, Code: CodeAutomaticallyVerified},
		{Type: TypeAuth, Code: CodeVerificationExpired},
		{Type: TypeTransactions, Code: "DEFAULT_UPDATE"},
		{Type: TypeItem, Code: "NEW_ACCOUNTS_AVAILABLE"},
		{Type: "HOLDINGS", Code: "DEFAULT_UPDATE"},
		{Type: "", Code: ""},
		{Type: TypeAuth, Code: CodeError},
		{Type: "item", Code: "error"},
	}

	for _, env := range noops {
		t.Run(env.Name(), func(t *testing.T) {
			if tr := Route(env); !tr.IsNoop() {
				t.Errorf("Route(%s) = %+v, want no-op", env.Name(), tr)
			}
		})
	}
}

func TestRecognized(t *testing.T) {
	if !Recognized(Envelope{Type: TypeAuth, Code: CodeVerificationExpired}) {
		t.Error("AUTH/VERIFICATION_EXPIRED should be recognized")
	}
	if Recognized(Envelope{Type: "OTHER", Code: "X"}) {
		t.Error("OTHER/X should not be recognized")
	}
}
