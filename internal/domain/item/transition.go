package item

import "time"

// Transition is a partial update of an item. Nil fields are left untouched,
// so applying a transition never clobbers fields written by other writers,
// and applying it twice leaves the same values as applying it once.
type Transition struct {
	// Name identifies the webhook that produced the transition, for logs.
	Name string

	SyncNeeded           *bool
	NewTransactionsCount *int
	Status               *Status
	Error                *Error
	RequiresReauth       *bool

	// ReceivedAt is stamped on every mutating transition when it is applied.
	ReceivedAt time.Time
}

// IsNoop reports whether the transition writes nothing.
func (t Transition) IsNoop() bool {
	return t.SyncNeeded == nil &&
		t.NewTransactionsCount == nil &&
		t.Status == nil &&
		t.Error == nil &&
		t.RequiresReauth == nil
}

// ApplyTo mirrors the stored partial update on an in-memory item.
func (t Transition) ApplyTo(it *Item) {
	if t.IsNoop() {
		return
	}
	if t.SyncNeeded != nil {
		it.SyncNeeded = *t.SyncNeeded
	}
	if t.NewTransactionsCount != nil {
		it.NewTransactionsCount = *t.NewTransactionsCount
	}
	if t.Status != nil {
		it.Status = *t.Status
	}
	if t.Error != nil {
		e := *t.Error
		it.Error = &e
	}
	if t.RequiresReauth != nil {
		it.RequiresReauth = *t.RequiresReauth
	}
	if !t.ReceivedAt.IsZero() {
		it.WebhookReceivedAt = t.ReceivedAt
	}
}

// Noop returns a transition that writes nothing.
func Noop(name string) Transition {
	return Transition{Name: name}
}

// MarkSyncNeeded records that new transactions are waiting at the provider.
func MarkSyncNeeded(name string, newTransactions int) Transition {
	return Transition{
		Name:                 name,
		SyncNeeded:           ptr(true),
		NewTransactionsCount: ptr(newTransactions),
	}
}

// MarkSynced clears the sync flag.
func MarkSynced(name string) Transition {
	return Transition{Name: name, SyncNeeded: ptr(false)}
}

// MarkError records a provider error. Login errors require re-authentication.
func MarkError(name string, e Error) Transition {
	return Transition{
		Name:           name,
		Status:         ptr(StatusError),
		Error:          &e,
		RequiresReauth: ptr(e.Code == LoginRequiredCode),
	}
}

// SetStatus moves the item to status.
func SetStatus(name string, status Status) Transition {
	return Transition{Name: name, Status: ptr(status)}
}

func ptr[T any](v T) *T {
	return &v
}
