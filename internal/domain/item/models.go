package item

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrItemNotFound       = errors.New("item not found")
	ErrMissingUserID      = errors.New("user id is required")
	ErrMissingPublicToken = errors.New("public token is required")
	ErrInvalidExchange    = errors.New("provider exchange returned no item")
)

type Status string

const (
	StatusOK                Status = "ok"
	StatusError             Status = "error"
	StatusPendingExpiration Status = "pending_expiration"
	StatusRevoked           Status = "revoked"
)

// LoginRequiredCode is the provider error code that means the user must
// re-authenticate with their bank.
const LoginRequiredCode = "ITEM_LOGIN_REQUIRED"

// Error is the last error the provider reported for an item.
type Error struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
	Type    string `json:"error_type,omitempty"`
}

// Item is a bank connection at the aggregation provider, owned by one user.
// Stored under users/{uid}/items/{item_id}.
type Item struct {
	ID                   string    `json:"item_id"`
	UserID               string    `json:"user_id"`
	InstitutionName      string    `json:"institution_name"`
	AccessToken          string    `json:"-"`
	SyncNeeded           bool      `json:"sync_needed"`
	NewTransactionsCount int       `json:"new_transactions_count"`
	Status               Status    `json:"item_status"`
	Error                *Error    `json:"item_error,omitempty"`
	RequiresReauth       bool      `json:"requires_reauth"`
	WebhookReceivedAt    time.Time `json:"webhook_received_at,omitzero"`
	LinkedAt             time.Time `json:"linked_at"`
}
