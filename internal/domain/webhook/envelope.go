package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"finpulse/internal/domain/item"
)

// ErrInvalidEnvelope is returned when a webhook body is not a JSON object.
var ErrInvalidEnvelope = errors.New("invalid webhook envelope")

type Type string

const (
	TypeTransactions Type = "TRANSACTIONS"
	TypeItem         Type = "ITEM"
	TypeAuth         Type = "AUTH"
)

// Webhook codes acted upon or acknowledged.
const (
	CodeSyncUpdatesAvailable      = "SYNC_UPDATES_AVAILABLE"
	CodeInitialUpdate             = "INITIAL_UPDATE"
	CodeHistoricalUpdate          = "HISTORICAL_UPDATE"
	CodeError                     = "ERROR"
	CodePendingExpiration         = "PENDING_EXPIRATION"
	CodeUserPermissionRevoked     = "USER_PERMISSION_REVOKED"
	CodeWebhookUpdateAcknowledged = "WEBHOOK_UPDATE_ACKNOWLEDGED"
	CodeAutomaticallyVerified     = "AUTOMATICALLY_VERIFIED"
	CodeVerificationExpired       = "VERIFICATION_EXPIRED"
)

// Envelope is one provider notification. It is never persisted as-is.
type Envelope struct {
	Type            Type        `json:"webhook_type"`
	Code            string      `json:"webhook_code"`
	ItemID          string      `json:"item_id"`
	Error           *item.Error `json:"error,omitempty"`
	NewTransactions int         `json:"new_transactions,omitempty"`

	// Payload holds the full decoded body, including type-specific fields.
	Payload map[string]any `json:"-"`
}

// Name is the "TYPE/CODE" pair used in logs and metrics.
func (e Envelope) Name() string {
	return string(e.Type) + "/" + e.Code
}

// ParseEnvelope decodes a raw webhook body.
func ParseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if err := json.Unmarshal(body, &env.Payload); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return env, nil
}
