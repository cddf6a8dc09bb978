package firebase

import (
	"context"
	"fmt"

	"finpulse/internal/domain/webhook"
	"finpulse/internal/shared/messages"
)

// TokenSource lists a user's device tokens.
type TokenSource interface {
	Tokens(ctx context.Context, userID string) ([]string, error)
}

// Notifier pushes item attention notifications to the owner's devices.
// It implements webhook.Notifier.
type Notifier struct {
	client   *Client
	tokens   TokenSource
	messages *messages.Messages
}

func NewNotifier(client *Client, tokens TokenSource, msgs *messages.Messages) *Notifier {
	return &Notifier{client: client, tokens: tokens, messages: msgs}
}

func (n *Notifier) NotifyAttention(ctx context.Context, a webhook.Attention) error {
	text, ok := n.textFor(a.Reason)
	if !ok {
		return fmt.Errorf("no message for attention reason %q", a.Reason)
	}

	tokens, err := n.tokens.Tokens(ctx, a.UserID)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	text = text.Render(a.InstitutionName)
	data := map[string]string{
		"type":    "item_attention",
		"item_id": a.ItemID,
		"reason":  string(a.Reason),
	}
	return n.client.SendMulticast(ctx, a.UserID, tokens, text.Title, text.Body, data)
}

func (n *Notifier) textFor(reason webhook.AttentionReason) (messages.MessageText, bool) {
	switch reason {
	case webhook.AttentionReauthRequired:
		return n.messages.ItemLoginRequired, true
	case webhook.AttentionPendingExpiration:
		return n.messages.ItemPendingExpiration, true
	case webhook.AttentionRevoked:
		return n.messages.ItemPermissionRevoked, true
	}
	return messages.MessageText{}, false
}
