package firebase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"finpulse/internal/domain/webhook"
	"finpulse/internal/shared/messages"
)

type mockSender struct {
	SendFunc func(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error)
	sent     []*messaging.MulticastMessage
}

func (m *mockSender) SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	m.sent = append(m.sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return &messaging.BatchResponse{SuccessCount: len(msg.Tokens)}, nil
}

type staticTokens struct {
	tokens []string
	err    error
}

func (s staticTokens) Tokens(ctx context.Context, userID string) ([]string, error) {
	return s.tokens, s.err
}

func TestNotifyAttention(t *testing.T) {
	sender := &mockSender{}
	msgs := messages.Defaults()
	n := NewNotifier(NewClient(sender, nil, zap.NewNop()), staticTokens{tokens: []string{"tok-1", "tok-2"}}, &msgs)

	err := n.NotifyAttention(context.Background(), webhook.Attention{
		UserID:          "u1",
		ItemID:          "it1",
		InstitutionName: "Chase",
		Reason:          webhook.AttentionReauthRequired,
	})
	if err != nil {
		t.Fatalf("NotifyAttention() error = %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if len(msg.Tokens) != 2 {
		t.Errorf("tokens = %v", msg.Tokens)
	}
	if msg.Notification.Title != "Reconnect Chase" {
		t.Errorf("title = %q", msg.Notification.Title)
	}
	if msg.Data["item_id"] != "it1" || msg.Data["reason"] != string(webhook.AttentionReauthRequired) {
		t.Errorf("data = %v", msg.Data)
	}
}

func TestNotifyAttention_NoTokens(t *testing.T) {
	sender := &mockSender{}
	msgs := messages.Defaults()
	n := NewNotifier(NewClient(sender, nil, zap.NewNop()), staticTokens{}, &msgs)

	if err := n.NotifyAttention(context.Background(), webhook.Attention{UserID: "u1", Reason: webhook.AttentionRevoked}); err != nil {
		t.Fatalf("NotifyAttention() error = %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(sender.sent))
	}
}

func TestNotifyAttention_Errors(t *testing.T) {
	msgs := messages.Defaults()
	tokenErr := errors.New("firestore unavailable")

	n := NewNotifier(NewClient(&mockSender{}, nil, zap.NewNop()), staticTokens{err: tokenErr}, &msgs)
	if err := n.NotifyAttention(context.Background(), webhook.Attention{UserID: "u1", Reason: webhook.AttentionRevoked}); !errors.Is(err, tokenErr) {
		t.Errorf("error = %v, want %v", err, tokenErr)
	}

	if err := n.NotifyAttention(context.Background(), webhook.Attention{UserID: "u1", Reason: "unknown"}); err == nil {
		t.Error("expected error for unknown reason")
	}
}

func TestSendMulticast_Batches(t *testing.T) {
	sender := &mockSender{}
	client := NewClient(sender, nil, zap.NewNop())

	tokens := make([]string, 1201)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok-%d", i)
	}

	if err := client.SendMulticast(context.Background(), "u1", tokens, "t", "b", nil); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("batches = %d, want 3", len(sender.sent))
	}
	if len(sender.sent[0].Tokens) != 500 || len(sender.sent[2].Tokens) != 201 {
		t.Errorf("batch sizes = %d, %d, %d", len(sender.sent[0].Tokens), len(sender.sent[1].Tokens), len(sender.sent[2].Tokens))
	}
}

func TestSendMulticast_SendError(t *testing.T) {
	sendErr := errors.New("quota exceeded")
	sender := &mockSender{
		SendFunc: func(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
			return nil, sendErr
		},
	}
	client := NewClient(sender, nil, zap.NewNop())

	if err := client.SendMulticast(context.Background(), "u1", []string{"tok"}, "t", "b", nil); !errors.Is(err, sendErr) {
		t.Errorf("error = %v, want %v", err, sendErr)
	}
}

func TestChunkTokens(t *testing.T) {
	if got := chunkTokens(nil, 500); len(got) != 0 {
		t.Errorf("chunkTokens(nil) = %v", got)
	}
	if got := chunkTokens([]string{"a", "b", "c"}, 2); len(got) != 2 || len(got[1]) != 1 {
		t.Errorf("chunkTokens(3, 2) = %v", got)
	}
}
