package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"finpulse/internal/domain/webhook"
)

type mockProcessor struct {
	HandleFunc func(ctx context.Context, env webhook.Envelope) (webhook.Outcome, error)
	calls      []webhook.Envelope
}

func (m *mockProcessor) Handle(ctx context.Context, env webhook.Envelope) (webhook.Outcome, error) {
	m.calls = append(m.calls, env)
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, env)
	}
	return webhook.OutcomeApplied, nil
}

const testSecret = "whsec_test"

func newWebhookRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/provider", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(webhook.SignatureHeader, signature)
	}
	return req
}

func TestHandleProviderWebhook(t *testing.T) {
	loginRequired := `{"webhook_type":"ITEM","webhook_code":"ERROR","item_id":"item-1","error":{"error_code":"ITEM_LOGIN_REQUIRED"}}`

	tests := []struct {
		name           string
		secret         string
		body           string
		signature      string
		processErr     error
		expectedStatus int
		expectedBody   string
		expectHandled  bool
	}{
		{
			name:           "valid signature",
			secret:         testSecret,
			body:           loginRequired,
			signature:      webhook.Sign([]byte(loginRequired), testSecret),
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
			expectHandled:  true,
		},
		{
			name:           "bad signature",
			secret:         testSecret,
			body:           loginRequired,
			signature:      webhook.Sign([]byte(loginRequired), "whsec_other"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Unauthorized",
		},
		{
			name:           "missing signature",
			secret:         testSecret,
			body:           loginRequired,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Unauthorized",
		},
		{
			name:           "no secret configured accepts unsigned",
			body:           loginRequired,
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
			expectHandled:  true,
		},
		{
			name:           "malformed body after valid signature",
			secret:         testSecret,
			body:           "not json",
			signature:      webhook.Sign([]byte("not json"), testSecret),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "processing error",
			secret:         testSecret,
			body:           loginRequired,
			signature:      webhook.Sign([]byte(loginRequired), testSecret),
			processErr:     errors.New("firestore unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Error processing webhook",
			expectHandled:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &mockProcessor{
				HandleFunc: func(ctx context.Context, env webhook.Envelope) (webhook.Outcome, error) {
					return webhook.OutcomeApplied, tt.processErr
				},
			}
			handler := NewWebhookHandler(processor, tt.secret, zap.NewNop())

			rr := httptest.NewRecorder()
			handler.HandleProviderWebhook(rr, newWebhookRequest(tt.body, tt.signature))

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.expectedBody != "" && strings.TrimSpace(rr.Body.String()) != tt.expectedBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.expectedBody)
			}
			if handled := len(processor.calls) == 1; handled != tt.expectHandled {
				t.Errorf("processor called = %v, want %v", handled, tt.expectHandled)
			}
		})
	}
}

func TestHandleProviderWebhook_DecodesEnvelope(t *testing.T) {
	body := `{"webhook_type":"TRANSACTIONS","webhook_code":"SYNC_UPDATES_AVAILABLE","item_id":"item-7","new_transactions":3}`
	processor := &mockProcessor{}
	handler := NewWebhookHandler(processor, testSecret, zap.NewNop())

	rr := httptest.NewRecorder()
	handler.HandleProviderWebhook(rr, newWebhookRequest(body, webhook.Sign([]byte(body), testSecret)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	env := processor.calls[0]
	if env.Type != webhook.TypeTransactions || env.Code != "SYNC_UPDATES_AVAILABLE" || env.ItemID != "item-7" || env.NewTransactions != 3 {
		t.Errorf("decoded envelope = %+v", env)
	}
}

func TestHandleProviderWebhook_BodyTooLarge(t *testing.T) {
	processor := &mockProcessor{}
	handler := NewWebhookHandler(processor, "", zap.NewNop())

	body := `{"webhook_type":"ITEM","pad":"` + strings.Repeat("x", maxWebhookBody) + `"}`
	rr := httptest.NewRecorder()
	handler.HandleProviderWebhook(rr, newWebhookRequest(body, ""))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rr.Code)
	}
	if len(processor.calls) != 0 {
		t.Error("processor should not be called for oversized body")
	}
}
