package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"finpulse/internal/domain/webhook"
)

// maxWebhookBody caps provider payloads.
const maxWebhookBody = 1 << 20

// WebhookProcessor handles a verified, decoded webhook. *webhook.Service satisfies it.
type WebhookProcessor interface {
	Handle(ctx context.Context, env webhook.Envelope) (webhook.Outcome, error)
}

type WebhookHandler struct {
	processor WebhookProcessor
	secret    string
	logger    *zap.Logger
}

// NewWebhookHandler creates the provider webhook receiver. An empty secret
// disables signature verification.
func NewWebhookHandler(processor WebhookProcessor, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		secret:    secret,
		logger:    logger.Named("webhook"),
	}
}

// HandleProviderWebhook authenticates the raw body, decodes the envelope and
// hands it to the processor. The provider retries anything but a 2xx, so only
// genuine processing failures return 500.
func (h *WebhookHandler) HandleProviderWebhook(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(
		zap.String("delivery_id", uuid.NewString()),
		zap.String("request_id", chimw.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("webhook body too large", zap.Int64("limit", tooLarge.Limit))
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Warn("failed to read webhook body", zap.Error(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if !webhook.Verify(body, r.Header.Get(webhook.SignatureHeader), h.secret) {
		log.Warn("webhook signature verification failed")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	env, err := webhook.ParseEnvelope(body)
	if err != nil {
		log.Warn("malformed webhook body", zap.Error(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	outcome, err := h.processor.Handle(r.Context(), env)
	if err != nil {
		log.Error("error processing webhook",
			zap.String("webhook", env.Name()),
			zap.String("item_id", env.ItemID),
			zap.Error(err),
		)
		http.Error(w, "Error processing webhook", http.StatusInternalServerError)
		return
	}

	log.Debug("webhook processed",
		zap.String("webhook", env.Name()),
		zap.String("outcome", string(outcome)),
	)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
