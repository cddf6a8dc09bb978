package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"finpulse/internal/domain/item"
	"finpulse/internal/infrastructure/provider"
	"finpulse/internal/shared/middleware"
)

// LinkService creates link tokens and stores newly linked items. *item.Service satisfies it.
type LinkService interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	Link(ctx context.Context, userID, publicToken, institutionName string) (*item.Item, error)
}

type LinkHandler struct {
	items  LinkService
	logger *zap.Logger
}

func NewLinkHandler(items LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{items: items, logger: logger.Named("link")}
}

type LinkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type ExchangeRequest struct {
	PublicToken     string `json:"public_token"`
	InstitutionName string `json:"institution_name"`
}

// HandleCreateLinkToken starts the provider's account linking flow.
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := h.items.CreateLinkToken(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to create link token", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Failed to create link token", providerStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, LinkTokenResponse{LinkToken: token})
}

// HandleExchange swaps the public token from the link flow for a stored item.
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	it, err := h.items.Link(r.Context(), userID, req.PublicToken, req.InstitutionName)
	if err != nil {
		if errors.Is(err, item.ErrMissingPublicToken) {
			http.Error(w, "public_token is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to link item", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Failed to link account", providerStatus(err))
		return
	}

	writeJSON(w, http.StatusCreated, it)
}

func providerStatus(err error) int {
	var apiErr *provider.APIError
	switch {
	case errors.Is(err, provider.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, item.ErrInvalidExchange), errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
