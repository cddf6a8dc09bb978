package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"finpulse/internal/domain/item"
)

const (
	linkTokenPath     = "/link/token/create"
	exchangePath      = "/item/public_token/exchange"
	clientName        = "finpulse"
	maxResponseBytes  = 1 << 20
	defaultLanguage   = "en"
	defaultCountry    = "US"
	transactionsScope = "transactions"
)

// ErrCircuitOpen is returned while the provider is considered unavailable.
var ErrCircuitOpen = errors.New("provider circuit breaker is open")

// APIError is an error response from the provider.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"error_type"`
	Code       string `json:"error_code"`
	Message    string `json:"error_message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("provider API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("provider API error (status %d): %s - %s", e.StatusCode, e.Code, e.Message)
}

// Temporary reports whether retrying the request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Config configures the provider client.
type Config struct {
	BaseURL    string
	ClientID   string
	Secret     string
	WebhookURL string
	Timeout    time.Duration
	Retry      RetryConfig
}

// Client talks to the aggregation provider's link API
type Client struct {
	httpClient *http.Client
	cfg        Config
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// Ensure Client implements item.Provider
var _ item.Provider = (*Client)(nil)

// NewClient creates a new provider API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:     cfg,
		breaker: newCircuitBreaker("provider", retryable),
		logger:  logger,
	}
}

type linkTokenRequest struct {
	ClientID     string   `json:"client_id"`
	Secret       string   `json:"secret"`
	ClientName   string   `json:"client_name"`
	User         linkUser `json:"user"`
	Products     []string `json:"products"`
	CountryCodes []string `json:"country_codes"`
	Language     string   `json:"language"`
	Webhook      string   `json:"webhook,omitempty"`
}

type linkUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

type exchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// CreateLinkToken creates a token that starts the link flow for userID.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	req := linkTokenRequest{
		ClientID:     c.cfg.ClientID,
		Secret:       c.cfg.Secret,
		ClientName:   clientName,
		User:         linkUser{ClientUserID: userID},
		Products:     []string{transactionsScope},
		CountryCodes: []string{defaultCountry},
		Language:     defaultLanguage,
		Webhook:      c.cfg.WebhookURL,
	}

	var resp linkTokenResponse
	if err := c.call(ctx, linkTokenPath, req, &resp); err != nil {
		return "", err
	}
	if resp.LinkToken == "" {
		return "", errors.New("provider returned an empty link token")
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken trades a public token for a durable access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*item.Exchange, error) {
	req := exchangeRequest{
		ClientID:    c.cfg.ClientID,
		Secret:      c.cfg.Secret,
		PublicToken: publicToken,
	}

	var resp exchangeResponse
	if err := c.call(ctx, exchangePath, req, &resp); err != nil {
		return nil, err
	}
	return &item.Exchange{AccessToken: resp.AccessToken, ItemID: resp.ItemID}, nil
}

// call posts body to path through the circuit breaker, retrying transient failures.
func (c *Client) call(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	attempt := 0
	err = retryWithBackoff(ctx, c.cfg.Retry, retryable, func() error {
		attempt++
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.post(ctx, path, payload, out)
		})
		if err != nil && retryable(err) {
			c.logger.Warn("provider request failed",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	})
	if isBreakerRejection(err) {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return err
}

func (c *Client) post(ctx context.Context, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// retryable treats transport errors and 5xx/429 responses as transient.
func retryable(err error) bool {
	if err == nil || isBreakerRejection(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
