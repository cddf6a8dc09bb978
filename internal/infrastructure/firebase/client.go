package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

const fcmBatchLimit = 500

// TokenDeactivator is called to drop an invalid FCM token of a user.
type TokenDeactivator func(ctx context.Context, userID, token string) error

// MulticastSender is the part of *messaging.Client the Client uses.
type MulticastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Client sends push notifications through Firebase Cloud Messaging
type Client struct {
	sender      MulticastSender
	deactivator TokenDeactivator
	logger      *zap.Logger
}

// NewClient wraps an FCM sender. deactivator is called when an
// invalid/unregistered token is detected; may be nil.
func NewClient(sender MulticastSender, deactivator TokenDeactivator, logger *zap.Logger) *Client {
	return &Client{sender: sender, deactivator: deactivator, logger: logger}
}

// SendMulticast sends a push notification to every token of a user.
// Automatically batches into chunks of 500 (Firebase API limit).
func (c *Client) SendMulticast(ctx context.Context, userID string, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	var totalSuccess, totalFailure int
	for _, batch := range chunkTokens(tokens, fcmBatchLimit) {
		msg := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}

		resp, err := c.sender.SendEachForMulticast(ctx, msg)
		if err != nil {
			return fmt.Errorf("failed to send FCM multicast: %w", err)
		}

		totalSuccess += resp.SuccessCount
		totalFailure += resp.FailureCount
		if resp.FailureCount > 0 {
			c.handleMulticastFailures(ctx, userID, batch, resp)
		}
	}

	c.logger.Info("FCM multicast sent",
		zap.String("user_id", userID),
		zap.Int("success", totalSuccess),
		zap.Int("failure", totalFailure),
	)
	return nil
}

func (c *Client) handleMulticastFailures(ctx context.Context, userID string, tokens []string, resp *messaging.BatchResponse) {
	for i, sendResp := range resp.Responses {
		if sendResp == nil || sendResp.Error == nil || i >= len(tokens) {
			continue
		}
		if messaging.IsUnregistered(sendResp.Error) || messaging.IsInvalidArgument(sendResp.Error) {
			c.logger.Info("invalid FCM token, deactivating",
				zap.String("user_id", userID),
				zap.Int("index", i),
				zap.Error(sendResp.Error),
			)
			c.deactivateToken(ctx, userID, tokens[i])
		} else {
			c.logger.Warn("FCM send error", zap.Int("index", i), zap.Error(sendResp.Error))
		}
	}
}

func (c *Client) deactivateToken(ctx context.Context, userID, token string) {
	if c.deactivator == nil {
		return
	}
	if err := c.deactivator(ctx, userID, token); err != nil {
		c.logger.Warn("failed to deactivate FCM token", zap.String("user_id", userID), zap.Error(err))
	}
}

func chunkTokens(tokens []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(tokens); i += size {
		end := min(i+size, len(tokens))
		chunks = append(chunks, tokens[i:end])
	}
	return chunks
}
