package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"finpulse/internal/domain/dashboard"
	"finpulse/internal/domain/item"
	"finpulse/internal/domain/savings"
	"finpulse/internal/domain/webhook"
	"finpulse/internal/infrastructure/amqp"
	"finpulse/internal/infrastructure/crypto"
	"finpulse/internal/infrastructure/firebase"
	fs "finpulse/internal/infrastructure/firestore"
	"finpulse/internal/infrastructure/provider"
	httphandlers "finpulse/internal/interfaces/http"
	"finpulse/internal/interfaces/worker"
	"finpulse/internal/shared/config"
	"finpulse/internal/shared/messages"
	"finpulse/internal/shared/middleware"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Firestore *firestore.Client
	Publisher *amqp.Publisher
	Pool      *worker.Pool

	// Handlers
	WebhookHandler   *httphandlers.WebhookHandler
	LinkHandler      *httphandlers.LinkHandler
	DashboardHandler *httphandlers.DashboardHandler

	// Auth
	Verifier middleware.TokenVerifier
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	app, err := firebase.NewApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return nil, err
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	logger.Info("connected to firestore", zap.String("project_id", cfg.Firebase.ProjectID))

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	deps := &Dependencies{Firestore: fsClient, Verifier: authClient}

	// Repositories
	store := fs.NewStore(fsClient, logger.Named("firestore"))
	var tokenCipher fs.TokenCipher
	if cfg.Encryption.Key != "" {
		enc, err := crypto.NewEncryptor(cfg.Encryption.Key)
		if err != nil {
			fsClient.Close()
			return nil, err
		}
		tokenCipher = enc
	} else {
		logger.Warn("ENCRYPTION_KEY is not set; provider access tokens are stored unencrypted")
	}
	itemRepo := fs.NewItemRepository(store, tokenCipher)
	transactionRepo := fs.NewTransactionRepository(store)
	accountRepo := fs.NewAccountRepository(store)
	budgetRepo := fs.NewBudgetRepository(store)
	goalRepo := fs.NewGoalRepository(store)
	deviceRepo := fs.NewDeviceTokenRepository(store)

	// Provider
	providerClient := provider.NewClient(provider.Config{
		BaseURL:    cfg.Provider.BaseURL,
		ClientID:   cfg.Provider.ClientID,
		Secret:     cfg.Provider.Secret,
		WebhookURL: cfg.Provider.WebhookURL,
		Timeout:    cfg.Provider.Timeout,
		Retry: provider.RetryConfig{
			MaxRetries:     cfg.Provider.MaxRetries,
			InitialBackoff: cfg.Provider.InitialBackoff,
		},
	}, logger.Named("provider"))

	// Follow-up side effects
	deps.Pool = worker.NewPool(cfg.Worker.Count, cfg.Worker.QueueSize, logger.Named("worker"))
	deps.Pool.Start()

	var notifier webhook.Notifier
	if cfg.Notifications.Enabled {
		msgs, err := messages.Load(cfg.Notifications.MessagesFile)
		if err != nil {
			deps.Close()
			return nil, err
		}
		messagingClient, err := app.Messaging(ctx)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to create messaging client: %w", err)
		}
		fcm := firebase.NewClient(messagingClient, deviceRepo.Remove, logger.Named("fcm"))
		notifier = firebase.NewNotifier(fcm, deviceRepo, msgs)
	} else {
		logger.Info("push notifications disabled")
	}

	var publisher webhook.SyncPublisher
	if cfg.AMQP.Enabled() {
		deps.Publisher, err = amqp.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, logger.Named("amqp"))
		if err != nil {
			deps.Close()
			return nil, err
		}
		publisher = deps.Publisher
		logger.Info("publishing sync requests", zap.String("exchange", cfg.AMQP.Exchange), zap.String("queue", cfg.AMQP.Queue))
	} else {
		logger.Info("sync request publishing disabled")
	}

	followUps := worker.NewFollowUps(deps.Pool, notifier, publisher)

	// Domain services
	itemService := item.NewService(itemRepo, providerClient, logger.Named("item"))
	webhookService := webhook.NewService(itemService, followUps, logger.Named("webhook"))
	dashboardService := dashboard.NewService(transactionRepo, accountRepo, budgetRepo, cfg.Calendar.Location, logger.Named("dashboard"))
	savingsService := savings.NewService(goalRepo, budgetRepo)

	// Handlers
	deps.WebhookHandler = httphandlers.NewWebhookHandler(webhookService, cfg.Webhook.Secret, logger)
	deps.LinkHandler = httphandlers.NewLinkHandler(itemService, logger)
	deps.DashboardHandler = httphandlers.NewDashboardHandler(dashboardService, savingsService, logger)

	if cfg.Webhook.Secret == "" {
		logger.Warn("WEBHOOK_SECRET is not set; webhook signatures are not verified")
	}

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Pool != nil {
		d.Pool.Shutdown(shutdownTimeout)
	}
	if d.Publisher != nil {
		d.Publisher.Close()
	}
	if d.Firestore != nil {
		d.Firestore.Close()
	}
}
