package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finpulse/internal/domain/dashboard"
	"finpulse/internal/domain/webhook"
	"finpulse/internal/infrastructure/crypto"
	"finpulse/internal/infrastructure/firebase"
	fs "finpulse/internal/infrastructure/firestore"
	"finpulse/internal/shared/config"
	"finpulse/internal/shared/logging"
)

const usage = `finpulse admin CLI - Management commands for the finpulse API

Usage:
  admin <command> [options]

Commands:
  sign-webhook   Print the signature header value for a webhook payload
  dashboard      Compute and print the current dashboard of one or more users
  seal-tokens    Encrypt provider access tokens still stored in plaintext

Examples:
  # Sign a payload with WEBHOOK_SECRET for a manual delivery
  admin sign-webhook --file=payload.json

  # Inspect the dashboard two users would see
  admin dashboard --user-id=uid1,uid2

  # Encrypt legacy tokens after setting ENCRYPTION_KEY
  admin seal-tokens --timeout=10m
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "sign-webhook":
		runSignWebhook(os.Args[2:])
	case "dashboard":
		runDashboard(os.Args[2:])
	case "seal-tokens":
		runSealTokens(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runSignWebhook(args []string) {
	flags := flag.NewFlagSet("sign-webhook", flag.ExitOnError)

	file := flags.String("file", "", "Path to the JSON payload (- for stdin)")
	secret := flags.String("secret", os.Getenv("WEBHOOK_SECRET"), "Signing secret (defaults to WEBHOOK_SECRET)")

	if err := flags.Parse(args); err != nil {
		os.Exit(1)
	}
	if *file == "" || *secret == "" {
		fmt.Println("Error: --file and a secret are required")
		flags.Usage()
		os.Exit(1)
	}

	var (
		body []byte
		err  error
	)
	if *file == "-" {
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(*file)
	}
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}
	if _, err := webhook.ParseEnvelope(body); err != nil {
		log.Fatalf("Payload is not a webhook envelope: %v", err)
	}

	fmt.Printf("%s: %s\n", webhook.SignatureHeader, webhook.Sign(body, *secret))
}

func runDashboard(args []string) {
	flags := flag.NewFlagSet("dashboard", flag.ExitOnError)

	userIDStr := flags.String("user-id", "", "User ID(s) to compute (comma-separated for multiple)")
	timeout := flags.Duration("timeout", time.Minute, "Timeout for the operation (e.g., 30s, 5m)")

	if err := flags.Parse(args); err != nil {
		os.Exit(1)
	}
	userIDs := splitIDs(*userIDStr)
	if len(userIDs) == 0 {
		fmt.Println("Error: must specify --user-id")
		flags.Usage()
		os.Exit(1)
	}

	cfg, logger := mustSetup()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, closeStore := mustStore(ctx, cfg, logger)
	defer closeStore()

	svc := dashboard.NewService(
		fs.NewTransactionRepository(store),
		fs.NewAccountRepository(store),
		fs.NewBudgetRepository(store),
		cfg.Calendar.Location,
		logger,
	)

	snapshots := make([]dashboard.Snapshot, len(userIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, uid := range userIDs {
		i, uid := i, uid
		g.Go(func() error {
			snap, err := svc.Current(gctx, uid)
			if err != nil {
				return fmt.Errorf("user %s: %w", uid, err)
			}
			snapshots[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Dashboard computation failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for i, uid := range userIDs {
		fmt.Printf("\n=== User %s ===\n", uid)
		enc.Encode(snapshots[i])
	}
}

func runSealTokens(args []string) {
	flags := flag.NewFlagSet("seal-tokens", flag.ExitOnError)

	timeout := flags.Duration("timeout", 30*time.Minute, "Timeout for the operation (e.g., 5m, 1h)")

	if err := flags.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, logger := mustSetup()
	defer logger.Sync()

	if cfg.Encryption.Key == "" {
		log.Fatal("ENCRYPTION_KEY is required")
	}
	enc, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		log.Fatalf("Failed to create encryptor: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, closeStore := mustStore(ctx, cfg, logger)
	defer closeStore()

	startTime := time.Now()
	sealed, err := fs.NewItemRepository(store, enc).SealPlaintextTokens(ctx)
	if err != nil {
		log.Fatalf("Sealing stopped after %d token(s): %v", sealed, err)
	}
	log.Printf("Sealed %d access token(s) in %v", sealed, time.Since(startTime))
}

func mustSetup() (*config.Config, *zap.Logger) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return cfg, logger
}

func mustStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*fs.Store, func()) {
	app, err := firebase.NewApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize firebase: %v", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to firestore: %v", err)
	}
	return fs.NewStore(client, logger.Named("firestore")), func() { client.Close() }
}

func splitIDs(s string) []string {
	var ids []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
