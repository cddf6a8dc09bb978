package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Log           LogConfig
	TLS           TLSConfig
	Webhook       WebhookConfig
	Encryption    EncryptionConfig
	Firebase      FirebaseConfig
	Notifications NotificationsConfig
	Provider      ProviderConfig
	AMQP          AMQPConfig
	Worker        WorkerConfig
	Calendar      CalendarConfig
	Telemetry     TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	AllowedHosts []string
}

type LogConfig struct {
	Level string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type WebhookConfig struct {
	// Secret may carry the "whsec_" prefix. Empty disables signature checks.
	Secret string
}

type EncryptionConfig struct {
	// Key seals provider access tokens at rest. Must be 32 bytes when set.
	Key string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

type NotificationsConfig struct {
	Enabled      bool
	MessagesFile string
}

type ProviderConfig struct {
	BaseURL        string
	ClientID       string
	Secret         string
	WebhookURL     string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// Enabled reports whether sync requests should be published.
func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

type WorkerConfig struct {
	Count     int
	QueueSize int
}

type CalendarConfig struct {
	Location *time.Location
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

// LoadDotEnv loads variables from a .env file when one exists.
// Variables already present in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func Load() (*Config, error) {
	providerTimeout, err := getDurationEnv("PROVIDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	providerBackoff, err := getDurationEnv("PROVIDER_INITIAL_BACKOFF", 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	providerRetries, err := getIntEnv("PROVIDER_MAX_RETRIES", 2)
	if err != nil {
		return nil, err
	}
	workerCount, err := getIntEnv("WORKER_COUNT", 4)
	if err != nil {
		return nil, err
	}
	workerQueue, err := getIntEnv("WORKER_QUEUE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	// Bucketing follows the device calendar; TIMEZONE pins it server-side.
	loc := time.Local
	if tz := getEnv("TIMEZONE", ""); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", ""), ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowedHosts: allowedHosts,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Webhook: WebhookConfig{
			Secret: getEnv("WEBHOOK_SECRET", ""),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Notifications: NotificationsConfig{
			Enabled:      getBoolEnv("NOTIFICATIONS_ENABLED", true),
			MessagesFile: getEnv("MESSAGES_FILE", ""),
		},
		Provider: ProviderConfig{
			BaseURL:        strings.TrimRight(getEnv("PROVIDER_BASE_URL", "https://sandbox.plaid.com"), "/"),
			ClientID:       getEnv("PROVIDER_CLIENT_ID", ""),
			Secret:         getEnv("PROVIDER_SECRET", ""),
			WebhookURL:     getEnv("PROVIDER_WEBHOOK_URL", ""),
			Timeout:        providerTimeout,
			MaxRetries:     providerRetries,
			InitialBackoff: providerBackoff,
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "finpulse"),
			Queue:    getEnv("AMQP_QUEUE", "item-sync"),
		},
		Worker: WorkerConfig{
			Count:     workerCount,
			QueueSize: workerQueue,
		},
		Calendar: CalendarConfig{
			Location: loc,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finpulse-api"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
	}

	// Validate required fields
	if cfg.Firebase.ProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if cfg.Encryption.Key != "" && len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 32 bytes")
	}
	if cfg.Worker.Count < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	if cfg.Worker.QueueSize < 1 {
		return nil, fmt.Errorf("WORKER_QUEUE_SIZE must be at least 1")
	}
	if cfg.Provider.MaxRetries < 0 {
		return nil, fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
