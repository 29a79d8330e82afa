package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// WebhookURL is the fixed collection endpoint that receives lead submissions
const WebhookURL = "https://eosffd61t937pcq.m.pipedream.net"

// comingSoonMode is set at build time:
//
//	go build -ldflags "-X coldemail/config.comingSoonMode=false" ./cmd/server
var comingSoonMode = "true"

type Config struct {
	ServerPort  string
	Environment string
	AppURL      string
	// Delivery log (empty DBPath and TursoDatabaseURL disable it)
	DBPath           string
	TursoDatabaseURL string
	TursoAuthToken   string
	// DeliveryRetention is how long delivery log rows are kept
	DeliveryRetention time.Duration
	// Landing view
	ComingSoonMode  bool
	ViewIdleTimeout time.Duration
	// Webhook
	WebhookURL     string
	WebhookTimeout time.Duration
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool   // When true, emails are logged to console instead of sent
	LeadNotifyTo  string // Operator address for new lead notifications, empty disables
	// Cloudflare Turnstile
	TurnstileSiteKey   string
	TurnstileSecretKey string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		AppURL:             getEnv("APP_URL", "http://localhost:8080"),
		DBPath:             getEnvAllowEmpty("DB_PATH", "db/coldemail.db"),
		TursoDatabaseURL:   getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:     getEnv("TURSO_AUTH_TOKEN", ""),
		DeliveryRetention:  getEnvDuration("DELIVERY_RETENTION", 90*24*time.Hour),
		ComingSoonMode:     ComingSoonMode(),
		ViewIdleTimeout:    getEnvDuration("VIEW_IDLE_TIMEOUT", 30*time.Minute),
		WebhookURL:         WebhookURL,
		WebhookTimeout:     getEnvDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "noreply@coldemail.com"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "ColdEmail.com"),
		EmailTestMode:      getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		LeadNotifyTo:       getEnv("LEAD_NOTIFY_TO", ""),
		TurnstileSiteKey:   getEnv("TURNSTILE_SITE_KEY", ""),
		TurnstileSecretKey: getEnv("TURNSTILE_SECRET_KEY", ""),
	}
}

// ComingSoonMode reports the build-time coming-soon flag
func ComingSoonMode() bool {
	return parseBool(comingSoonMode, true)
}

// DeliveryLogEnabled reports whether webhook attempts should be persisted
func (c *Config) DeliveryLogEnabled() bool {
	return c.DBPath != "" || c.TursoDatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAllowEmpty is getEnv for keys where an explicitly empty value means "off"
func getEnvAllowEmpty(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func getEnvBool(key string, defaultValue bool) bool {
	return parseBool(os.Getenv(key), defaultValue)
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[WARNING] Invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func parseBool(value string, defaultValue bool) bool {
	// Accept common boolean representations
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
