package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Stripe  StripeConfig
	Event   EventConfig
	Pricing PricingConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StripeConfig holds processor credentials. Any of them may be empty; the
// endpoints that need them fail closed per request.
type StripeConfig struct {
	SecretKey          string
	PublishableKey     string
	WebhookSecret      string
	APIURL             string
	Currency           string
	Timeout            time.Duration
	SignatureTolerance time.Duration
}

type EventConfig struct {
	Name        string
	CatalogPath string
}

type PricingConfig struct {
	// Mode is "verify" (amount checked against the catalog) or "trust".
	Mode string
}

type RedisConfig struct {
	Addr        string
	RateLimit   int
	RateWindow  time.Duration
	DialTimeout time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topics  TopicConfig
}

type TopicConfig struct {
	PaymentConfirmed string
}

type LogConfig struct {
	Dir   string
	Level string
}

const (
	PricingVerify = "verify"
	PricingTrust  = "trust"
)

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            normalizePort(getEnv("PORT", ":8787")),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: 5 * time.Second,
		},
		Stripe: StripeConfig{
			SecretKey:          os.Getenv("STRIPE_SECRET_KEY"),
			PublishableKey:     os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			WebhookSecret:      os.Getenv("STRIPE_WEBHOOK_SECRET"),
			APIURL:             os.Getenv("STRIPE_API_URL"),
			Currency:           strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
			Timeout:            getEnvPositiveDuration("STRIPE_TIMEOUT", 10*time.Second),
			SignatureTolerance: getEnvPositiveDuration("WEBHOOK_TOLERANCE", 300*time.Second),
		},
		Event: EventConfig{
			Name:        getEnv("EVENT_NAME", "Daniel Award"),
			CatalogPath: os.Getenv("CATALOG_PATH"),
		},
		Pricing: PricingConfig{
			Mode: pricingMode(getEnv("PRICE_CHECK", PricingVerify)),
		},
		Redis: RedisConfig{
			Addr:        os.Getenv("REDIS_ADDR"),
			RateLimit:   getEnvInt("RATE_LIMIT", 30),
			RateWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			DialTimeout: 5 * time.Second,
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topics: TopicConfig{
				PaymentConfirmed: getEnv("KAFKA_TOPIC_CONFIRMED", "registration.payment.confirmed"),
			},
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", "logs"),
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}
}

// Ready reports whether intents can be created.
func (s StripeConfig) Ready() bool {
	return s.SecretKey != ""
}

// WebhookReady reports whether callbacks can be verified and processed.
func (s StripeConfig) WebhookReady() bool {
	return s.SecretKey != "" && s.WebhookSecret != ""
}

func pricingMode(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), PricingTrust) {
		return PricingTrust
	}
	return PricingVerify
}

func normalizePort(p string) string {
	if p != "" && !strings.Contains(p, ":") {
		return ":" + p
	}
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvPositiveDuration is getEnvDuration for bounds that must stay finite:
// zero or negative values fall back to the default.
func getEnvPositiveDuration(key string, defaultValue time.Duration) time.Duration {
	if d := getEnvDuration(key, defaultValue); d > 0 {
		return d
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
