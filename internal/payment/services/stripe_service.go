package services

import (
	"context"
	"net/http"
	"time"

	"award-registration/internal/config"
	"award-registration/internal/logger"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// Processor creates payment authorizations with the external processor.
type Processor interface {
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeService talks to the Stripe API through a backend with a bounded
// timeout and no automatic retries; the wizard retries by asking again.
type StripeService struct {
	intents paymentintent.Client
}

// DefaultProcessorTimeout applies when no positive timeout is configured; an
// http.Client with a zero timeout would wait forever.
const DefaultProcessorTimeout = 10 * time.Second

func processorTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultProcessorTimeout
	}
	return d
}

func NewStripeService(cfg config.StripeConfig, log *logger.Logger) *StripeService {
	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: processorTimeout(cfg.Timeout)},
		MaxNetworkRetries: stripe.Int64(0),
		EnableTelemetry:   stripe.Bool(false),
		LeveledLogger:     log.Stripe(),
	}
	if cfg.APIURL != "" {
		backendConfig.URL = stripe.String(cfg.APIURL)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)
	if cfg.SecretKey != "" {
		log.Info("STRIPE", "Stripe client initialized")
	} else {
		log.Warn("STRIPE", "STRIPE_SECRET_KEY not set, payment intents will be refused")
	}

	return &StripeService{
		intents: paymentintent.Client{B: backend, Key: cfg.SecretKey},
	}
}

func (s *StripeService) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	params.Context = ctx
	return s.intents.New(params)
}
