package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"award-registration/internal/catalog"
	"award-registration/internal/config"
	"award-registration/internal/logger"
	"award-registration/internal/models"
	"award-registration/internal/payment"
	"award-registration/internal/utils"

	"github.com/stripe/stripe-go/v82"
)

// MaxGuestNotes bounds the guests metadata value.
const MaxGuestNotes = 500

// IntentService turns a registration into a processor payment intent.
type IntentService struct {
	processor  Processor
	catalog    *catalog.Catalog
	configured bool
	eventName  string
	currency   string
	priceCheck string
	log        *logger.Logger
}

func NewIntentService(processor Processor, cat *catalog.Catalog, cfg *config.Config, log *logger.Logger) *IntentService {
	return &IntentService{
		processor:  processor,
		catalog:    cat,
		configured: cfg.Stripe.Ready(),
		eventName:  cfg.Event.Name,
		currency:   cfg.Stripe.Currency,
		priceCheck: cfg.Pricing.Mode,
		log:        log,
	}
}

// Ready reports the configuration error every intent request would fail
// with, or nil.
func (s *IntentService) Ready() error {
	if !s.configured {
		return payment.Configuration("Payment system not configured.", "processor secret key missing")
	}
	return nil
}

// CreateIntent validates req, checks its amount and asks the processor for an
// intent. Every failure is a *payment.Error.
func (s *IntentService) CreateIntent(ctx context.Context, req models.IntentRequest) (models.IntentResponse, error) {
	if err := s.Ready(); err != nil {
		s.log.Error("PAYMENT", "Intent requested but STRIPE_SECRET_KEY is not configured")
		return models.IntentResponse{}, err
	}

	amount, err := s.validate(req)
	if err != nil {
		s.log.Warn("PAYMENT", fmt.Sprintf("Rejected intent request for %q: %v", req.Tier, err))
		return models.IntentResponse{}, err
	}

	params := s.buildParams(req, amount)
	intent, err := s.processor.CreatePaymentIntent(ctx, params)
	if err != nil {
		perr := classify(err)
		s.log.Error("PAYMENT", fmt.Sprintf("Failed to create payment intent for %q: %v", req.Tier, err))
		return models.IntentResponse{}, perr
	}

	s.log.LogPayment("CREATED", intent.ID, fmt.Sprintf("%s for %s (%s)", utils.FormatCents(amount), req.Tier, strings.ToUpper(s.currency)))
	return models.IntentResponse{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
	}, nil
}

// validate returns the amount in minor units.
func (s *IntentService) validate(req models.IntentRequest) (int64, error) {
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return 0, payment.Validation("Invalid amount.", payment.ErrInvalidAmount)
	}
	if strings.TrimSpace(req.Email) == "" {
		return 0, payment.Validation("Email is required.", payment.ErrMissingEmail)
	}

	minor := int64(math.Round(req.Amount * 100))
	if minor <= 0 {
		return 0, payment.Validation("Invalid amount.", payment.ErrInvalidAmount)
	}

	if s.priceCheck == config.PricingTrust || s.catalog == nil {
		return minor, nil
	}

	expected, ok := s.catalog.ExpectedAmount(req.Tier, req.Seats)
	if !ok {
		return 0, payment.Validation("Unknown registration option.", fmt.Errorf("%w: %q with %d seats", payment.ErrUnknownOffering, req.Tier, req.Seats))
	}
	if expected*100 != minor {
		return 0, payment.Validation("Amount does not match the selected registration.",
			fmt.Errorf("%w: got %d, want %d", payment.ErrAmountMismatch, minor, expected*100))
	}
	return minor, nil
}

func (s *IntentService) buildParams(req models.IntentRequest, amount int64) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description:  stripe.String(fmt.Sprintf("%s — %s", s.eventName, req.Tier)),
		ReceiptEmail: stripe.String(strings.TrimSpace(req.Email)),
	}

	params.AddMetadata("event", s.eventName)
	params.AddMetadata("tier", req.Tier)
	params.AddMetadata("seats", strconv.Itoa(req.Seats))
	params.AddMetadata("first_name", req.FirstName)
	params.AddMetadata("last_name", req.LastName)
	params.AddMetadata("email", strings.TrimSpace(req.Email))
	params.AddMetadata("phone", req.Phone)
	params.AddMetadata("org", req.Org)
	params.AddMetadata("guests", truncate(req.Guests, MaxGuestNotes))
	return params
}

// classify maps processor failures: a request the processor answered with a
// 4xx is the buyer's to fix, anything else is the processor being unreachable.
func classify(err error) *payment.Error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
		msg := stripeErr.Msg
		if msg == "" {
			msg = "Payment could not be started."
		}
		return payment.Upstream(msg, err)
	}
	return payment.UpstreamUnavailable(err)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
