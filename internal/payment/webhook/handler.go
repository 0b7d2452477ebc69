// Package webhook consumes processor callbacks once their signature checks out.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"award-registration/internal/config"
	"award-registration/internal/logger"
	"award-registration/internal/models"
	"award-registration/internal/payment"
	"award-registration/internal/payment/signature"

	"github.com/stripe/stripe-go/v82"
)

type Handler struct {
	verifier   *signature.Verifier
	secret     []byte
	configured bool
	sink       Sink
	log        *logger.Logger
	now        func() time.Time
}

func NewHandler(cfg config.StripeConfig, verifier *signature.Verifier, sink Sink, log *logger.Logger) *Handler {
	return &Handler{
		verifier:   verifier,
		secret:     []byte(cfg.WebhookSecret),
		configured: cfg.WebhookReady(),
		sink:       sink,
		log:        log,
		now:        time.Now,
	}
}

// Handle verifies and processes one callback. A nil error means the delivery
// must be acknowledged; the confirmation is non-nil only for a succeeded
// payment.
func (h *Handler) Handle(ctx context.Context, payload []byte, header string) (*models.Confirmation, error) {
	if !h.configured {
		h.log.Error("WEBHOOK", "Callback received but processor secrets are not configured")
		return nil, payment.Configuration("Not configured", "webhook secret or processor key missing")
	}

	if err := h.verifier.Check(payload, header, h.secret); err != nil {
		h.log.LogSecurity("BAD_SIGNATURE", fmt.Sprintf("Callback rejected: %v", err))
		return nil, payment.Signature(fmt.Sprintf("signature rejected: %v", err))
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		h.log.Error("WEBHOOK", fmt.Sprintf("Signed callback is not a valid event: %v", err))
		return nil, nil
	}

	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		h.log.LogWebhook(string(event.Type), event.ID, "acknowledged, no action")
		return nil, nil
	}

	if event.Data == nil {
		h.log.Error("WEBHOOK", fmt.Sprintf("Event %s has no data object", event.ID))
		return nil, nil
	}
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		h.log.Error("WEBHOOK", fmt.Sprintf("Failed to unmarshal payment intent in %s: %v", event.ID, err))
		return nil, nil
	}

	c := confirmationFrom(event.ID, &intent, h.now())
	if err := h.sink.Deliver(ctx, c); err != nil {
		h.log.Error("WEBHOOK", fmt.Sprintf("Confirmation %s not fully delivered: %v", c.IntentID, err))
	}
	return &c, nil
}

func confirmationFrom(eventID string, pi *stripe.PaymentIntent, at time.Time) models.Confirmation {
	md := pi.Metadata
	return models.Confirmation{
		EventID:    eventID,
		IntentID:   pi.ID,
		Amount:     pi.Amount,
		Currency:   string(pi.Currency),
		Event:      md["event"],
		Tier:       md["tier"],
		Seats:      md["seats"],
		FirstName:  md["first_name"],
		LastName:   md["last_name"],
		Email:      md["email"],
		Phone:      md["phone"],
		Org:        md["org"],
		ReceivedAt: at.UTC(),
	}
}
