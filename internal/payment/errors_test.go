package payment

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsAndStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		kind   Kind
		status int
		public string
	}{
		{Validation("Invalid amount.", ErrInvalidAmount), KindValidation, http.StatusBadRequest, "Invalid amount."},
		{Configuration("Payment system not configured.", "STRIPE_SECRET_KEY missing"), KindConfiguration, http.StatusInternalServerError, "Payment system not configured."},
		{Upstream("Your card was declined.", errors.New("card_declined")), KindUpstream, http.StatusBadRequest, "Your card was declined."},
		{UpstreamUnavailable(errors.New("timeout")), KindUpstreamUnavailable, http.StatusInternalServerError, "Payment processor unavailable. Please try again."},
		{Signature("stale timestamp"), KindSignature, http.StatusBadRequest, "Invalid signature"},
		{Unhandled(errors.New("boom")), KindUnhandled, http.StatusInternalServerError, "Internal error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.public, tt.err.PublicError)
		})
	}
}

func TestError_UnwrapsSentinels(t *testing.T) {
	assert.ErrorIs(t, Validation("Email is required.", ErrMissingEmail), ErrMissingEmail)
	assert.ErrorIs(t, Configuration("x", "y"), ErrNotConfigured)
	assert.ErrorIs(t, Signature("bad"), ErrInvalidSignature)

	wrapped := fmt.Errorf("create intent: %w", Validation("Invalid amount.", ErrInvalidAmount))
	assert.ErrorIs(t, wrapped, ErrInvalidAmount)
}

func TestError_ConfigurationNeverLeaksDetail(t *testing.T) {
	err := Configuration("Payment system not configured.", "STRIPE_SECRET_KEY is empty")
	assert.NotContains(t, err.PublicError, "STRIPE_SECRET_KEY")
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	v := Validation("Invalid amount.", ErrInvalidAmount)
	assert.Same(t, v, AsError(fmt.Errorf("wrap: %w", v)))

	u := AsError(errors.New("surprise"))
	assert.Equal(t, KindUnhandled, u.Kind)
	assert.Equal(t, "Internal error", u.PublicError)
}
