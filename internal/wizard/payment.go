package wizard

import (
	"award-registration/internal/models"
)

const (
	NoticeIntentFailed  = "Unable to load payment form. Please try again."
	NoticePaymentFailed = "An unexpected error occurred. Please try again."
)

// Snapshot is the intent request the current state would send.
func Snapshot(s State) models.IntentRequest {
	return models.IntentRequest{
		Amount:    float64(s.Price()),
		Tier:      s.Offering.Name,
		FirstName: s.Buyer.FirstName,
		LastName:  s.Buyer.LastName,
		Email:     s.Buyer.Email,
		Phone:     s.Buyer.Phone,
		Org:       s.Buyer.Org,
		Seats:     s.Offering.Seats,
		Guests:    GuestNotes(s),
	}
}

// LiveIntent returns the intent handle if it was created for exactly the
// current snapshot.
func LiveIntent(s State) (*IntentHandle, bool) {
	if s.Intent == nil || s.Intent.Snapshot != Snapshot(s) {
		return nil, false
	}
	return s.Intent, true
}

// EnterPayment decides whether the payment step needs a new intent. It
// returns the call to make, or nil when a live handle is reused or an
// identical call is already in flight.
func EnterPayment(s State) (State, *IntentCall) {
	next := s.next()
	if s.Step != StepPayment {
		return next, nil
	}
	if _, ok := LiveIntent(s); ok {
		return next, nil
	}
	next.Intent = nil

	snap := Snapshot(s)
	if s.Pending != nil && s.Pending.Revision == s.Revision && s.Pending.Request == snap {
		return next, nil
	}
	call := &IntentCall{Revision: s.Revision, Request: snap}
	next.Pending = call
	return next, call
}

// stale reports whether call no longer describes the state.
func stale(s State, call IntentCall) bool {
	return s.Pending == nil || *s.Pending != call ||
		call.Revision != s.Revision || call.Request != Snapshot(s)
}

// ApplyIntent installs the result of call unless the state has moved on, in
// which case the result is discarded and applied is false.
func ApplyIntent(s State, call IntentCall, resp models.IntentResponse) (next State, applied bool) {
	next = s.next()
	if stale(s, call) {
		if s.Pending != nil && *s.Pending == call {
			next.Pending = nil
		}
		return next, false
	}
	next.Pending = nil
	next.Intent = &IntentHandle{
		ID:           resp.IntentID,
		ClientSecret: resp.ClientSecret,
		Snapshot:     call.Request,
	}
	return next, true
}

// FailIntent records a failed intent request so the buyer can retry.
func FailIntent(s State, call IntentCall, message string) State {
	next := s.next()
	if s.Pending == nil || *s.Pending != call {
		return next
	}
	next.Pending = nil
	if message == "" {
		message = NoticeIntentFailed
	}
	next.Notice = message
	return next
}

// BeginPayment marks the confirmation call as in flight. It refuses when
// there is no live intent or a confirmation is already running.
func BeginPayment(s State) (State, bool) {
	next := s.next()
	if s.Step != StepPayment || s.Paying {
		return next, false
	}
	if _, ok := LiveIntent(s); !ok {
		return next, false
	}
	next.Paying = true
	return next, true
}

// CompletePayment applies the processor's answer. Only success for the live
// intent confirms the registration; any failure leaves the button usable.
func CompletePayment(s State, r PaymentResult) State {
	next := s.next()
	if !s.Paying {
		return next
	}
	next.Paying = false

	live, ok := LiveIntent(s)
	switch {
	case r.Error != "":
		next.Notice = r.Error
	case !r.Succeeded:
		next.Notice = NoticePaymentFailed
	case !ok || live.ID != r.IntentID:
		next.Notice = NoticePaymentFailed
	default:
		next.Step = StepConfirmed
		next.ConfirmationID = r.IntentID
	}
	return next
}
