package wizard

import (
	"context"
	"sync"

	"award-registration/internal/models"
	"award-registration/internal/payment"
)

// IntentCreator asks the server for a payment intent.
type IntentCreator interface {
	CreateIntent(ctx context.Context, req models.IntentRequest) (models.IntentResponse, error)
}

// Session owns a State for one buyer. Transitions run under the lock; the
// intent request runs outside it and its result is dropped if the state has
// moved on by the time it returns.
type Session struct {
	mu      sync.Mutex
	state   State
	creator IntentCreator
}

func NewSession(creator IntentCreator) *Session {
	return &Session{state: New(), creator: creator}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Session) apply(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state.clone()
}

func (s *Session) SelectTier(t models.Tier) State {
	return s.apply(func(st State) State { return SelectTier(st, t) })
}

func (s *Session) SelectIndividual(seats models.IndividualSeats) State {
	return s.apply(func(st State) State { return SelectIndividual(st, seats) })
}

func (s *Session) ChangeQuantity(seats models.IndividualSeats, delta int) State {
	return s.apply(func(st State) State { return ChangeQuantity(st, seats, delta) })
}

func (s *Session) SetBuyer(b Buyer) State {
	return s.apply(func(st State) State { return SetBuyer(st, b) })
}

func (s *Session) SetNotes(notes string) State {
	return s.apply(func(st State) State { return SetNotes(st, notes) })
}

func (s *Session) SetGuestName(key GuestKey, first, last string) State {
	return s.apply(func(st State) State { return SetGuestName(st, key, first, last) })
}

func (s *Session) ToggleVIP(key GuestKey) State {
	return s.apply(func(st State) State { return ToggleVIP(st, key) })
}

// GoToStep moves the wizard and, on reaching the payment step, makes sure a
// live intent exists.
func (s *Session) GoToStep(ctx context.Context, n Step) State {
	st := s.apply(func(st State) State { return GoToStep(st, n) })
	if st.Step != StepPayment || n != StepPayment {
		return st
	}
	return s.EnsureIntent(ctx)
}

// EnsureIntent requests an intent when the payment step has none for the
// current snapshot.
func (s *Session) EnsureIntent(ctx context.Context) State {
	s.mu.Lock()
	next, call := EnterPayment(s.state)
	s.state = next
	s.mu.Unlock()

	if call == nil {
		return s.State()
	}

	resp, err := s.creator.CreateIntent(ctx, call.Request)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = FailIntent(s.state, *call, publicMessage(err))
	} else {
		s.state, _ = ApplyIntent(s.state, *call, resp)
	}
	return s.state.clone()
}

// BeginPayment claims the single confirmation slot.
func (s *Session) BeginPayment() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := BeginPayment(s.state)
	s.state = next
	return next.clone(), ok
}

func (s *Session) CompletePayment(r PaymentResult) State {
	return s.apply(func(st State) State { return CompletePayment(st, r) })
}

func publicMessage(err error) string {
	perr := payment.AsError(err)
	if perr.Kind == payment.KindUnhandled {
		return NoticeIntentFailed
	}
	return perr.PublicError
}
