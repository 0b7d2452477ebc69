// Package wizard is the registration flow as plain data: an explicit State and
// transition functions that return a new State. Nothing here touches the
// network except Session.
package wizard

import (
	"strings"

	"award-registration/internal/models"
)

type Step int

const (
	StepInfo Step = iota + 1
	StepGuests
	StepReview
	StepPayment
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepInfo:
		return "info"
	case StepGuests:
		return "guests"
	case StepReview:
		return "review"
	case StepPayment:
		return "payment"
	case StepConfirmed:
		return "confirmed"
	}
	return "unknown"
}

type Buyer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Org       string `json:"org,omitempty"`
}

// Complete reports whether the fields required to leave the first step are set.
func (b Buyer) Complete() bool {
	return strings.TrimSpace(b.FirstName) != "" &&
		strings.TrimSpace(b.LastName) != "" &&
		strings.TrimSpace(b.Email) != ""
}

func (b Buyer) Name() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// IntentHandle is a processor intent tied to the snapshot it was created for.
type IntentHandle struct {
	ID           string               `json:"id"`
	ClientSecret string               `json:"clientSecret"`
	Snapshot     models.IntentRequest `json:"snapshot"`
}

// IntentCall is an intent request in flight. Its result is applied only if
// the state still matches it.
type IntentCall struct {
	Revision uint64               `json:"revision"`
	Request  models.IntentRequest `json:"request"`
}

// PaymentResult is what the processor's confirmation call reported.
type PaymentResult struct {
	IntentID  string `json:"intentId"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// State is the whole wizard. It is a value: transitions never mutate the
// State they are given.
type State struct {
	// Offering is the active selection; Kind is empty until one is chosen.
	Offering models.Allocation `json:"offering"`
	// Individual is kept so quantity changes can reprice individual seats.
	Individual models.IndividualSeats `json:"individual"`
	Quantity   int                    `json:"quantity"`

	Step   Step               `json:"step"`
	Buyer  Buyer              `json:"buyer"`
	Notes  string             `json:"notes,omitempty"`
	Guests map[GuestKey]Guest `json:"guests,omitempty"`

	// Revision increases on every price-affecting change.
	Revision uint64        `json:"revision"`
	Intent   *IntentHandle `json:"intent,omitempty"`
	Pending  *IntentCall   `json:"pending,omitempty"`
	Paying   bool          `json:"paying"`

	ConfirmationID string `json:"confirmationId,omitempty"`
	// Notice is the inline message for the buyer, cleared by the next transition.
	Notice string `json:"notice,omitempty"`
}

func New() State {
	return State{Step: StepInfo, Quantity: 1}
}

func (s State) Selected() bool {
	return s.Offering.Kind != ""
}

// Price is the order total in whole currency units. It only ever comes from
// the selected offering.
func (s State) Price() int64 {
	return s.Offering.Price
}

func (s State) clone() State {
	c := s
	c.Guests = make(map[GuestKey]Guest, len(s.Guests))
	for k, v := range s.Guests {
		c.Guests[k] = v
	}
	return c
}

// next is the starting point of every transition: a copy without the
// previous notice.
func (s State) next() State {
	c := s.clone()
	c.Notice = ""
	return c
}
