package models

import (
	"strings"
	"time"
)

// IntentRequest is the body of POST /api/payment. Amount is in whole currency
// units as computed by the client.
type IntentRequest struct {
	Amount    float64 `json:"amount"`
	Tier      string  `json:"tier"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Org       string  `json:"org"`
	Seats     int     `json:"seats"`
	Guests    string  `json:"guests,omitempty"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	IntentID     string `json:"intentId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}

// Confirmation is what a verified payment_intent.succeeded callback yields.
// Amount is in minor units as reported by the processor.
type Confirmation struct {
	EventID    string    `json:"eventId"`
	IntentID   string    `json:"intentId"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	Event      string    `json:"event"`
	Tier       string    `json:"tier"`
	Seats      string    `json:"seats"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Org        string    `json:"org,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// BuyerName joins first and last name.
func (c Confirmation) BuyerName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ConfirmationRef derives the short reference shown to the buyer from a
// processor intent id: the "pi_" prefix dropped, first 12 characters, upper case.
func ConfirmationRef(intentID string) string {
	ref := intentID
	if len(ref) > 3 && ref[:3] == "pi_" {
		ref = ref[3:]
	}
	if len(ref) > 12 {
		ref = ref[:12]
	}
	return strings.ToUpper(ref)
}

