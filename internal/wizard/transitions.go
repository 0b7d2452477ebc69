package wizard

import (
	"strings"

	"award-registration/internal/models"
)

const (
	NoticeBuyerRequired = "Please fill in your first name, last name, and email before continuing."
	NoticeNoSelection   = "Please choose a sponsorship or individual seats first."
)

// SelectTier makes t the active offering. The wizard restarts at step 1 with
// an empty guest grid and no intent.
func SelectTier(s State, t models.Tier) State {
	return selectOffering(s, t.Allocate(0))
}

// SelectIndividual activates individual seats at the current quantity.
func SelectIndividual(s State, seats models.IndividualSeats) State {
	s.Individual = seats
	s.Quantity = seats.Clamp(s.Quantity)
	return selectOffering(s, seats.Allocate(s.Quantity))
}

func selectOffering(s State, a models.Allocation) State {
	next := s.next()
	next.Offering = a
	next.Guests = map[GuestKey]Guest{}
	next.Step = StepInfo
	next.ConfirmationID = ""
	return invalidate(next)
}

// ChangeQuantity moves the individual seat count by delta within [1, max].
// While individual seats are active the price follows and any intent is dropped.
// Once confirmed, the order is frozen; only a new selection restarts it.
func ChangeQuantity(s State, seats models.IndividualSeats, delta int) State {
	next := s.next()
	if s.Step == StepConfirmed {
		return next
	}
	next.Individual = seats
	next.Quantity = seats.Clamp(s.Quantity + delta)
	if s.Offering.Kind != models.KindIndividual || next.Quantity == s.Quantity {
		return next
	}
	next.Offering = seats.Allocate(next.Quantity)
	next.Guests = pruneGuests(next.Guests, Layout(next.Offering))
	return invalidate(next)
}

// invalidate drops the live intent and any call in flight.
func invalidate(s State) State {
	s.Revision++
	s.Intent = nil
	s.Pending = nil
	s.Paying = false
	return s
}

func SetBuyer(s State, b Buyer) State {
	next := s.next()
	if s.Step == StepConfirmed {
		return next
	}
	next.Buyer = Buyer{
		FirstName: strings.TrimSpace(b.FirstName),
		LastName:  strings.TrimSpace(b.LastName),
		Email:     strings.TrimSpace(b.Email),
		Phone:     strings.TrimSpace(b.Phone),
		Org:       strings.TrimSpace(b.Org),
	}
	return next
}

func SetNotes(s State, notes string) State {
	next := s.next()
	if s.Step == StepConfirmed {
		return next
	}
	next.Notes = notes
	return next
}

// GoToStep moves between steps 1 to 4. Leaving step 1 forward requires the
// buyer's name and email; going back is always allowed. Entering the payment
// step does not request an intent; see EnterPayment.
func GoToStep(s State, n Step) State {
	next := s.next()
	if n < StepInfo || n > StepPayment || s.Step == StepConfirmed {
		return next
	}
	if n > StepInfo && !s.Selected() {
		next.Notice = NoticeNoSelection
		return next
	}
	if n > StepInfo && s.Step == StepInfo && !s.Buyer.Complete() {
		next.Notice = NoticeBuyerRequired
		return next
	}
	next.Step = n
	if n == StepGuests {
		next.Guests = pruneGuests(next.Guests, Layout(next.Offering))
	}
	return next
}

// SetGuestName records a name for a seat of the current grid. Unknown seats
// are ignored.
func SetGuestName(s State, key GuestKey, first, last string) State {
	next := s.next()
	if s.Step == StepConfirmed {
		return next
	}
	if _, ok := findRow(Layout(s.Offering), key); !ok {
		return next
	}
	g := next.Guests[key]
	g.FirstName = strings.TrimSpace(first)
	g.LastName = strings.TrimSpace(last)
	next.Guests[key] = g
	return next
}

// ToggleVIP flips a seat's VIP checkbox. Checking beyond the allowance, or a
// seat without a checkbox, is a no-op.
func ToggleVIP(s State, key GuestKey) State {
	next := s.next()
	if s.Step == StepConfirmed {
		return next
	}
	row, ok := findRow(Layout(s.Offering), key)
	if !ok || !row.VIPBox {
		return next
	}
	g := next.Guests[key]
	if !g.VIP {
		used, limit := VIPCount(s)
		if used >= limit {
			return next
		}
	}
	g.VIP = !g.VIP
	next.Guests[key] = g
	return next
}

func pruneGuests(guests map[GuestKey]Guest, layout []Group) map[GuestKey]Guest {
	kept := make(map[GuestKey]Guest, len(guests))
	for k, g := range guests {
		if row, ok := findRow(layout, k); ok {
			if !row.VIPBox {
				g.VIP = false
			}
			kept[k] = g
		}
	}
	return kept
}
