package wizard

import (
	"fmt"
	"strings"

	"award-registration/internal/models"
	"award-registration/internal/utils"
)

const blank = "—"

type ReviewGuest struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	VIP   bool   `json:"vip"`
}

// ReviewView is what step 3 shows. Total always equals the order price.
type ReviewView struct {
	Offering    string        `json:"offering"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Org         string        `json:"org,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Total       int64         `json:"total"`
	TotalText   string        `json:"totalText"`
	HostGuests  []ReviewGuest `json:"hostGuests,omitempty"`
	TableGuests []ReviewGuest `json:"tableGuests,omitempty"`
	VIPCount    int           `json:"vipCount"`
}

// Review projects the state for step 3. Only named guests are listed; host
// seats, checked seats and every seat of an all-VIP tier count as VIP.
func Review(s State) ReviewView {
	v := ReviewView{
		Offering:  s.Offering.Name,
		Name:      orBlank(s.Buyer.FirstName) + " " + orBlank(s.Buyer.LastName),
		Email:     orBlank(s.Buyer.Email),
		Phone:     orBlank(s.Buyer.Phone),
		Org:       s.Buyer.Org,
		Notes:     strings.TrimSpace(s.Notes),
		Total:     s.Price(),
		TotalText: utils.FormatDollars(s.Price()),
	}

	for _, g := range Layout(s.Offering) {
		for _, r := range g.Rows {
			guest := s.Guests[r.Key]
			if !guest.Named() {
				continue
			}
			rg := ReviewGuest{
				Label: reviewLabel(s.Offering, r.Key),
				Name:  guest.Name(),
				VIP:   r.ImplicitVIP || guest.VIP,
			}
			if rg.VIP {
				v.VIPCount++
			}
			if r.Key.Table.IsHost() {
				v.HostGuests = append(v.HostGuests, rg)
			} else {
				v.TableGuests = append(v.TableGuests, rg)
			}
		}
	}
	return v
}

func reviewLabel(a models.Allocation, k GuestKey) string {
	if a.Tables > 1 && !k.Table.IsHost() {
		return fmt.Sprintf("T%d Seat %d", int(k.Table)+1, k.Seat)
	}
	return fmt.Sprintf("Seat %d", k.Seat)
}

func orBlank(s string) string {
	if s == "" {
		return blank
	}
	return s
}

// PaymentView is what step 4 shows around the processor's payment form.
type PaymentView struct {
	Offering      string `json:"offering"`
	Seats         string `json:"seats"`
	Registrant    string `json:"registrant"`
	TotalDue      string `json:"totalDue"`
	ButtonLabel   string `json:"buttonLabel"`
	ButtonEnabled bool   `json:"buttonEnabled"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
}

func PaymentSummary(s State) PaymentView {
	total := utils.FormatDollars(s.Price())
	_, live := LiveIntent(s)
	return PaymentView{
		Offering:      s.Offering.Name,
		Seats:         seatCount(s.Offering.Seats),
		Registrant:    s.Buyer.Name(),
		TotalDue:      total,
		ButtonLabel:   "Complete Payment — " + total,
		ButtonEnabled: live && !s.Paying && s.Pending == nil,
		Loading:       s.Pending != nil,
		Error:         s.Notice,
	}
}

func seatCount(n int) string {
	if n == 1 {
		return "1 seat"
	}
	return fmt.Sprintf("%d seats", n)
}

// ConfirmationView is shown once the processor reports success. It echoes
// what the buyer entered; nothing is fetched from a store.
type ConfirmationView struct {
	Offering   string `json:"offering"`
	AmountPaid string `json:"amountPaid"`
	Email      string `json:"email"`
	Reference  string `json:"reference"`
}

func Confirmation(s State) (ConfirmationView, bool) {
	if s.Step != StepConfirmed {
		return ConfirmationView{}, false
	}
	return ConfirmationView{
		Offering:   s.Offering.Name,
		AmountPaid: utils.FormatDollars(s.Price()),
		Email:      s.Buyer.Email,
		Reference:  models.ConfirmationRef(s.ConfirmationID),
	}, true
}
