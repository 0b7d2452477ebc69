package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatsPerTable is the fixed size of every sponsor table.
const SeatsPerTable = 10

type OfferingKind string

const (
	KindTier       OfferingKind = "tier"
	KindIndividual OfferingKind = "individual"
)

type VIPMode string

const (
	VIPNone    VIPMode = "none"
	VIPAll     VIPMode = "all"
	VIPLimited VIPMode = "limited"
)

// VIPAllowance is the number of non-host seats that may receive VIP access.
type VIPAllowance struct {
	Mode  VIPMode `json:"mode"`
	Count int     `json:"count,omitempty"`
}

func NoVIP() VIPAllowance { return VIPAllowance{Mode: VIPNone} }
func AllVIP() VIPAllowance { return VIPAllowance{Mode: VIPAll} }
func LimitedVIP(n int) VIPAllowance { return VIPAllowance{Mode: VIPLimited, Count: n} }

// ParseVIPAllowance accepts "all", a non-negative integer, or "" (none).
func ParseVIPAllowance(s string) (VIPAllowance, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return NoVIP(), nil
	case strings.EqualFold(s, "all"):
		return AllVIP(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return VIPAllowance{}, fmt.Errorf("invalid VIP allowance %q", s)
	}
	if n == 0 {
		return NoVIP(), nil
	}
	return LimitedVIP(n), nil
}

// String renders the allowance the way the catalog document writes it.
func (v VIPAllowance) String() string {
	switch v.Mode {
	case VIPAll:
		return "all"
	case VIPLimited:
		return strconv.Itoa(v.Count)
	default:
		return ""
	}
}

// Allocation is the projection shared by every offering: what the buyer gets
// and what it costs. Price is in whole currency units.
type Allocation struct {
	Kind      OfferingKind `json:"kind"`
	Name      string       `json:"name"`
	Price     int64        `json:"price"`
	Tables    int          `json:"tables"`
	Seats     int          `json:"seats"`
	VIP       VIPAllowance `json:"vip"`
	Books     int          `json:"books"`
	HostSeats int          `json:"hostSeats"`
}

// Offering is either a Tier or IndividualSeats.
type Offering interface {
	Kind() OfferingKind
	DisplayName() string
	// Allocate returns the allocation for the given quantity. Tiers ignore it.
	Allocate(quantity int) Allocation
	offering()
}

type Tier struct {
	Name      string       `json:"name"`
	Style     string       `json:"style"`
	Price     int64        `json:"price"`
	Tables    int          `json:"tables"`
	Seats     int          `json:"seats"`
	VIP       VIPAllowance `json:"vip"`
	Books     int          `json:"books"`
	HostSeats int          `json:"hostSeats"`
	Featured  bool         `json:"featured"`
	Highlight string       `json:"highlight,omitempty"`
	Features  []string     `json:"features"`
}

func (t Tier) Kind() OfferingKind { return KindTier }
func (t Tier) DisplayName() string { return t.Name }
func (Tier) offering() {}

func (t Tier) Allocate(int) Allocation {
	return Allocation{
		Kind:      KindTier,
		Name:      t.Name,
		Price:     t.Price,
		Tables:    t.Tables,
		Seats:     t.Seats,
		VIP:       t.VIP,
		Books:     t.Books,
		HostSeats: t.HostSeats,
	}
}

type IndividualSeats struct {
	Label     string `json:"label"`
	Tagline   string `json:"tagline,omitempty"`
	UnitPrice int64  `json:"unitPrice"`
	Max       int    `json:"max"`
}

func (i IndividualSeats) Kind() OfferingKind { return KindIndividual }
func (i IndividualSeats) DisplayName() string { return i.Label }
func (IndividualSeats) offering() {}

// Clamp bounds a requested quantity to [1, Max].
func (i IndividualSeats) Clamp(quantity int) int {
	if quantity < 1 {
		quantity = 1
	}
	if i.Max > 0 && quantity > i.Max {
		quantity = i.Max
	}
	return quantity
}

func (i IndividualSeats) Allocate(quantity int) Allocation {
	q := i.Clamp(quantity)
	return Allocation{
		Kind:  KindIndividual,
		Name:  i.Label,
		Price: int64(q) * i.UnitPrice,
		Seats: q,
		VIP:   NoVIP(),
	}
}

// OfferingsResponse is the body of GET /api/offerings.
type OfferingsResponse struct {
	Event          string          `json:"event"`
	Currency       string          `json:"currency"`
	PublishableKey string          `json:"publishableKey,omitempty"`
	Tiers          []Tier          `json:"tiers"`
	Individual     IndividualSeats `json:"individual"`
}

// Find resolves an offering by display name.
func (o OfferingsResponse) Find(name string) (Offering, bool) {
	if name == o.Individual.Label {
		return o.Individual, true
	}
	for _, t := range o.Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
