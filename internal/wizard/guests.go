package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"award-registration/internal/models"
)

// TableID names a table of the active offering. Tables are numbered from 0;
// HostTable is the honoree's table.
type TableID int

const HostTable TableID = -1

func (t TableID) IsHost() bool { return t == HostTable }

// GuestKey identifies one seat.
type GuestKey struct {
	Table TableID
	Seat  int
}

func HostSeat(seat int) GuestKey { return GuestKey{Table: HostTable, Seat: seat} }

func TableSeat(table, seat int) GuestKey { return GuestKey{Table: TableID(table), Seat: seat} }

// MarshalText renders "host-2" or "0-7" so guest maps survive JSON.
func (k GuestKey) MarshalText() ([]byte, error) {
	if k.Table.IsHost() {
		return []byte(fmt.Sprintf("host-%d", k.Seat)), nil
	}
	return []byte(fmt.Sprintf("%d-%d", k.Table, k.Seat)), nil
}

func (k *GuestKey) UnmarshalText(b []byte) error {
	table, seat, ok := strings.Cut(string(b), "-")
	if !ok {
		return fmt.Errorf("invalid guest key %q", b)
	}
	n, err := strconv.Atoi(seat)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid seat in guest key %q", b)
	}
	if table == "host" {
		*k = HostSeat(n)
		return nil
	}
	t, err := strconv.Atoi(table)
	if err != nil || t < 0 {
		return fmt.Errorf("invalid table in guest key %q", b)
	}
	*k = TableSeat(t, n)
	return nil
}

func (k GuestKey) String() string {
	b, _ := k.MarshalText()
	return string(b)
}

type Guest struct {
	FirstName string `json:"first"`
	LastName  string `json:"last"`
	VIP       bool   `json:"vip,omitempty"`
}

func (g Guest) Named() bool {
	return strings.TrimSpace(g.FirstName) != "" || strings.TrimSpace(g.LastName) != ""
}

func (g Guest) Name() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Row is one seat in the guest step.
type Row struct {
	Key GuestKey
	// VIPBox means the buyer chooses whether this seat gets VIP access.
	VIPBox bool
	// ImplicitVIP means the seat is VIP by offering: host seats and
	// all-VIP tiers.
	ImplicitVIP bool
}

type Group struct {
	Title string
	Table TableID
	Rows  []Row
}

// seatTotal is the number of non-host seats the guest grid holds.
func seatTotal(a models.Allocation) int {
	if a.Tables > 0 {
		return a.Tables * models.SeatsPerTable
	}
	return a.Seats
}

// vipLimit is the number of VIP boxes that may be checked, or 0 when the
// offering shows none.
func vipLimit(a models.Allocation) int {
	if a.Kind != models.KindTier || a.VIP.Mode != models.VIPLimited {
		return 0
	}
	if a.VIP.Count <= 0 || a.VIP.Count >= seatTotal(a) {
		return 0
	}
	return a.VIP.Count
}

// everyoneVIP covers "all" tiers and allowances that cover every seat.
func everyoneVIP(a models.Allocation) bool {
	if a.Kind != models.KindTier {
		return false
	}
	switch a.VIP.Mode {
	case models.VIPAll:
		return true
	case models.VIPLimited:
		return a.VIP.Count > 0 && a.VIP.Count >= seatTotal(a)
	}
	return false
}

// Layout builds the guest grid for an offering: host rows first, then one
// group of ten per table. Tiers without tables and individual seats get a
// single group sized to their seat count.
func Layout(a models.Allocation) []Group {
	var groups []Group
	showBoxes := vipLimit(a) > 0
	allVIP := everyoneVIP(a)

	switch a.Kind {
	case models.KindTier:
		if a.HostSeats > 0 {
			g := Group{Title: "Host Table Seats", Table: HostTable}
			for seat := 1; seat <= a.HostSeats; seat++ {
				g.Rows = append(g.Rows, Row{Key: HostSeat(seat), ImplicitVIP: true})
			}
			groups = append(groups, g)
		}
		for t := 0; t < a.Tables; t++ {
			title := "Your Table"
			if a.Tables > 1 {
				title = fmt.Sprintf("Table %d of %d", t+1, a.Tables)
			}
			g := Group{Title: title + " (10 Seats)", Table: TableID(t)}
			for seat := 1; seat <= models.SeatsPerTable; seat++ {
				g.Rows = append(g.Rows, Row{Key: TableSeat(t, seat), VIPBox: showBoxes, ImplicitVIP: allVIP})
			}
			groups = append(groups, g)
		}
		if a.Tables == 0 && a.Seats > 0 {
			g := Group{Title: seatsTitle(a.Seats), Table: 0}
			for seat := 1; seat <= a.Seats; seat++ {
				g.Rows = append(g.Rows, Row{Key: TableSeat(0, seat), VIPBox: showBoxes, ImplicitVIP: allVIP})
			}
			groups = append(groups, g)
		}
	case models.KindIndividual:
		g := Group{Title: seatsTitle(a.Seats), Table: 0}
		for seat := 1; seat <= a.Seats; seat++ {
			g.Rows = append(g.Rows, Row{Key: TableSeat(0, seat)})
		}
		groups = append(groups, g)
	}
	return groups
}

func seatsTitle(n int) string {
	if n == 1 {
		return "Your Seats (1 Guest)"
	}
	return fmt.Sprintf("Your Seats (%d Guests)", n)
}

func findRow(groups []Group, key GuestKey) (Row, bool) {
	for _, g := range groups {
		for _, r := range g.Rows {
			if r.Key == key {
				return r, true
			}
		}
	}
	return Row{}, false
}

// VIPBox is the live state of one VIP checkbox.
type VIPBox struct {
	Key      GuestKey
	Checked  bool
	Disabled bool
}

// VIPBoxes lists every checkbox with boxes beyond the allowance disabled.
func VIPBoxes(s State) []VIPBox {
	limit := vipLimit(s.Offering)
	if limit == 0 {
		return nil
	}
	used := checkedVIP(s)
	var boxes []VIPBox
	for _, g := range Layout(s.Offering) {
		for _, r := range g.Rows {
			if !r.VIPBox {
				continue
			}
			checked := s.Guests[r.Key].VIP
			boxes = append(boxes, VIPBox{
				Key:      r.Key,
				Checked:  checked,
				Disabled: !checked && used >= limit,
			})
		}
	}
	return boxes
}

// VIPCount returns the checked count and the cap for limited tiers.
func VIPCount(s State) (used, limit int) {
	return checkedVIP(s), vipLimit(s.Offering)
}

func checkedVIP(s State) int {
	n := 0
	for k, g := range s.Guests {
		if g.VIP && !k.Table.IsHost() {
			n++
		}
	}
	return n
}

// GuestNotes serialises the named guests, followed by the buyer's notes, for
// the intent's guests field.
func GuestNotes(s State) string {
	var parts []string
	for _, g := range Layout(s.Offering) {
		for _, r := range g.Rows {
			guest, ok := s.Guests[r.Key]
			if !ok || !guest.Named() {
				continue
			}
			entry := fmt.Sprintf("%s: %s", seatLabel(s.Offering, r.Key), guest.Name())
			if r.ImplicitVIP || guest.VIP {
				entry += " (VIP)"
			}
			parts = append(parts, entry)
		}
	}
	if notes := strings.TrimSpace(s.Notes); notes != "" {
		parts = append(parts, "Notes: "+notes)
	}
	return strings.Join(parts, "; ")
}

func seatLabel(a models.Allocation, k GuestKey) string {
	switch {
	case k.Table.IsHost():
		return fmt.Sprintf("Host Seat %d", k.Seat)
	case a.Tables > 1:
		return fmt.Sprintf("T%d Seat %d", int(k.Table)+1, k.Seat)
	}
	return fmt.Sprintf("Seat %d", k.Seat)
}
