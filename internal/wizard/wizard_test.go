package wizard

import (
	"encoding/json"
	"testing"

	"award-registration/internal/catalog"
	"award-registration/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cat = catalog.Default()

func tier(t *testing.T, name string) models.Tier {
	t.Helper()
	tr, ok := cat.Tier(name)
	require.True(t, ok, name)
	return tr
}

func ada() Buyer {
	return Buyer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Org: "Analytical Engines"}
}

// readyFor returns a state on step 3 for the given tier.
func readyFor(t *testing.T, name string) State {
	s := SelectTier(New(), tier(t, name))
	s = SetBuyer(s, ada())
	s = GoToStep(s, StepGuests)
	s = GoToStep(s, StepReview)
	require.Equal(t, StepReview, s.Step)
	return s
}

func TestPriceAlwaysFollowsOffering(t *testing.T) {
	ind := cat.Individual()
	s := New()

	check := func(s State) {
		switch s.Offering.Kind {
		case models.KindTier:
			tr := tier(t, s.Offering.Name)
			assert.Equal(t, tr.Price, s.Price())
		case models.KindIndividual:
			assert.Equal(t, int64(s.Quantity)*ind.UnitPrice, s.Price())
			assert.Equal(t, s.Quantity, s.Offering.Seats)
		}
	}

	for _, tr := range cat.Tiers() {
		s = SelectTier(s, tr)
		check(s)
		s = ChangeQuantity(s, ind, 2)
		check(s)
		s = SelectIndividual(s, ind)
		check(s)
		for _, d := range []int{1, 5, -3, 40, -100, 7} {
			s = ChangeQuantity(s, ind, d)
			check(s)
		}
	}
}

func TestChangeQuantity_ClampsAndReprices(t *testing.T) {
	ind := cat.Individual()
	s := SelectIndividual(New(), ind)
	require.Equal(t, 1, s.Quantity)
	assert.Equal(t, int64(250), s.Price())

	s = ChangeQuantity(s, ind, -1)
	assert.Equal(t, 1, s.Quantity)

	s = ChangeQuantity(s, ind, 100)
	assert.Equal(t, 20, s.Quantity)
	assert.Equal(t, int64(5000), s.Price())
}

func TestChangeQuantity_WithTierSelectedKeepsTierPrice(t *testing.T) {
	s := SelectTier(New(), tier(t, "Gold Sponsor"))
	rev := s.Revision

	s = ChangeQuantity(s, cat.Individual(), 3)

	assert.Equal(t, 4, s.Quantity)
	assert.Equal(t, int64(15000), s.Price())
	assert.Equal(t, rev, s.Revision)
}

func TestGoToStep_ForwardGuard(t *testing.T) {
	s := SelectTier(New(), tier(t, "Gold Sponsor"))
	s = SetBuyer(s, Buyer{FirstName: "Ada", LastName: "Lovelace"})

	s = GoToStep(s, StepGuests)
	assert.Equal(t, StepInfo, s.Step)
	assert.Equal(t, NoticeBuyerRequired, s.Notice)

	s = SetBuyer(s, Buyer{FirstName: "Ada", LastName: "Lovelace", Email: "   "})
	s = GoToStep(s, StepGuests)
	assert.Equal(t, StepInfo, s.Step)

	s = SetBuyer(s, ada())
	s = GoToStep(s, StepGuests)
	assert.Equal(t, StepGuests, s.Step)
	assert.Empty(t, s.Notice)
}

func TestGoToStep_BackwardNeverValidates(t *testing.T) {
	s := readyFor(t, "Silver Sponsor")
	s = SetBuyer(s, Buyer{})

	s = GoToStep(s, StepGuests)
	assert.Equal(t, StepGuests, s.Step)
	s = GoToStep(s, StepInfo)
	assert.Equal(t, StepInfo, s.Step)
}

func TestGoToStep_RequiresSelectionAndValidStep(t *testing.T) {
	s := SetBuyer(New(), ada())
	s = GoToStep(s, StepGuests)
	assert.Equal(t, StepInfo, s.Step)
	assert.Equal(t, NoticeNoSelection, s.Notice)

	s = SelectTier(s, tier(t, "Gold Sponsor"))
	s = SetBuyer(s, ada())
	assert.Equal(t, StepInfo, GoToStep(s, 0).Step)
	assert.Equal(t, StepInfo, GoToStep(s, StepConfirmed).Step)
}

func TestSelectOffering_ResetsWizard(t *testing.T) {
	s := readyFor(t, "Gold Sponsor")
	s = SetGuestName(s, TableSeat(0, 1), "Grace", "Hopper")
	s = ToggleVIP(s, TableSeat(0, 1))
	rev := s.Revision

	s = SelectTier(s, tier(t, "Silver Sponsor"))

	assert.Equal(t, StepInfo, s.Step)
	assert.Empty(t, s.Guests)
	assert.Greater(t, s.Revision, rev)
	assert.Equal(t, "Ada", s.Buyer.FirstName)
}

func TestLayout_GoldSponsor(t *testing.T) {
	groups := Layout(tier(t, "Gold Sponsor").Allocate(0))
	require.Len(t, groups, 2)

	host := groups[0]
	assert.Equal(t, HostTable, host.Table)
	require.Len(t, host.Rows, 2)
	for _, r := range host.Rows {
		assert.True(t, r.ImplicitVIP)
		assert.False(t, r.VIPBox)
	}

	table := groups[1]
	assert.Equal(t, "Your Table (10 Seats)", table.Title)
	require.Len(t, table.Rows, 10)
	for i, r := range table.Rows {
		assert.Equal(t, TableSeat(0, i+1), r.Key)
		assert.True(t, r.VIPBox)
		assert.False(t, r.ImplicitVIP)
	}
}

func TestLayout_Shapes(t *testing.T) {
	event := Layout(tier(t, "Event Sponsor").Allocate(0))
	require.Len(t, event, 6)
	assert.Len(t, event[0].Rows, 10)
	assert.Equal(t, "Table 1 of 5 (10 Seats)", event[1].Title)
	for _, g := range event[1:] {
		for _, r := range g.Rows {
			assert.False(t, r.VIPBox)
			assert.True(t, r.ImplicitVIP)
		}
	}

	platinum := Layout(tier(t, "Platinum Sponsor").Allocate(0))
	require.Len(t, platinum, 3)
	assert.Equal(t, "Table 2 of 2 (10 Seats)", platinum[2].Title)

	bronze := Layout(tier(t, "Bronze Sponsor").Allocate(0))
	require.Len(t, bronze, 1)
	assert.Equal(t, "Your Seats (4 Guests)", bronze[0].Title)
	assert.Len(t, bronze[0].Rows, 4)
	assert.False(t, bronze[0].Rows[0].VIPBox)

	indiv := Layout(cat.Individual().Allocate(3))
	require.Len(t, indiv, 1)
	assert.Len(t, indiv[0].Rows, 3)
	assert.Equal(t, TableSeat(0, 3), indiv[0].Rows[2].Key)
}

func TestLayout_AllowanceCoveringEverySeatMeansAllVIP(t *testing.T) {
	a := models.Tier{Name: "X", Price: 1, Tables: 1, Seats: 10, VIP: models.LimitedVIP(10)}.Allocate(0)
	groups := Layout(a)
	require.Len(t, groups, 1)
	assert.False(t, groups[0].Rows[0].VIPBox)
	assert.True(t, groups[0].Rows[0].ImplicitVIP)
}

func TestToggleVIP_CapIsHard(t *testing.T) {
	s := GoToStep(readyFor(t, "Gold Sponsor"), StepGuests)

	for seat := 1; seat <= 6; seat++ {
		s = ToggleVIP(s, TableSeat(0, seat))
	}

	used, limit := VIPCount(s)
	assert.Equal(t, 4, used)
	assert.Equal(t, 4, limit)
	assert.False(t, s.Guests[TableSeat(0, 5)].VIP)

	boxes := VIPBoxes(s)
	require.Len(t, boxes, 10)
	for _, b := range boxes {
		assert.Equal(t, !b.Checked, b.Disabled, b.Key.String())
	}

	s = ToggleVIP(s, TableSeat(0, 2))
	used, _ = VIPCount(s)
	assert.Equal(t, 3, used)
	for _, b := range VIPBoxes(s) {
		assert.False(t, b.Disabled)
	}

	s = ToggleVIP(s, TableSeat(0, 9))
	used, _ = VIPCount(s)
	assert.Equal(t, 4, used)
}

func TestToggleVIP_NoBoxNoEffect(t *testing.T) {
	s := GoToStep(readyFor(t, "Gold Sponsor"), StepGuests)
	s = ToggleVIP(s, HostSeat(1))
	assert.False(t, s.Guests[HostSeat(1)].VIP)

	s = ToggleVIP(s, TableSeat(3, 1))
	assert.Empty(t, s.Guests)

	e := GoToStep(readyFor(t, "Event Sponsor"), StepGuests)
	e = ToggleVIP(e, TableSeat(0, 1))
	assert.Empty(t, VIPBoxes(e))
	used, limit := VIPCount(e)
	assert.Zero(t, used)
	assert.Zero(t, limit)
}

func TestSetGuestName_OnlyForSeatsInGrid(t *testing.T) {
	s := readyFor(t, "Silver Sponsor")
	s = SetGuestName(s, TableSeat(0, 10), " Grace ", "Hopper")
	s = SetGuestName(s, TableSeat(0, 11), "No", "Seat")
	s = SetGuestName(s, HostSeat(1), "No", "Host")

	require.Len(t, s.Guests, 1)
	assert.Equal(t, "Grace Hopper", s.Guests[TableSeat(0, 10)].Name())
}

func TestChangeQuantity_DropsGuestsBeyondNewCount(t *testing.T) {
	ind := cat.Individual()
	s := SelectIndividual(New(), ind)
	s = ChangeQuantity(s, ind, 2)
	s = SetGuestName(s, TableSeat(0, 3), "Third", "Guest")
	s = SetGuestName(s, TableSeat(0, 1), "First", "Guest")

	s = ChangeQuantity(s, ind, -1)

	assert.Len(t, s.Guests, 1)
	_, ok := s.Guests[TableSeat(0, 1)]
	assert.True(t, ok)
}

func TestReview_GoldSponsor(t *testing.T) {
	s := readyFor(t, "Gold Sponsor")
	s = SetGuestName(s, HostSeat(1), "Grace", "Hopper")
	s = SetGuestName(s, TableSeat(0, 1), "Alan", "Turing")
	s = SetGuestName(s, TableSeat(0, 2), "Edsger", "")
	s = ToggleVIP(s, TableSeat(0, 1))
	s = ToggleVIP(s, TableSeat(0, 7))

	v := Review(s)

	assert.Equal(t, "Gold Sponsor", v.Offering)
	assert.Equal(t, "Ada Lovelace", v.Name)
	assert.Equal(t, blank, v.Phone)
	assert.Equal(t, int64(15000), v.Total)
	assert.Equal(t, "$15,000", v.TotalText)
	require.Len(t, v.HostGuests, 1)
	assert.True(t, v.HostGuests[0].VIP)
	require.Len(t, v.TableGuests, 2)
	assert.Equal(t, ReviewGuest{Label: "Seat 1", Name: "Alan Turing", VIP: true}, v.TableGuests[0])
	assert.False(t, v.TableGuests[1].VIP)
	assert.Equal(t, 2, v.VIPCount)
}

func TestReview_AllVIPTierAndTableLabels(t *testing.T) {
	s := readyFor(t, "Event Sponsor")
	s = SetGuestName(s, TableSeat(2, 4), "Katherine", "Johnson")

	v := Review(s)

	require.Len(t, v.TableGuests, 1)
	assert.Equal(t, "T3 Seat 4", v.TableGuests[0].Label)
	assert.True(t, v.TableGuests[0].VIP)
	assert.Equal(t, "$50,000", v.TotalText)
}

func TestGuestNotes(t *testing.T) {
	s := readyFor(t, "Gold Sponsor")
	s = SetGuestName(s, HostSeat(2), "Grace", "Hopper")
	s = SetGuestName(s, TableSeat(0, 1), "Alan", "Turing")
	s = SetGuestName(s, TableSeat(0, 3), "Edsger", "Dijkstra")
	s = ToggleVIP(s, TableSeat(0, 3))

	assert.Equal(t, "Host Seat 2: Grace Hopper (VIP); Seat 1: Alan Turing; Seat 3: Edsger Dijkstra (VIP)", GuestNotes(s))
}

func TestBuyerNotesReachIntentAndReview(t *testing.T) {
	s := readyFor(t, "Gold Sponsor")
	s = SetGuestName(s, TableSeat(0, 1), "Alan", "Turing")
	s = SetNotes(s, "  vegetarian, wheelchair access ")

	assert.Equal(t, "Seat 1: Alan Turing; Notes: vegetarian, wheelchair access", GuestNotes(s))
	assert.Equal(t, GuestNotes(s), Snapshot(s).Guests)
	assert.Equal(t, "vegetarian, wheelchair access", Review(s).Notes)

	s = SetNotes(s, "")
	assert.Equal(t, "Seat 1: Alan Turing", Snapshot(s).Guests)
	assert.Empty(t, Review(s).Notes)
}

func TestNotesAloneFillGuestsField(t *testing.T) {
	s := SetNotes(readyFor(t, "Silver Sponsor"), "Table near the stage")

	assert.Equal(t, "Notes: Table near the stage", Snapshot(s).Guests)
}

func TestGuestKey_Text(t *testing.T) {
	for _, k := range []GuestKey{HostSeat(3), TableSeat(0, 1), TableSeat(4, 10)} {
		b, err := k.MarshalText()
		require.NoError(t, err)
		var back GuestKey
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, k, back)
	}
	assert.Equal(t, "host-3", HostSeat(3).String())

	var k GuestKey
	assert.Error(t, k.UnmarshalText([]byte("host")))
	assert.Error(t, k.UnmarshalText([]byte("x-1")))
	assert.Error(t, k.UnmarshalText([]byte("0-0")))
}

func TestState_SerializesAndResumes(t *testing.T) {
	s := readyFor(t, "Gold Sponsor")
	s = SetGuestName(s, HostSeat(1), "Grace", "Hopper")
	s = ToggleVIP(s, TableSeat(0, 4))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var resumed State
	require.NoError(t, json.Unmarshal(data, &resumed))

	assert.Equal(t, s.Step, resumed.Step)
	assert.Equal(t, s.Offering, resumed.Offering)
	assert.Equal(t, s.Guests, resumed.Guests)
	assert.Equal(t, Review(s), Review(resumed))
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	s := readyFor(t, "Gold Sponsor")
	before, err := json.Marshal(s)
	require.NoError(t, err)

	_ = SetGuestName(s, TableSeat(0, 1), "Alan", "Turing")
	_ = ToggleVIP(s, TableSeat(0, 2))
	_ = SelectTier(s, tier(t, "Silver Sponsor"))

	after, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}
