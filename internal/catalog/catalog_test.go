package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"award-registration/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	tiers := c.Tiers()
	require.Len(t, tiers, 5)
	assert.Equal(t, "Event Sponsor", tiers[0].Name)

	gold, ok := c.Tier("Gold Sponsor")
	require.True(t, ok)
	assert.Equal(t, int64(15000), gold.Price)
	assert.Equal(t, 1, gold.Tables)
	assert.Equal(t, 10, gold.Seats)
	assert.Equal(t, models.LimitedVIP(4), gold.VIP)
	assert.Equal(t, 2, gold.HostSeats)

	event, _ := c.Tier("Event Sponsor")
	assert.Equal(t, models.AllVIP(), event.VIP)

	bronze, _ := c.Tier("Bronze Sponsor")
	assert.Equal(t, models.NoVIP(), bronze.VIP)
	assert.Equal(t, 0, bronze.Tables)

	assert.Len(t, c.Featured(), 1)
	assert.Len(t, c.Grid(), 4)

	ind := c.Individual()
	assert.Equal(t, int64(250), ind.UnitPrice)
	assert.Equal(t, 20, ind.Max)
	assert.Equal(t, "VIP Reception Included", c.Host.Short)
}

func TestCatalog_TiersReturnsCopy(t *testing.T) {
	c := Default()
	tiers := c.Tiers()
	tiers[0].Price = 1

	again, _ := c.Tier(tiers[0].Name)
	assert.Equal(t, int64(50000), again.Price)
}

func TestCatalog_ExpectedAmount(t *testing.T) {
	c := Default()

	amount, ok := c.ExpectedAmount("Gold Sponsor", 10)
	assert.True(t, ok)
	assert.Equal(t, int64(15000), amount)

	amount, ok = c.ExpectedAmount("Individual Seats", 3)
	assert.True(t, ok)
	assert.Equal(t, int64(750), amount)

	_, ok = c.ExpectedAmount("Individual Seats", 0)
	assert.False(t, ok)
	_, ok = c.ExpectedAmount("Individual Seats", 21)
	assert.False(t, ok)
	_, ok = c.ExpectedAmount("Diamond Sponsor", 10)
	assert.False(t, ok)
}

func TestCatalog_Offering(t *testing.T) {
	c := Default()

	o, ok := c.Offering("Individual Seats")
	require.True(t, ok)
	assert.Equal(t, models.KindIndividual, o.Kind())

	o, ok = c.Offering("Silver Sponsor")
	require.True(t, ok)
	assert.Equal(t, models.KindTier, o.Kind())
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing individual": `
tiers:
  - {name: A, style: a, price: 10, seats: 1}
`,
		"duplicate name": `
individual: {price: 250, max: 20}
tiers:
  - {name: A, style: a, price: 10, seats: 1}
  - {name: A, style: b, price: 10, seats: 1}
`,
		"duplicate style": `
individual: {price: 250, max: 20}
tiers:
  - {name: A, style: a, price: 10, seats: 1}
  - {name: B, style: a, price: 10, seats: 1}
`,
		"bad vip": `
individual: {price: 250, max: 20}
tiers:
  - {name: A, style: a, price: 10, seats: 1, vip: lots}
`,
		"zero price": `
individual: {price: 250, max: 20}
tiers:
  - {name: A, style: a, price: 0, seats: 1}
`,
		"tables exceed seats": `
individual: {price: 250, max: 20}
tiers:
  - {name: A, style: a, price: 10, tables: 2, seats: 10}
`,
		"not yaml": "tiers: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
individual: {label: Seats, price: 100, max: 4}
tiers:
  - {name: Patron, style: patron, price: 1000, tables: 1, seats: 10, vip: "3", host_seats: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	patron, ok := c.Tier("Patron")
	require.True(t, ok)
	assert.Equal(t, models.LimitedVIP(3), patron.VIP)
	assert.Equal(t, "Seats", c.Individual().Label)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
