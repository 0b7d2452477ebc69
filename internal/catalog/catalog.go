// Package catalog loads the offerings sold on the registration page.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"award-registration/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type tierDoc struct {
	Name      string   `yaml:"name"`
	Style     string   `yaml:"style"`
	Price     int64    `yaml:"price"`
	Featured  bool     `yaml:"featured"`
	Tables    int      `yaml:"tables"`
	Seats     int      `yaml:"seats"`
	VIP       string   `yaml:"vip"`
	Books     int      `yaml:"books"`
	HostSeats int      `yaml:"host_seats"`
	Highlight string   `yaml:"highlight"`
	Features  []string `yaml:"features"`
}

type individualDoc struct {
	Label   string `yaml:"label"`
	Tagline string `yaml:"tagline"`
	Price   int64  `yaml:"price"`
	Max     int    `yaml:"max"`
}

type document struct {
	Title      string         `yaml:"title"`
	Intro      string         `yaml:"intro"`
	Tiers      []tierDoc      `yaml:"tiers"`
	Individual *individualDoc `yaml:"individual"`
	Host       HostInfo       `yaml:"host"`
}

// HostInfo describes the host table to buyers.
type HostInfo struct {
	Description string `yaml:"description" json:"description"`
	Short       string `yaml:"short" json:"short"`
}

// Catalog is immutable reference data; callers receive copies.
type Catalog struct {
	Title      string
	Intro      string
	Host       HostInfo
	tiers      []models.Tier
	byName     map[string]int
	individual models.IndividualSeats
}

// Load reads a catalog document from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultDocument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the embedded catalog. It panics if the embedded document is broken.
func Default() *Catalog {
	c, err := Parse(defaultDocument)
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if doc.Individual == nil {
		return nil, fmt.Errorf("%w: individual seats section is required", ErrInvalidCatalog)
	}
	if doc.Individual.Price <= 0 || doc.Individual.Max < 1 {
		return nil, fmt.Errorf("%w: individual seats need a positive price and max", ErrInvalidCatalog)
	}

	c := &Catalog{
		Title:  doc.Title,
		Intro:  doc.Intro,
		Host:   doc.Host,
		byName: make(map[string]int, len(doc.Tiers)),
		individual: models.IndividualSeats{
			Label:     doc.Individual.Label,
			Tagline:   doc.Individual.Tagline,
			UnitPrice: doc.Individual.Price,
			Max:       doc.Individual.Max,
		},
	}
	if c.individual.Label == "" {
		c.individual.Label = "Individual Seats"
	}

	styles := make(map[string]bool, len(doc.Tiers))
	for _, td := range doc.Tiers {
		tier, err := td.toTier()
		if err != nil {
			return nil, err
		}
		if _, dup := c.byName[tier.Name]; dup || tier.Name == c.individual.Label {
			return nil, fmt.Errorf("%w: duplicate offering name %q", ErrInvalidCatalog, tier.Name)
		}
		if styles[tier.Style] {
			return nil, fmt.Errorf("%w: duplicate style tag %q", ErrInvalidCatalog, tier.Style)
		}
		styles[tier.Style] = true
		c.byName[tier.Name] = len(c.tiers)
		c.tiers = append(c.tiers, tier)
	}

	return c, nil
}

func (td tierDoc) toTier() (models.Tier, error) {
	name := strings.TrimSpace(td.Name)
	if name == "" {
		return models.Tier{}, fmt.Errorf("%w: tier without a name", ErrInvalidCatalog)
	}
	if td.Style == "" {
		return models.Tier{}, fmt.Errorf("%w: tier %q has no style tag", ErrInvalidCatalog, name)
	}
	if td.Price <= 0 {
		return models.Tier{}, fmt.Errorf("%w: tier %q must have a positive price", ErrInvalidCatalog, name)
	}
	if td.Tables < 0 || td.Seats < 0 || td.Books < 0 || td.HostSeats < 0 {
		return models.Tier{}, fmt.Errorf("%w: tier %q has negative counts", ErrInvalidCatalog, name)
	}
	if td.Tables*models.SeatsPerTable > td.Seats {
		return models.Tier{}, fmt.Errorf("%w: tier %q has more table seats than seats", ErrInvalidCatalog, name)
	}
	vip, err := models.ParseVIPAllowance(td.VIP)
	if err != nil {
		return models.Tier{}, fmt.Errorf("%w: tier %q: %v", ErrInvalidCatalog, name, err)
	}
	return models.Tier{
		Name:      name,
		Style:     td.Style,
		Price:     td.Price,
		Tables:    td.Tables,
		Seats:     td.Seats,
		VIP:       vip,
		Books:     td.Books,
		HostSeats: td.HostSeats,
		Featured:  td.Featured,
		Highlight: td.Highlight,
		Features:  append([]string(nil), td.Features...),
	}, nil
}

func (c *Catalog) Tiers() []models.Tier {
	return append([]models.Tier(nil), c.tiers...)
}

func (c *Catalog) Tier(name string) (models.Tier, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.Tier{}, false
	}
	return c.tiers[i], true
}

// Featured returns the full-width tiers shown first.
func (c *Catalog) Featured() []models.Tier {
	return c.filter(true)
}

// Grid returns the remaining tiers.
func (c *Catalog) Grid() []models.Tier {
	return c.filter(false)
}

func (c *Catalog) filter(featured bool) []models.Tier {
	var out []models.Tier
	for _, t := range c.tiers {
		if t.Featured == featured {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Individual() models.IndividualSeats {
	return c.individual
}

// Offering resolves a display name to the offering it names.
func (c *Catalog) Offering(name string) (models.Offering, bool) {
	if name == c.individual.Label {
		return c.individual, true
	}
	if t, ok := c.Tier(name); ok {
		return t, true
	}
	return nil, false
}

// ExpectedAmount is the canonical price for an offering name and seat count.
// Individual seats outside [1, max] have no valid price.
func (c *Catalog) ExpectedAmount(name string, seats int) (int64, bool) {
	offering, ok := c.Offering(name)
	if !ok {
		return 0, false
	}
	switch o := offering.(type) {
	case models.IndividualSeats:
		if seats < 1 || seats > o.Max {
			return 0, false
		}
		return o.Allocate(seats).Price, true
	case models.Tier:
		return o.Price, true
	}
	return 0, false
}
