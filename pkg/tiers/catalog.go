package tiers

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLevel      = errors.New("tiers: unknown tier level")
	ErrIncompleteCatalog = errors.New("tiers: catalog must define every level")
	ErrMissingResource   = errors.New("tiers: tier must define every resource limit")
	ErrNotMonotonic      = errors.New("tiers: limits must not decrease with higher levels")
	ErrNegativePrice     = errors.New("tiers: price must be non-negative")
)

// Catalog is an immutable, validated set of the four tiers.
type Catalog struct {
	tiers map[Level]Tier
}

// NewCatalog builds a Catalog from the given tiers after validating that every
// level and resource is present, prices are non-negative, and limits grow
// monotonically with the level order (Unlimited counts as +inf).
func NewCatalog(entries ...Tier) (Catalog, error) {
	byLevel := make(map[Level]Tier, len(entries))
	for _, t := range entries {
		if !t.Level.Valid() {
			return Catalog{}, fmt.Errorf("%w: %q", ErrUnknownLevel, t.Level)
		}
		byLevel[t.Level] = t
	}

	for _, level := range levelOrder {
		t, ok := byLevel[level]
		if !ok {
			return Catalog{}, fmt.Errorf("%w: missing %q", ErrIncompleteCatalog, level)
		}
		if t.Price.Amount < 0 {
			return Catalog{}, fmt.Errorf("%w: %q", ErrNegativePrice, level)
		}
		for _, res := range resourceOrder {
			if _, ok := t.Limits[res]; !ok {
				return Catalog{}, fmt.Errorf("%w: %q lacks %q", ErrMissingResource, level, res)
			}
		}
	}

	for i := 1; i < len(levelOrder); i++ {
		lower := byLevel[levelOrder[i-1]]
		higher := byLevel[levelOrder[i]]
		for _, res := range resourceOrder {
			if effectiveLimit(higher.Limits[res]) < effectiveLimit(lower.Limits[res]) {
				return Catalog{}, fmt.Errorf("%w: %q < %q for %q",
					ErrNotMonotonic, levelOrder[i], levelOrder[i-1], res)
			}
		}
	}

	return Catalog{tiers: byLevel}, nil
}

// MustCatalog builds a Catalog and panics on invalid configuration,
// failing fast during initialization.
func MustCatalog(entries ...Tier) Catalog {
	c, err := NewCatalog(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the catalog entry for a level. The level enum is closed, so
// this is a total function; unknown input is a programmer error and yields
// the bronze entry rather than a runtime failure path.
func (c Catalog) Config(level Level) Tier {
	if t, ok := c.tiers[level]; ok {
		return t
	}
	return c.tiers[LevelBronze]
}

// effectiveLimit maps Unlimited to +inf ordering without importing math.
func effectiveLimit(v float64) float64 {
	if v == Unlimited {
		return 1 << 52
	}
	return v
}

// defaultCatalog is the compiled-in will-registry pricing table.
var defaultCatalog = MustCatalog(
	Tier{
		Level:       LevelBronze,
		Name:        "Bronze",
		Description: "Free forever. Register your will and a single trusted representative.",
		Price:       Money{Amount: 0, Currency: "EUR"},
		Interval:    BillingIntervalNone,
		Limits: map[Resource]float64{
			ResourceRepresentatives:   3,
			ResourceEmergencyContacts: 1,
			ResourceStorageGB:         0.1,
			ResourceDocuments:         10,
		},
	},
	Tier{
		Level:       LevelSilver,
		Name:        "Silver",
		Description: "For families: more representatives, emergency contacts and document storage.",
		Price:       Money{Amount: 499, Currency: "EUR"},
		Interval:    BillingIntervalMonthly,
		Limits: map[Resource]float64{
			ResourceRepresentatives:   12,
			ResourceEmergencyContacts: 3,
			ResourceStorageGB:         1,
			ResourceDocuments:         50,
		},
	},
	Tier{
		Level:       LevelGold,
		Name:        "Gold",
		Description: "Extended storage and contacts for complex estates.",
		Price:       Money{Amount: 999, Currency: "EUR"},
		Interval:    BillingIntervalMonthly,
		Limits: map[Resource]float64{
			ResourceRepresentatives:   25,
			ResourceEmergencyContacts: 10,
			ResourceStorageGB:         5,
			ResourceDocuments:         200,
		},
	},
	Tier{
		Level:       LevelPlatinum,
		Name:        "Platinum",
		Description: "No limits on representatives, contacts or registered documents.",
		Price:       Money{Amount: 1999, Currency: "EUR"},
		Interval:    BillingIntervalMonthly,
		Limits: map[Resource]float64{
			ResourceRepresentatives:   Unlimited,
			ResourceEmergencyContacts: Unlimited,
			ResourceStorageGB:         20,
			ResourceDocuments:         Unlimited,
		},
	},
)

// Default returns the compiled-in catalog.
func Default() Catalog {
	return defaultCatalog
}

// Config returns the default catalog entry for a level.
func Config(level Level) Tier {
	return defaultCatalog.Config(level)
}
