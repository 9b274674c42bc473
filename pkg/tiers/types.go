package tiers

import "fmt"

// Level identifies a subscription tier, ordered bronze < silver < gold < platinum.
type Level string

const (
	LevelBronze   Level = "bronze"
	LevelSilver   Level = "silver"
	LevelGold     Level = "gold"
	LevelPlatinum Level = "platinum"
)

// levelOrder is the canonical low-to-high ordering of tiers.
var levelOrder = [...]Level{LevelBronze, LevelSilver, LevelGold, LevelPlatinum}

// Levels returns all tier levels in ascending order.
func Levels() []Level {
	return levelOrder[:]
}

// Valid reports whether l is one of the four known levels.
func (l Level) Valid() bool {
	for _, known := range levelOrder {
		if l == known {
			return true
		}
	}
	return false
}

// rank returns the position of l in the canonical order, or -1 for unknown levels.
func (l Level) rank() int {
	for i, known := range levelOrder {
		if l == known {
			return i
		}
	}
	return -1
}

// Resource represents a countable account resource constrained by a tier.
type Resource string

const (
	ResourceRepresentatives   Resource = "representatives"
	ResourceEmergencyContacts Resource = "emergency_contacts"
	ResourceStorageGB         Resource = "storage_gb" // fractional values allowed
	ResourceDocuments         Resource = "documents"
)

// resourceOrder fixes the iteration order for snapshot evaluation.
var resourceOrder = [...]Resource{
	ResourceRepresentatives,
	ResourceEmergencyContacts,
	ResourceStorageGB,
	ResourceDocuments,
}

// Resources returns all resource kinds in canonical order.
func Resources() []Resource {
	return resourceOrder[:]
}

// Unlimited indicates no limit for a resource (-1 kept for SQL compatibility).
const Unlimited float64 = -1

// BillingInterval represents the billing cadence of a tier.
type BillingInterval string

const (
	BillingIntervalNone    BillingInterval = "none" // perpetual, no billing
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalAnnual  BillingInterval = "annual"
)

// Money represents a monetary amount in the smallest currency unit.
type Money struct {
	Amount   int64  `json:"amount" yaml:"amount"` // cents for EUR/USD
	Currency string `json:"currency" yaml:"currency"`
}

// String renders the amount for user-facing billing messages, e.g. "€4.99".
func (m Money) String() string {
	symbol := m.Currency + " "
	switch m.Currency {
	case "EUR":
		symbol = "€"
	case "USD":
		symbol = "$"
	case "GBP":
		symbol = "£"
	}
	return fmt.Sprintf("%s%d.%02d", symbol, m.Amount/100, m.Amount%100)
}

// Tier describes a single catalog entry.
type Tier struct {
	Level       Level                `yaml:"level"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Price       Money                `yaml:"price"`
	Interval    BillingInterval      `yaml:"interval"`
	Limits      map[Resource]float64 `yaml:"limits"`
}

// IsRecurring reports whether the tier bills on a cadence rather than being perpetual.
func (t Tier) IsRecurring() bool {
	return t.Interval != BillingIntervalNone && t.Interval != ""
}

// IsFree reports whether the tier requires no payment at all.
func (t Tier) IsFree() bool {
	return t.Price.Amount == 0
}

// LimitCheck is the result of evaluating a single resource against a tier.
type LimitCheck struct {
	Allowed   bool    `json:"allowed"`
	Limit     float64 `json:"limit"`
	OverLimit bool    `json:"overLimit"`
}

// Violation records a resource whose usage strictly exceeds its tier limit.
type Violation struct {
	Resource Resource `json:"resource"`
	Usage    float64  `json:"usage"`
	Limit    float64  `json:"limit"`
}
