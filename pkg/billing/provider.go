package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/willvault/registry/pkg/tiers"
)

var (
	ErrMissingUserID         = errors.New("billing: user id is required")
	ErrMissingSubscriptionID = errors.New("billing: subscription id is required")
	ErrMissingAuthUserID     = errors.New("billing: auth user id is required")
	ErrFreePlanNotBillable   = errors.New("billing: free plan has no subscription order")
	ErrNoApprovalURL         = errors.New("billing: no approval url returned from processor")
	ErrProvider              = errors.New("billing: payment processor error")
)

// Order is a subscription order created with the processor, awaiting
// approval and activation.
type Order struct {
	SubscriptionID string
	ApprovalURL    string
}

// Provider is the payment processor seen by the registration flow.
type Provider interface {
	// CreateSubscription creates an order for the tier and returns the
	// processor's approval URL the browser must be redirected to.
	CreateSubscription(ctx context.Context, level tiers.Level, userID, source string) (*Order, error)

	// ActivateSubscription confirms a previously created order after the
	// user returns from the processor.
	ActivateSubscription(ctx context.Context, subscriptionID, authUserID string) error

	// PlanPricing returns the price charged for a tier.
	PlanPricing(level tiers.Level) tiers.Money

	// BillingMessage returns the user-facing cadence line for a tier,
	// e.g. "€4.99 per month".
	BillingMessage(level tiers.Level) string
}

// CatalogPricing derives pricing and billing copy from a tier catalog.
// Provider implementations embed it so price display never diverges from
// the catalog the rest of the application uses.
type CatalogPricing struct {
	catalog tiers.Catalog
}

// NewCatalogPricing wraps a catalog.
func NewCatalogPricing(catalog tiers.Catalog) CatalogPricing {
	return CatalogPricing{catalog: catalog}
}

func (p CatalogPricing) PlanPricing(level tiers.Level) tiers.Money {
	return p.catalog.Config(level).Price
}

func (p CatalogPricing) BillingMessage(level tiers.Level) string {
	tier := p.catalog.Config(level)
	if tier.IsFree() {
		return "Free forever, no payment required"
	}

	switch tier.Interval {
	case tiers.BillingIntervalMonthly:
		return fmt.Sprintf("%s per month", tier.Price)
	case tiers.BillingIntervalAnnual:
		return fmt.Sprintf("%s per year", tier.Price)
	default:
		return fmt.Sprintf("%s one-time", tier.Price)
	}
}
