package registration

import (
	"context"

	"github.com/willvault/registry/pkg/kvstore"
	"github.com/willvault/registry/pkg/tiers"
)

// CheckoutResult is the outcome of starting a paid-plan checkout.
// Failures are values, not panics or raised errors, so the payment
// screen can always render something.
type CheckoutResult struct {
	Success     bool   `json:"success"`
	ApprovalURL string `json:"approvalUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

func checkoutFailure(msg string) CheckoutResult {
	return CheckoutResult{Error: msg}
}

// StartCheckout creates the processor subscription for the chosen paid
// plan and persists the PendingUpgrade record that the reconciliation
// step will pick up after the redirect. The user identity comes from
// the persisted RegisteredUserInfo during sign-up and from the live
// session during upgrades.
func (f *Flow) StartCheckout(ctx context.Context) CheckoutResult {
	level, ok := f.session.Plan()
	if !ok {
		return checkoutFailure("no subscription plan selected")
	}
	if level == tiers.LevelBronze {
		return checkoutFailure("the bronze plan does not require payment")
	}

	source := f.source(ctx)

	var userID, authUserID string
	switch source {
	case SourceRegistration:
		info, found, err := kvstore.GetJSON[RegisteredUserInfo](ctx, f.store, keyRegisteredUser)
		if err != nil {
			f.log.ErrorContext(ctx, "failed to load registered user info", "error", err)
		}
		if !found {
			return checkoutFailure("registration data is missing, please restart the sign-up")
		}
		userID, authUserID = info.UserID, info.AuthUserID
	default:
		var found bool
		userID, authUserID, found = f.identity(ctx)
		if !found {
			return checkoutFailure("you must be logged in to change your plan")
		}
	}

	order, err := f.provider.CreateSubscription(ctx, level, userID, string(source))
	if err != nil {
		f.log.ErrorContext(ctx, "checkout creation failed",
			"error", err, "level", string(level), "source", string(source))
		return checkoutFailure("could not start the payment, please try again")
	}
	if order.ApprovalURL == "" {
		f.log.ErrorContext(ctx, "checkout returned no approval url", "subscription_id", order.SubscriptionID)
		return checkoutFailure("could not start the payment, please try again")
	}

	pending := PendingUpgrade{
		Level:          string(level),
		SubscriptionID: order.SubscriptionID,
		UserID:         userID,
		AuthUserID:     authUserID,
		Type:           "subscription",
		Source:         source,
		RequiresLogin:  source == SourceRegistration,
	}
	if err := kvstore.SetJSON(ctx, f.store, keyPendingUpgrade, pending); err != nil {
		f.log.ErrorContext(ctx, "failed to persist pending upgrade", "error", err)
		return checkoutFailure("could not start the payment, please try again")
	}

	f.log.InfoContext(ctx, "checkout started",
		"level", string(level), "source", string(source), "subscription_id", order.SubscriptionID)

	return CheckoutResult{Success: true, ApprovalURL: order.ApprovalURL}
}
