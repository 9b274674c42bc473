package registration

import (
	"context"
	"errors"
	"net/url"

	"github.com/sethvargo/go-retry"

	"github.com/willvault/registry/pkg/kvstore"
	"github.com/willvault/registry/pkg/tiers"
	"github.com/willvault/registry/pkg/wizard"
)

// Query markers the payment processor appends to its return URL.
const (
	markerPayment = "payment"
	markerStep    = "step"

	markerPaymentSuccess = "success"
)

// User-facing messages pushed during reconciliation.
const (
	msgActivationSuccess = "Your subscription is active. Welcome aboard!"
	msgActivationFailed  = "We could not activate your subscription. Please try again."
)

// Location is the navigable URL of the returning request. The
// reconciler strips the processor markers through it so a reload of
// the cleaned URL cannot re-trigger the flow.
type Location interface {
	Query() url.Values
	ReplaceQuery(url.Values)
}

// URLLocation adapts a *url.URL to Location.
type URLLocation struct {
	URL *url.URL
}

func (l URLLocation) Query() url.Values { return l.URL.Query() }

func (l URLLocation) ReplaceQuery(q url.Values) { l.URL.RawQuery = q.Encode() }

// Outcome reports what a reconciliation pass did.
type Outcome struct {
	// Ran is true once the trigger guard passed and a pending record
	// was found.
	Ran bool `json:"ran"`
	// Activated is true when this pass performed the activation call.
	Activated bool `json:"activated"`
	// AlreadyDone is true when the durable marker showed a previous
	// pass already activated, so only cleanup ran.
	AlreadyDone bool `json:"alreadyDone"`
}

var errNotAtConfirmation = errors.New("wizard has not reached confirmation")

// MaybeReconcile finishes a paid sign-up after the processor redirect.
//
// It runs only when the URL carries payment=success and
// step=confirmation, the journey is the sign-up wizard, and no
// activation has been attempted or is in progress. Activation happens
// at most once: the durable ActivationAttempted marker is flipped
// immediately after the processor confirms, before any cleanup, so a
// reload between those points replays only the cleanup.
func (f *Flow) MaybeReconcile(ctx context.Context, loc Location) Outcome {
	q := loc.Query()
	if q.Get(markerPayment) != markerPaymentSuccess || q.Get(markerStep) != string(wizard.StepConfirmation) {
		return Outcome{}
	}
	if f.source(ctx) != SourceRegistration {
		return Outcome{}
	}

	f.mu.Lock()
	if f.activationAttempted || f.activationInProgress {
		f.mu.Unlock()
		return Outcome{}
	}
	f.activationInProgress = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.activationInProgress = false
		f.mu.Unlock()
	}()

	pending, found, err := kvstore.GetJSON[PendingUpgrade](ctx, f.store, keyPendingUpgrade)
	if err != nil {
		f.log.ErrorContext(ctx, "failed to load pending upgrade", "error", err)
	}
	if !found {
		f.log.WarnContext(ctx, "payment return without a pending upgrade")
		return Outcome{}
	}

	var activated, alreadyDone bool
	switch {
	case pending.ActivationAttempted:
		alreadyDone = true
		f.markAttempted()

	case pending.SubscriptionID == "" || pending.AuthUserID == "":
		f.log.ErrorContext(ctx, "pending upgrade is missing identifiers",
			"subscription_id", pending.SubscriptionID)
		return Outcome{Ran: true}

	default:
		if err := f.provider.ActivateSubscription(ctx, pending.SubscriptionID, pending.AuthUserID); err != nil {
			f.log.ErrorContext(ctx, "subscription activation failed",
				"error", err, "subscription_id", pending.SubscriptionID)
			f.notify.Error(ctx, msgActivationFailed)
		} else {
			activated = true
			f.markAttempted()
			pending.ActivationAttempted = true
			if err := kvstore.SetJSON(ctx, f.store, keyPendingUpgrade, pending); err != nil {
				f.log.ErrorContext(ctx, "failed to persist activation marker", "error", err)
			}
		}
	}

	if !activated && !alreadyDone {
		// Activation failed: keep the pending record and the local
		// flags clear so a later return can retry, but strip the
		// markers so a plain reload does not hammer the processor.
		stripMarkers(loc)
		return Outcome{Ran: true}
	}

	// ConfirmUpgrade no-ops when the account already holds the level, so
	// replayed cleanups keep it in sync without a second mutation.
	if err := f.api.ConfirmUpgrade(ctx, pending.AuthUserID, tiers.Level(pending.Level)); err != nil {
		f.log.ErrorContext(ctx, "failed to confirm account level",
			"error", err, "auth_user_id", pending.AuthUserID, "level", pending.Level)
	}

	f.session.SettlePayment()
	f.advanceToConfirmation(ctx)

	if f.session.Current() != wizard.StepConfirmation {
		f.log.ErrorContext(ctx, "wizard did not reach confirmation after activation",
			"step", string(f.session.Current()))
		return Outcome{Ran: true, Activated: activated, AlreadyDone: alreadyDone}
	}

	stripMarkers(loc)
	if activated {
		f.notify.Success(ctx, msgActivationSuccess)
	}
	if err := f.store.Delete(ctx, keyPendingUpgrade); err != nil {
		f.log.ErrorContext(ctx, "failed to delete pending upgrade", "error", err)
	}

	f.log.InfoContext(ctx, "payment reconciled",
		"subscription_id", pending.SubscriptionID, "activated", activated)

	return Outcome{Ran: true, Activated: activated, AlreadyDone: alreadyDone}
}

func (f *Flow) markAttempted() {
	f.mu.Lock()
	f.activationAttempted = true
	f.mu.Unlock()
}

// advanceToConfirmation nudges the wizard forward until it lands on
// the confirmation step, bounded by the advance policy. Running out of
// attempts is not an error; the caller decides what an unfinished
// cursor means.
func (f *Flow) advanceToConfirmation(ctx context.Context) {
	attempts := f.advanceAttempts
	if attempts == 0 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(attempts-1, retry.NewConstant(f.advanceInterval))
	_ = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if f.session.Current() == wizard.StepConfirmation {
			return nil
		}
		f.session.Advance()
		if f.session.Current() == wizard.StepConfirmation {
			return nil
		}
		return retry.RetryableError(errNotAtConfirmation)
	})
}

func stripMarkers(loc Location) {
	q := loc.Query()
	q.Del(markerPayment)
	q.Del(markerStep)
	loc.ReplaceQuery(q)
}
