package registration

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/willvault/registry/pkg/billing"
	"github.com/willvault/registry/pkg/kvstore"
	"github.com/willvault/registry/pkg/notifier"
	"github.com/willvault/registry/pkg/tiers"
)

// ErrRegistrationFailed is returned by SubmitProfile when the account
// backend rejects or fails the registration. The user-facing message
// has already been pushed to the notifier by then.
var ErrRegistrationFailed = errors.New("registration failed")

// SourceFunc classifies the current journey. The default checks for a
// persisted RegisteredUserInfo record: present means the sign-up
// wizard created the account, absent means an authenticated upgrade.
type SourceFunc func(ctx context.Context) FlowSource

// IdentityFunc returns the authenticated user's identifiers for
// upgrade journeys, where no RegisteredUserInfo record exists.
type IdentityFunc func(ctx context.Context) (userID, authUserID string, ok bool)

// Flow orchestrates one user's registration journey over a Session, a
// kvstore and the billing provider.
type Flow struct {
	session  *Session
	api      API
	provider billing.Provider
	store    kvstore.Store
	notify   notifier.Notifier
	log      *slog.Logger

	source   SourceFunc
	identity IdentityFunc

	advanceAttempts uint64
	advanceInterval time.Duration

	// mu guards the per-process activation flags. activationAttempted
	// mirrors the durable marker so repeated in-process triggers short
	// circuit without a store read; activationInProgress blocks
	// concurrent reconciliation of the same return.
	mu                   sync.Mutex
	activationAttempted  bool
	activationInProgress bool
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithLogger sets the flow logger.
func WithLogger(log *slog.Logger) FlowOption {
	return func(f *Flow) { f.log = log }
}

// WithSourceFunc overrides journey classification.
func WithSourceFunc(fn SourceFunc) FlowOption {
	return func(f *Flow) { f.source = fn }
}

// WithIdentityFunc supplies the authenticated identity for upgrades.
func WithIdentityFunc(fn IdentityFunc) FlowOption {
	return func(f *Flow) { f.identity = fn }
}

// WithAdvancePolicy bounds the post-activation advance loop.
func WithAdvancePolicy(attempts uint64, interval time.Duration) FlowOption {
	return func(f *Flow) {
		if attempts > 0 {
			f.advanceAttempts = attempts
		}
		if interval > 0 {
			f.advanceInterval = interval
		}
	}
}

// NewFlow wires a Flow. Session, api, provider, store and notify are
// required; options cover the rest.
func NewFlow(session *Session, api API, provider billing.Provider, store kvstore.Store, notify notifier.Notifier, opts ...FlowOption) *Flow {
	f := &Flow{
		session:         session,
		api:             api,
		provider:        provider,
		store:           store,
		notify:          notify,
		log:             slog.Default(),
		advanceAttempts: 20,
		advanceInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.source == nil {
		f.source = f.defaultSource
	}
	if f.identity == nil {
		f.identity = func(context.Context) (string, string, bool) { return "", "", false }
	}
	return f
}

func (f *Flow) defaultSource(ctx context.Context) FlowSource {
	_, ok, err := kvstore.GetJSON[RegisteredUserInfo](ctx, f.store, keyRegisteredUser)
	if err != nil {
		f.log.ErrorContext(ctx, "failed to read registered user info", "error", err)
	}
	if ok {
		return SourceRegistration
	}
	return SourceUpgrade
}

// Session exposes the underlying session for rendering.
func (f *Flow) Session() *Session { return f.session }

// ChoosePlan records the plan selection and advances off the
// subscription step.
func (f *Flow) ChoosePlan(level tiers.Level) error {
	if err := f.session.ChoosePlan(level); err != nil {
		return err
	}
	f.session.Advance()
	return nil
}

// SubmitProfile validates the profile, registers the account and
// advances to the next step. Field errors come back as
// validator.ValidationErrors; backend failures surface as
// ErrRegistrationFailed after a toast has been queued.
func (f *Flow) SubmitProfile(ctx context.Context, profile Profile) error {
	if err := f.session.SetProfile(profile); err != nil {
		return err
	}

	payload := AssemblePayload(profile)

	if res := f.api.ValidateUserData(ctx, payload); !res.Success {
		f.notify.Error(ctx, res.Error)
		return errors.Join(ErrRegistrationFailed, errors.New(res.Error))
	}

	level, _ := f.session.Plan()
	reg := f.api.RegisterUser(ctx, payload, RegisterOptions{
		Level: level,
		// The paid path leaves for the processor right after this
		// step; logging in now would create a session the redirect
		// discards.
		SkipAutoLogin: true,
	})
	if !reg.Success {
		f.notify.Error(ctx, reg.Error)
		return errors.Join(ErrRegistrationFailed, errors.New(reg.Error))
	}

	info := RegisteredUserInfo{
		UserID:     reg.UserID,
		AuthUserID: reg.AuthUserID,
		Email:      payload.Email,
	}
	if err := kvstore.SetJSON(ctx, f.store, keyRegisteredUser, info); err != nil {
		f.log.ErrorContext(ctx, "failed to persist registered user info", "error", err)
		f.notify.Error(ctx, "Something went wrong, please try again.")
		return errors.Join(ErrRegistrationFailed, err)
	}

	f.session.Advance()
	return nil
}

// Advance moves the wizard forward if the current step is complete.
func (f *Flow) Advance() bool { return f.session.Advance() }

// Back moves the wizard backward.
func (f *Flow) Back() bool { return f.session.Back() }

// Finish tears the journey down after the confirmation step: redirect
// state is removed and the session returns to the first step.
func (f *Flow) Finish(ctx context.Context) {
	if err := f.store.Delete(ctx, keyRegisteredUser); err != nil {
		f.log.ErrorContext(ctx, "failed to delete registered user info", "error", err)
	}
	if err := f.store.Delete(ctx, keyPendingUpgrade); err != nil {
		f.log.ErrorContext(ctx, "failed to delete pending upgrade", "error", err)
	}
	f.session.Reset()

	f.mu.Lock()
	f.activationAttempted = false
	f.activationInProgress = false
	f.mu.Unlock()
}
