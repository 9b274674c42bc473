package registration_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/willvault/registry/modules/registration"
	"github.com/willvault/registry/pkg/billing"
	"github.com/willvault/registry/pkg/kvstore"
	"github.com/willvault/registry/pkg/notifier"
	"github.com/willvault/registry/pkg/tiers"
	"github.com/willvault/registry/pkg/wizard"
)

type mockProvider struct {
	mock.Mock
	billing.CatalogPricing
}

func (m *mockProvider) CreateSubscription(ctx context.Context, level tiers.Level, userID, source string) (*billing.Order, error) {
	args := m.Called(ctx, level, userID, source)
	if order := args.Get(0); order != nil {
		return order.(*billing.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) ActivateSubscription(ctx context.Context, subscriptionID, authUserID string) error {
	args := m.Called(ctx, subscriptionID, authUserID)
	return args.Error(0)
}

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ValidateUserData(ctx context.Context, payload registration.Payload) registration.Result {
	args := m.Called(ctx, payload)
	return args.Get(0).(registration.Result)
}

func (m *mockAPI) RegisterUser(ctx context.Context, payload registration.Payload, opts registration.RegisterOptions) registration.RegisterResult {
	args := m.Called(ctx, payload, opts)
	return args.Get(0).(registration.RegisterResult)
}

func (m *mockAPI) ConfirmUpgrade(ctx context.Context, authUserID string, level tiers.Level) error {
	args := m.Called(ctx, authUserID, level)
	return args.Error(0)
}

type flowFixture struct {
	flow     *registration.Flow
	session  *registration.Session
	provider *mockProvider
	api      *mockAPI
	store    *kvstore.MemoryStore
	toasts   *notifier.MemoryNotifier
}

func newFlowFixture(t *testing.T, opts ...registration.FlowOption) *flowFixture {
	t.Helper()

	f := &flowFixture{
		session:  registration.NewSession(),
		provider: new(mockProvider),
		api:      new(mockAPI),
		store:    kvstore.NewMemoryStore(),
		toasts:   notifier.NewMemoryNotifier(nil),
	}
	opts = append([]registration.FlowOption{
		registration.WithAdvancePolicy(20, time.Millisecond),
	}, opts...)
	f.flow = registration.NewFlow(f.session, f.api, f.provider, f.store, f.toasts, opts...)
	return f
}

// seedPaidJourney walks the session onto the payment step of a silver
// sign-up with a registered account persisted in the store.
func (f *flowFixture) seedPaidJourney(t *testing.T) {
	t.Helper()

	require.NoError(t, f.session.ChoosePlan(tiers.LevelSilver))
	require.True(t, f.session.Advance())
	require.NoError(t, f.session.SetProfile(validProfile()))
	require.True(t, f.session.Advance())
	require.Equal(t, wizard.StepPayment, f.session.Current())

	require.NoError(t, kvstore.SetJSON(context.Background(), f.store, "registeredUserInfo", registration.RegisteredUserInfo{
		UserID:     "user-1",
		AuthUserID: "auth-1",
		Email:      "greta@example.com",
	}))
}

func (f *flowFixture) seedPending(t *testing.T, attempted bool) {
	t.Helper()
	require.NoError(t, kvstore.SetJSON(context.Background(), f.store, "pendingUpgrade", registration.PendingUpgrade{
		Level:               "silver",
		SubscriptionID:      "sub-42",
		UserID:              "user-1",
		AuthUserID:          "auth-1",
		Type:                "subscription",
		Source:              registration.SourceRegistration,
		RequiresLogin:       true,
		ActivationAttempted: attempted,
	}))
}

func returnLocation() registration.URLLocation {
	u, _ := url.Parse("https://app.example.com/registration?payment=success&step=confirmation&session=abc")
	return registration.URLLocation{URL: u}
}

func hasKind(notifications []notifier.Notification, kind notifier.Kind) bool {
	for _, n := range notifications {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

func TestFlowStartCheckout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("registration journey uses the persisted identity", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.provider.On("CreateSubscription", ctx, tiers.LevelSilver, "user-1", "registration").
			Return(&billing.Order{SubscriptionID: "sub-42", ApprovalURL: "https://pay.example.com/approve/42"}, nil)

		res := f.flow.StartCheckout(ctx)

		require.True(t, res.Success, res.Error)
		assert.Equal(t, "https://pay.example.com/approve/42", res.ApprovalURL)

		pending, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "sub-42", pending.SubscriptionID)
		assert.Equal(t, "auth-1", pending.AuthUserID)
		assert.Equal(t, registration.SourceRegistration, pending.Source)
		assert.True(t, pending.RequiresLogin)
		assert.False(t, pending.ActivationAttempted)
	})

	t.Run("upgrade journey uses the live identity", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t, registration.WithIdentityFunc(func(context.Context) (string, string, bool) {
			return "user-9", "auth-9", true
		}))
		require.NoError(t, f.session.ChoosePlan(tiers.LevelGold))
		f.provider.On("CreateSubscription", ctx, tiers.LevelGold, "user-9", "upgrade").
			Return(&billing.Order{SubscriptionID: "sub-9", ApprovalURL: "https://pay.example.com/approve/9"}, nil)

		res := f.flow.StartCheckout(ctx)

		require.True(t, res.Success, res.Error)
		pending, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, registration.SourceUpgrade, pending.Source)
		assert.False(t, pending.RequiresLogin)
	})

	t.Run("missing registration identity is a typed failure", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t, registration.WithSourceFunc(func(context.Context) registration.FlowSource {
			return registration.SourceRegistration
		}))
		require.NoError(t, f.session.ChoosePlan(tiers.LevelSilver))

		res := f.flow.StartCheckout(ctx)

		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Error)
		f.provider.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("processor failure is a typed failure, not a panic", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.provider.On("CreateSubscription", ctx, tiers.LevelSilver, "user-1", "registration").
			Return(nil, assert.AnError)

		res := f.flow.StartCheckout(ctx)

		assert.False(t, res.Success)
		_, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("missing approval url is a typed failure", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.provider.On("CreateSubscription", ctx, tiers.LevelSilver, "user-1", "registration").
			Return(&billing.Order{SubscriptionID: "sub-42"}, nil)

		res := f.flow.StartCheckout(ctx)
		assert.False(t, res.Success)
	})

	t.Run("bronze plan has nothing to pay for", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		require.NoError(t, f.session.ChoosePlan(tiers.LevelBronze))

		res := f.flow.StartCheckout(ctx)
		assert.False(t, res.Success)
		f.provider.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFlowMaybeReconcile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fresh return activates once and cleans up", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.seedPending(t, false)
		f.provider.On("ActivateSubscription", ctx, "sub-42", "auth-1").Return(nil).Once()
		f.api.On("ConfirmUpgrade", ctx, "auth-1", tiers.LevelSilver).Return(nil).Once()

		loc := returnLocation()
		outcome := f.flow.MaybeReconcile(ctx, loc)

		assert.True(t, outcome.Ran)
		assert.True(t, outcome.Activated)
		assert.False(t, outcome.AlreadyDone)

		assert.Equal(t, wizard.StepConfirmation, f.session.Current())

		q := loc.URL.Query()
		assert.Empty(t, q.Get("payment"))
		assert.Empty(t, q.Get("step"))
		assert.Equal(t, "abc", q.Get("session"))

		_, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		assert.False(t, found)

		assert.True(t, hasKind(f.toasts.Pending(), notifier.KindSuccess))
		f.provider.AssertExpectations(t)
		f.api.AssertExpectations(t)
	})

	t.Run("fresh return confirms the account level", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.seedPending(t, false)
		f.provider.On("ActivateSubscription", ctx, "sub-42", "auth-1").Return(nil)
		f.api.On("ConfirmUpgrade", ctx, "auth-1", tiers.LevelSilver).Return(nil).Once()

		f.flow.MaybeReconcile(ctx, returnLocation())
		f.api.AssertExpectations(t)
	})

	t.Run("level confirmation failure does not block cleanup", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.seedPending(t, false)
		f.provider.On("ActivateSubscription", ctx, "sub-42", "auth-1").Return(nil)
		f.api.On("ConfirmUpgrade", ctx, "auth-1", tiers.LevelSilver).Return(assert.AnError)

		loc := returnLocation()
		outcome := f.flow.MaybeReconcile(ctx, loc)

		assert.True(t, outcome.Activated)
		assert.Equal(t, wizard.StepConfirmation, f.session.Current())
		assert.Empty(t, loc.URL.Query().Get("payment"))
		_, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("already attempted record skips the processor", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.seedPending(t, true)
		f.api.On("ConfirmUpgrade", ctx, "auth-1", tiers.LevelSilver).Return(nil)

		loc := returnLocation()
		outcome := f.flow.MaybeReconcile(ctx, loc)

		assert.True(t, outcome.Ran)
		assert.False(t, outcome.Activated)
		assert.True(t, outcome.AlreadyDone)

		assert.Equal(t, wizard.StepConfirmation, f.session.Current())
		_, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		assert.False(t, found)

		// No success toast for a replayed return.
		assert.False(t, hasKind(f.toasts.Pending(), notifier.KindSuccess))
		f.provider.AssertNotCalled(t, "ActivateSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("activation failure keeps state retryable", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.seedPending(t, false)
		f.provider.On("ActivateSubscription", ctx, "sub-42", "auth-1").Return(assert.AnError)

		loc := returnLocation()
		outcome := f.flow.MaybeReconcile(ctx, loc)

		assert.True(t, outcome.Ran)
		assert.False(t, outcome.Activated)

		// Record stays eligible for retry with the marker unset.
		pending, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		require.True(t, found)
		assert.False(t, pending.ActivationAttempted)

		// Markers are stripped anyway so a reload does not retrigger.
		q := loc.URL.Query()
		assert.Empty(t, q.Get("payment"))
		assert.Empty(t, q.Get("step"))

		assert.Equal(t, wizard.StepPayment, f.session.Current())
		assert.True(t, hasKind(f.toasts.Pending(), notifier.KindError))
		assert.False(t, hasKind(f.toasts.Pending(), notifier.KindSuccess))

		// A later return may retry the activation.
		f.seedPending(t, false)
		f.provider.ExpectedCalls = nil
		f.provider.On("ActivateSubscription", ctx, "sub-42", "auth-1").Return(nil)
		f.api.On("ConfirmUpgrade", ctx, "auth-1", tiers.LevelSilver).Return(nil)
		outcome = f.flow.MaybeReconcile(ctx, returnLocation())
		assert.True(t, outcome.Activated)
	})

	t.Run("repeated in-process trigger is a no-op", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.seedPending(t, false)
		f.provider.On("ActivateSubscription", ctx, "sub-42", "auth-1").Return(nil).Once()
		f.api.On("ConfirmUpgrade", ctx, "auth-1", tiers.LevelSilver).Return(nil).Once()

		first := f.flow.MaybeReconcile(ctx, returnLocation())
		require.True(t, first.Activated)

		second := f.flow.MaybeReconcile(ctx, returnLocation())
		assert.False(t, second.Ran)
		f.provider.AssertExpectations(t)
	})

	t.Run("runs only with both url markers", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		f.seedPending(t, false)

		u, _ := url.Parse("https://app.example.com/registration?payment=success")
		outcome := f.flow.MaybeReconcile(ctx, registration.URLLocation{URL: u})

		assert.False(t, outcome.Ran)
		f.provider.AssertNotCalled(t, "ActivateSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upgrade journeys never reconcile here", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t, registration.WithSourceFunc(func(context.Context) registration.FlowSource {
			return registration.SourceUpgrade
		}))
		f.seedPending(t, false)

		outcome := f.flow.MaybeReconcile(ctx, returnLocation())
		assert.False(t, outcome.Ran)
	})

	t.Run("missing pending record aborts quietly", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)

		loc := returnLocation()
		outcome := f.flow.MaybeReconcile(ctx, loc)

		assert.False(t, outcome.Ran)
		// Markers stay; there was nothing to reconcile.
		assert.Equal(t, "success", loc.URL.Query().Get("payment"))
	})

	t.Run("corrupt pending record is treated as absent", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		require.NoError(t, f.store.Set(ctx, "pendingUpgrade", "{not json"))

		outcome := f.flow.MaybeReconcile(ctx, returnLocation())
		assert.False(t, outcome.Ran)
		f.provider.AssertNotCalled(t, "ActivateSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("pending record without identifiers aborts without mutation", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		f.seedPaidJourney(t)
		require.NoError(t, kvstore.SetJSON(ctx, f.store, "pendingUpgrade", registration.PendingUpgrade{
			Level:  "silver",
			Source: registration.SourceRegistration,
		}))

		outcome := f.flow.MaybeReconcile(ctx, returnLocation())

		assert.True(t, outcome.Ran)
		assert.False(t, outcome.Activated)
		pending, found, err := kvstore.GetJSON[registration.PendingUpgrade](ctx, f.store, "pendingUpgrade")
		require.NoError(t, err)
		require.True(t, found)
		assert.False(t, pending.ActivationAttempted)
		f.provider.AssertNotCalled(t, "ActivateSubscription", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFlowSubmitProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("registers and persists the identity", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		require.NoError(t, f.session.ChoosePlan(tiers.LevelSilver))
		require.True(t, f.session.Advance())

		payload := registration.AssemblePayload(validProfile())
		f.api.On("ValidateUserData", ctx, payload).Return(registration.Result{Success: true})
		f.api.On("RegisterUser", ctx, payload, mock.MatchedBy(func(opts registration.RegisterOptions) bool {
			return opts.SkipAutoLogin && opts.Level == tiers.LevelSilver
		})).Return(registration.RegisterResult{Success: true, UserID: "user-1", AuthUserID: "auth-1"})

		require.NoError(t, f.flow.SubmitProfile(ctx, validProfile()))

		assert.Equal(t, wizard.StepPayment, f.session.Current())
		info, found, err := kvstore.GetJSON[registration.RegisteredUserInfo](ctx, f.store, "registeredUserInfo")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "user-1", info.UserID)
		assert.Equal(t, "auth-1", info.AuthUserID)
	})

	t.Run("validation errors keep the cursor in place", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		require.NoError(t, f.session.ChoosePlan(tiers.LevelSilver))
		require.True(t, f.session.Advance())

		err := f.flow.SubmitProfile(ctx, registration.Profile{})
		require.Error(t, err)
		assert.Equal(t, wizard.StepProfile, f.session.Current())
		f.api.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backend rejection becomes a toast and a typed error", func(t *testing.T) {
		t.Parallel()

		f := newFlowFixture(t)
		require.NoError(t, f.session.ChoosePlan(tiers.LevelSilver))
		require.True(t, f.session.Advance())

		payload := registration.AssemblePayload(validProfile())
		f.api.On("ValidateUserData", ctx, payload).Return(registration.Result{Error: "email is already registered"})

		err := f.flow.SubmitProfile(ctx, validProfile())
		require.ErrorIs(t, err, registration.ErrRegistrationFailed)
		assert.Equal(t, wizard.StepProfile, f.session.Current())
		assert.True(t, hasKind(f.toasts.Pending(), notifier.KindError))
	})
}

func TestFlowFinish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFlowFixture(t)
	f.seedPaidJourney(t)
	f.seedPending(t, false)
	f.provider.On("ActivateSubscription", ctx, "sub-42", "auth-1").Return(nil)
	f.api.On("ConfirmUpgrade", ctx, "auth-1", tiers.LevelSilver).Return(nil)
	require.True(t, f.flow.MaybeReconcile(ctx, returnLocation()).Activated)

	f.flow.Finish(ctx)

	assert.Equal(t, wizard.StepSubscription, f.session.Current())
	_, found, err := kvstore.GetJSON[registration.RegisteredUserInfo](ctx, f.store, "registeredUserInfo")
	require.NoError(t, err)
	assert.False(t, found)
	_, chosen := f.session.Plan()
	assert.False(t, chosen)
}
