package registration

// Storage keys for wizard state that must survive the payment
// processor redirect. Both live in the same kvstore namespace as the
// rest of the session.
const (
	keyRegisteredUser = "registeredUserInfo"
	keyPendingUpgrade = "pendingUpgrade"
)

// FlowSource identifies which journey initiated a checkout.
type FlowSource string

const (
	// SourceRegistration is the sign-up wizard: the account was just
	// created and the user is not logged in yet.
	SourceRegistration FlowSource = "registration"

	// SourceUpgrade is a plan change started from an authenticated
	// session.
	SourceUpgrade FlowSource = "upgrade"
)

// RegisteredUserInfo carries the identity of a freshly created account
// across the redirect. During sign-up there is no authenticated
// session to read it from, so it is persisted right after RegisterUser
// succeeds and removed when the wizard finishes.
type RegisteredUserInfo struct {
	UserID     string `json:"userId"`
	AuthUserID string `json:"authUserId"`
	Email      string `json:"email"`
}

// PendingUpgrade records an in-flight subscription purchase. It is
// written before handing the user to the processor and reconciled when
// they return.
//
// ActivationAttempted is the durable exactly-once marker: it flips to
// true the moment an activation call succeeds, before any further
// cleanup, so a re-entry (page reload, duplicate redirect) never
// activates twice.
type PendingUpgrade struct {
	Level               string     `json:"level"`
	SubscriptionID      string     `json:"subscriptionId"`
	UserID              string     `json:"userId"`
	AuthUserID          string     `json:"authUserId"`
	Type                string     `json:"type"`
	Source              FlowSource `json:"source"`
	RequiresLogin       bool       `json:"requiresLogin"`
	ActivationAttempted bool       `json:"activationAttempted"`
}
