// Package registration implements the account sign-up wizard: plan
// selection against the tier catalog, profile capture and validation,
// account creation, paid-plan checkout through the billing provider,
// and payment reconciliation after the processor redirect.
//
// The package is transport-agnostic at its core. Flow orchestrates the
// journey over a wizard.Machine and a kvstore.Store; Router exposes it
// as a chi sub-router for the HTTP layer.
package registration
