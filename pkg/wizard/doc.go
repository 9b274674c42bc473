// Package wizard implements the registration step machine: an ordered,
// conditionally-skippable sequence of signup steps with a cursor and
// per-step completion predicates.
//
// The canonical order is subscription → profile → payment → confirmation.
// The payment step only exists for paid plans; when the chosen plan is
// bronze the machine jumps straight to confirmation going forward and back
// to subscription going backward, so a single linear wizard serves both the
// free and the paid signup path.
//
// Advancing is gated on the current step's completion predicate and is a
// silent no-op otherwise, which keeps callers on the current screen until
// its input is valid. Moving backward is always allowed.
package wizard
