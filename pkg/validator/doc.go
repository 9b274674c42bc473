// Package validator provides rule-based validation for form records.
//
// A Rule pairs a check closure with the field error to report when it
// fails; Apply runs a rule set and collects every failure into
// ValidationErrors, which callers render as inline field messages.
// Validation failures are recovered locally and never propagate past the
// form handler.
package validator
