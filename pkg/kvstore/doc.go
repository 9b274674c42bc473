// Package kvstore provides the durable key-value storage the registration
// flow uses to survive a full-page redirect to the payment processor.
//
// The Store interface is deliberately minimal (Get/Set/Delete on string
// values) to mirror the browser-local storage it abstracts. Two
// implementations ship: an in-memory map guarded by a mutex, and a Redis
// store over go-redis for multi-instance deployments.
//
// Records are JSON at the boundary; the generic GetJSON/SetJSON helpers
// encode at write and fail open on unparseable data at read, reporting
// corruption through ErrCorruptValue so callers can log it and treat the
// key as absent rather than crash.
package kvstore
