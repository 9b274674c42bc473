// Package notifier delivers transient, toast-style user notifications.
// Every user-visible failure in the registration flow surfaces through a
// Notifier; none of them are fatal to the process.
package notifier
