// Package billing abstracts the payment processor behind a narrow Provider
// interface so the registration flow never talks to a vendor SDK directly.
//
// A Provider creates a subscription order (returning the processor's
// approval URL the browser is sent to) and later activates that order when
// the user returns. The shipped implementation targets Paddle through the
// official SDK; swapping processors means implementing the four Provider
// methods, nothing else.
package billing
