// Package guard wraps outbound provider calls with a rolling-window rate
// gate and a bounded exponential-backoff retry loop.
//
// A guarded call moves through PENDING (waiting on the rate gate),
// ATTEMPTING, and terminates in success or exhaustion. Exhaustion surfaces
// as *services.CallError carrying the operation name, the attempt count,
// and the last underlying failure. Availability pre-checks are the
// caller's job; the guard only sees calls that are allowed to go out.
package guard
