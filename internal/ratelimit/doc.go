// Package ratelimit provides a rolling-window request rate limiter keyed by
// an (operation, caller) pair. It bounds how many times a given caller may
// attempt a protected operation within a window, communicating the decision
// as a boolean rather than an error; exceeding the limit is an expected
// outcome, and HTTP-level signaling is left to the caller.
package ratelimit
