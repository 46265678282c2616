// Package session owns the single client Session value: a store guarding the
// persisted token and cached profile, and a controller running the
// login/linking state machine that every protected flow is gated on.
package session
