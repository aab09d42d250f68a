// Package runner wires the pieces together: it executes a root agent,
// exposes the run as an event pipeline, persists events into session
// history, and dispatches lifecycle hooks. Public methods are safe for
// concurrent use.
package runner
