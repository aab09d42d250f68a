// Package session provides bounded, keyed history storage for long-running
// conversations. The Store keeps the most recent maxSize values per key in
// append order, evicting the oldest first, so a session that runs for days
// cannot grow memory without limit.
//
// Add durable backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code - only the wiring layer needs to decide which
// implementation to instantiate.
package session
