// Package stream implements the event streaming core of eventflow: bounded
// non-blocking channels, cancellable pipelines driven by background producer
// goroutines, a small operator algebra (filter, map, take, drop, debounce,
// timeout, error recovery, terminal collectors) and a merge coordinator that
// interleaves several pipelines into one without racing writes.
//
// The central type is Pipeline, a single-pass sequence of values produced by
// a goroutine and consumed through Next/Current/Err. A pipeline cancels its
// producer as soon as the consumer stops iterating, so well-behaved producers
// observe ctx.Done() before every write and inside every wait.
//
// The package is agnostic to the payload it carries; the agent runtime
// instantiates it with core.Event, the model adapters with model.Response.
package stream
