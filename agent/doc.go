// Package agent contains the built-in agent implementations and the glue
// that turns an Agent's Run method into an event pipeline. ModelAgent drives
// a language model; ParallelAgent fans several agents out concurrently and
// merges their event streams.
package agent
