// Package model defines the provider-neutral request/response types for
// language model generation and the Model interface agents drive. Responses
// arrive as a stream.Pipeline so partial chunks, terminal errors, and
// cancellation follow the same discipline as every other event source.
package model
