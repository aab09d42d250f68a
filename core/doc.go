// Package core provides the foundational domain types and execution contexts
// of eventflow. It defines:
//
//   - Events (immutable progress records emitted during an agent run)
//   - Content and Parts (text, tool calls, tool results)
//   - RunContext (scoped execution handle through which agents emit events)
//   - The Agent interface (units of autonomous work producing event streams)
//
// The package intentionally keeps implementation concerns (concrete agents,
// model providers, run orchestration) out of scope; those live in the agent,
// model and runner packages.
package core
