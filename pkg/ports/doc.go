// Package ports defines the boundary interfaces of the Ensemble engine:
// how turns reach an agent backend (AgentProxy), how sessions persist
// (SessionStore), and how multi-replica hosts coordinate (DistributedLocker).
// Adapters live under pkg/adapters; the engine core depends only on these
// interfaces.
package ports
