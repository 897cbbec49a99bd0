// Package domain holds the core data model of the Ensemble engine:
// the immutable workflow definition (agents, states, transitions, exit
// conditions), the mutable per-run session, and the tagged value type used
// for agent decisions.
//
// The definition is shared and read-only after load; any number of sessions
// may reference it concurrently. A session is exclusively owned by the run
// driving it.
package domain
