package synth

// Stats reports what Synthesize did, in place of the logging the teacher
// package does not carry (it is a library, not a service) — mirroring the
// shape of dfa/lazy's DFA.CacheStats() snapshot.
type Stats struct {
	// StatesExplored is the number of distinct virtual states the DFS
	// popped and classified (kept or bad), not counting revisits of states
	// already resolved.
	StatesExplored int

	// StatesKept is the number of states in the materialised, trimmed
	// supervisor.
	StatesKept int

	// StatesRemoved is the number of virtual states the backward closure
	// evicted (spec.md §4.3's RemoveBadStates).
	StatesRemoved int

	// BadStateHits is the number of times the bad-state predicate fired,
	// each one triggering a RemoveBadStates sweep.
	BadStateHits int

	// Empty reports whether the synthesised supervisor has zero states —
	// spec.md §7's EmptySupervisor outcome, surfaced here rather than as
	// an error.
	Empty bool
}
