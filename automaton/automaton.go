// Package automaton implements the concrete (materialised) automaton
// entity: a fixed number of states, one initial state, a set of marked
// states, and a sparse adjacency whose non-empty cell (i, j) carries the
// EventSet of transitions from i to j.
//
// The adjacency is a per-state map, the same shape the teacher package uses
// for its own transition tables (nfa.State.transitions map[byte]StateID,
// dfa/lazy.State.transitions map[byte]StateID): most states in a
// discrete-event system have a handful of outgoing transitions, so a dense
// n×n matrix would waste memory without buying anything — a sparse
// adjacency is the "CSR sparse matrix" spec.md calls for, expressed as an
// idiomatic Go map instead of a borrowed linear-algebra library (see
// DESIGN.md).
package automaton

import (
	"sort"

	"github.com/coregx/cldes/event"
)

// StateID identifies a state of a concrete Automaton. Once a supervisor has
// been materialised its state count is known and small, so a 32-bit index
// is enough — wider indices are reserved for the (possibly much larger)
// virtual product space, see package product.
type StateID uint32

// InvalidState is returned by queries that decline to answer (see Trans).
const InvalidState StateID = 0xFFFFFFFF

// Automaton is a concrete, materialised finite automaton over a bounded
// event alphabet.
type Automaton struct {
	n            uint32
	q0           StateID
	alphabetSize int
	marked       map[StateID]struct{}
	events       event.Set

	out       []map[StateID]event.Set // out[i][j] = events labelling i -> j
	outEvents []event.Set             // out_events[i] = union over row i

	// inEvents is maintained eagerly by SetTransition (cheap: an OR into a
	// bitset), independent of the heavier inverse adjacency below.
	inEvents []event.Set

	// inv is the inverse adjacency, built lazily by AllocateInverted and
	// released by ClearInverted. nil when not allocated.
	inv []map[StateID]event.Set
}

// New creates an automaton with n states, initial state q0, marked states
// marked, and an alphabet of alphabetSize events. It has no transitions.
//
// New returns an error if q0 is out of range, any marked state is out of
// range, or alphabetSize exceeds event.MaxEvents — all conditions spec.md
// treats as fatal, but which are only knowable from caller-supplied data at
// construction time, so New reports them the ordinary Go way (a returned
// error) rather than panicking.
func New(n uint32, q0 StateID, marked []StateID, alphabetSize int) (*Automaton, error) {
	if n > 0 && uint32(q0) >= n {
		return nil, newError(InvalidStateKind, "automaton: initial state %d out of range [0, %d)", q0, n)
	}
	if alphabetSize < 0 || alphabetSize > event.MaxEvents {
		return nil, newError(AlphabetOverflow, "automaton: alphabet size %d exceeds MaxEvents %d", alphabetSize, event.MaxEvents)
	}

	a := &Automaton{
		n:            n,
		q0:           q0,
		alphabetSize: alphabetSize,
		marked:       make(map[StateID]struct{}, len(marked)),
		out:          make([]map[StateID]event.Set, n),
		outEvents:    make([]event.Set, n),
		inEvents:     make([]event.Set, n),
	}
	for _, m := range marked {
		if uint32(m) >= n {
			return nil, newError(InvalidStateKind, "automaton: marked state %d out of range [0, %d)", m, n)
		}
		a.marked[m] = struct{}{}
	}
	for i := range a.out {
		a.out[i] = make(map[StateID]event.Set)
	}
	return a, nil
}

// checkState panics with InvalidState if q is not a valid state index. Per
// spec.md §7 this is a programming error, so it is fatal rather than
// threaded through every query's signature.
func (a *Automaton) checkState(q StateID) {
	if uint32(q) >= a.n {
		panic(newError(InvalidStateKind, "automaton: state %d out of range [0, %d)", q, a.n))
	}
}

func (a *Automaton) checkEvent(e event.Event) {
	if int(e) >= a.alphabetSize {
		panic(newError(AlphabetOverflow, "automaton: event %d out of range [0, %d)", e, a.alphabetSize))
	}
}

// SetTransition adds e to the label set of the transition i -> j, creating
// the transition if it did not already exist. It updates out_events[i] and
// in_events[j] and the automaton's global event union.
func (a *Automaton) SetTransition(i, j StateID, e event.Event) {
	a.checkState(i)
	a.checkState(j)
	a.checkEvent(e)

	es := a.out[i][j]
	es.Set(e)
	a.out[i][j] = es

	a.outEvents[i].Set(e)
	a.inEvents[j].Set(e)
	a.events.Set(e)
}

// NumStates returns n.
func (a *Automaton) NumStates() uint32 { return a.n }

// InitialState returns q0.
func (a *Automaton) InitialState() StateID { return a.q0 }

// AlphabetSize returns N, the alphabet width this automaton was constructed
// with.
func (a *Automaton) AlphabetSize() int { return a.alphabetSize }

// IsMarked reports whether q is a marked state.
func (a *Automaton) IsMarked(q StateID) bool {
	a.checkState(q)
	_, ok := a.marked[q]
	return ok
}

// MarkedStates returns the marked states in ascending order.
func (a *Automaton) MarkedStates() []StateID {
	out := make([]StateID, 0, len(a.marked))
	for m := range a.marked {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Events returns the union of all event labels appearing on any transition.
func (a *Automaton) Events() event.Set { return a.events }

// Enabled returns out_events[q], the set of events enabled from q.
func (a *Automaton) Enabled(q StateID) event.Set {
	a.checkState(q)
	return a.outEvents[q]
}

// InvEnabled returns in_events[q], the set of events with at least one
// predecessor into q. This is maintained eagerly and does not require
// AllocateInverted.
func (a *Automaton) InvEnabled(q StateID) event.Set {
	a.checkState(q)
	return a.inEvents[q]
}

// ContainsTrans reports whether event e is enabled at state q.
func (a *Automaton) ContainsTrans(q StateID, e event.Event) bool {
	a.checkState(q)
	return a.outEvents[q].Test(e)
}

// Trans returns the unique successor of q on event e. The second return
// value is false — the "no such transition" sentinel of spec.md §7 — if e
// is not enabled at q; in that case the first return value is
// InvalidState.
func (a *Automaton) Trans(q StateID, e event.Event) (StateID, bool) {
	a.checkState(q)
	if !a.outEvents[q].Test(e) {
		return InvalidState, false
	}
	for to, es := range a.out[q] {
		if es.Test(e) {
			return to, true
		}
	}
	// out_events[q] is maintained as the union of a.out[q]'s cells, so this
	// is unreachable unless that invariant has been broken.
	panic(newError(InvalidStateKind, "automaton: out_events[%d] inconsistent with adjacency for event %d", q, e))
}

// OutNeighbors calls f once for every (to, events) pair with a non-empty
// transition out of q.
func (a *Automaton) OutNeighbors(q StateID, f func(to StateID, on event.Set)) {
	a.checkState(q)
	for to, es := range a.out[q] {
		f(to, es)
	}
}

// AllocateInverted builds the inverse adjacency used by InvTrans. It must
// be called before InvTrans, and must be paired with a later ClearInverted — see synth.Synthesize, which acquires
// and releases this on every exit path.
func (a *Automaton) AllocateInverted() {
	inv := make([]map[StateID]event.Set, a.n)
	for i := range inv {
		inv[i] = make(map[StateID]event.Set)
	}
	for from, row := range a.out {
		for to, es := range row {
			inv[to][StateID(from)] = es
		}
	}
	a.inv = inv
}

// ClearInverted releases the inverse adjacency built by AllocateInverted.
// Safe to call even if no inverse graph is currently allocated.
func (a *Automaton) ClearInverted() {
	a.inv = nil
}

// ContainsInvTrans reports whether some predecessor of q reaches it via
// event e. Like InvEnabled it reads in_events, so it does not require
// AllocateInverted.
func (a *Automaton) ContainsInvTrans(q StateID, e event.Event) bool {
	a.checkState(q)
	return a.inEvents[q].Test(e)
}

// InvTrans returns every predecessor q'' with e ∈ G[q'', q]. Requires
// AllocateInverted.
func (a *Automaton) InvTrans(q StateID, e event.Event) []StateID {
	a.checkState(q)
	if a.inv == nil {
		panic(newError(InvertedGraphRequired, "automaton: InvTrans called without AllocateInverted"))
	}
	var out []StateID
	for from, es := range a.inv[q] {
		if es.Test(e) {
			out = append(out, from)
		}
	}
	return out
}
