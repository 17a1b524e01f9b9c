package automaton

import (
	"sort"

	"github.com/coregx/cldes/event"
)

// StateSet is a set of state indices, as returned by AccessiblePart,
// CoaccessiblePart and TrimStates.
type StateSet map[StateID]struct{}

// Sorted returns the members of s in ascending order.
func (s StateSet) Sorted() []StateID {
	out := make([]StateID, 0, len(s))
	for q := range s {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s StateSet) has(q StateID) bool {
	_, ok := s[q]
	return ok
}

// closure computes, for every source in sources, the set of states reached
// from it under the given adjacency direction. This is the reachability
// kernel of spec.md §4.4: each source is a column of the conceptual boolean
// matrix X, G_bool's forced identity diagonal means a state once reached
// stays reached, and the whole computation is a monotone closure driven to
// a fixed point — realised here as a bitset frontier per source instead of
// a literal sparse boolean matrix multiply (spec.md §9 sanctions either:
// "any sparse library that supports CSR × dense-vector over booleans
// suffices... [or] a monotone closure operator on a bitset frontier").
//
// If visit is non-nil it is called once for every (source index, newly
// reached state) pair, in the order they are first discovered — the hook
// spec.md §4.4 requires so a caller can build per-source reached sets
// instead of only the union.
func (a *Automaton) closure(sources []StateID, reverse bool, visit func(srcIdx int, state StateID)) []StateSet {
	reached := make([]StateSet, len(sources))
	frontier := make([]StateSet, len(sources))
	for i, s := range sources {
		reached[i] = StateSet{s: {}}
		frontier[i] = StateSet{s: {}}
		if visit != nil {
			visit(i, s)
		}
	}

	totalCount := func() int {
		n := 0
		for _, r := range reached {
			n += len(r)
		}
		return n
	}

	prevTotal := totalCount()
	for iter := 0; iter < int(a.n)+1; iter++ {
		nextFrontier := make([]StateSet, len(sources))
		for i := range sources {
			next := StateSet{}
			for q := range frontier[i] {
				a.neighbors(q, reverse, func(nb StateID) {
					if !reached[i].has(nb) {
						reached[i][nb] = struct{}{}
						next[nb] = struct{}{}
						if visit != nil {
							visit(i, nb)
						}
					}
				})
			}
			nextFrontier[i] = next
		}
		frontier = nextFrontier

		total := totalCount()
		if total == prevTotal {
			break
		}
		prevTotal = total
	}
	return reached
}

// neighbors calls f once for each state adjacent to q along the forward
// (reverse=false) or reverse (reverse=true) adjacency, including q itself —
// the forced self-loop on G_bool's diagonal that makes closure monotone.
func (a *Automaton) neighbors(q StateID, reverse bool, f func(StateID)) {
	f(q)
	if reverse {
		if a.inv != nil {
			for from := range a.inv[q] {
				f(from)
			}
			return
		}
		// No inverse graph allocated: fall back to a linear scan. Used by
		// CoaccessiblePart/Trim, which do not require the caller to manage
		// the inverse-graph lifecycle themselves.
		for from, row := range a.out {
			if _, ok := row[q]; ok {
				f(StateID(from))
			}
		}
		return
	}
	for to := range a.out[q] {
		f(to)
	}
}

// AccessiblePart returns the states reachable from q0.
func (a *Automaton) AccessiblePart() StateSet {
	if a.n == 0 {
		return StateSet{}
	}
	return a.closure([]StateID{a.q0}, false, nil)[0]
}

// CoaccessiblePart returns the states that can reach some marked state.
func (a *Automaton) CoaccessiblePart() StateSet {
	if a.n == 0 || len(a.marked) == 0 {
		return StateSet{}
	}
	sources := a.MarkedStates()
	perSource := a.closure(sources, true, nil)
	union := StateSet{}
	for _, r := range perSource {
		for q := range r {
			union[q] = struct{}{}
		}
	}
	return union
}

// TrimStates returns the accessible ∩ coaccessible states.
func (a *Automaton) TrimStates() StateSet {
	acc := a.AccessiblePart()
	coacc := a.CoaccessiblePart()
	trim := StateSet{}
	for q := range acc {
		if coacc.has(q) {
			trim[q] = struct{}{}
		}
	}
	return trim
}

// Trim returns a new automaton restricted to TrimStates(), with states
// renumbered in ascending order of their original index. If q0 is not in
// the trim set the result is the empty automaton (n = 0) — spec.md's
// "empty supervisor" outcome, not an error.
func (a *Automaton) Trim() *Automaton {
	trim := a.TrimStates()
	if !trim.has(a.q0) {
		empty, _ := New(0, 0, nil, a.alphabetSize)
		return empty
	}

	old := trim.Sorted()
	remap := make(map[StateID]StateID, len(old))
	for newIdx, q := range old {
		remap[q] = StateID(newIdx)
	}

	newMarked := make([]StateID, 0, len(a.marked))
	for m := range a.marked {
		if nm, ok := remap[m]; ok {
			newMarked = append(newMarked, nm)
		}
	}

	out, err := New(uint32(len(old)), remap[a.q0], newMarked, a.alphabetSize)
	if err != nil {
		// remap[a.q0] is by construction within [0, len(old)), so New
		// cannot reject it.
		panic(err)
	}
	for _, q := range old {
		from := remap[q]
		for to, es := range a.out[q] {
			nto, ok := remap[to]
			if !ok {
				continue
			}
			es.ForEach(func(e event.Event) {
				out.SetTransition(from, nto, e)
			})
		}
	}
	return out
}
