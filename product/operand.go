// Package product implements the lazy (non-materialising) synchronous
// product of automata, and the balanced-tree composition of vectors of
// operands.
//
// spec.md's design notes recommend representing the composition tree as an
// arena of tagged nodes to sidestep C++'s lifetime and cyclic-reference
// hazards. Go's garbage collector removes that hazard, so the capability
// set the notes describe ("n, q0, marked, events, enabled, inv_enabled,
// contains_trans, trans, contains_inv_trans, inv_trans, allocate_inv,
// clear_inv") is expressed directly as an interface, Operand, with two
// implementations: Leaf (a concrete automaton.Automaton) and Node (a
// virtual product of two operands). This mirrors the teacher's own
// preference for small interfaces over tagged unions — see e.g.
// nfa.ByteClassSet's plain value-type API — while matching the two
// concrete variants the design notes call for.
package product

import (
	"github.com/coregx/cldes/automaton"
	"github.com/coregx/cldes/event"
	"github.com/coregx/cldes/internal/conv"
)

// VState addresses a state of an Operand, virtual or concrete. It is wider
// than automaton.StateID because composing several operands multiplies
// their state counts, and that product can exceed 32 bits well before any
// single materialised automaton would (spec.md §7).
type VState uint64

// Operand is the capability set shared by a concrete automaton and a
// virtual product of operands: everything the synthesiser needs to drive a
// DFS and a backward closure without knowing which kind it is talking to.
type Operand interface {
	NumStates() VState
	InitialState() VState
	Events() event.Set
	AlphabetSize() int
	IsMarked(q VState) bool
	// MarkedStates returns the marked set explicitly. Node precomputes this
	// at construction (bounded by the product of its operands' marked
	// counts, never the full state space), mirroring
	// SuperProxy::SuperProxy's marked_states_ loop in the original.
	MarkedStates() []VState

	Enabled(q VState) event.Set
	InvEnabled(q VState) event.Set
	ContainsTrans(q VState, e event.Event) bool
	Trans(q VState, e event.Event) (VState, bool)
	ContainsInvTrans(q VState, e event.Event) bool
	InvTrans(q VState, e event.Event) []VState

	// AllocateInverted and ClearInverted recursively acquire and release
	// the inverse adjacency of every concrete automaton reachable through
	// this operand's tree, per spec.md §4.2's "these operations compose
	// recursively".
	AllocateInverted()
	ClearInverted()
}

// Leaf adapts a concrete *automaton.Automaton to Operand, translating
// between the 32-bit automaton.StateID the automaton uses internally and
// the wider VState the product algebra addresses states with.
type Leaf struct {
	a *automaton.Automaton
}

// NewLeaf wraps a concrete automaton as an Operand.
func NewLeaf(a *automaton.Automaton) *Leaf {
	return &Leaf{a: a}
}

// Automaton returns the wrapped automaton.
func (l *Leaf) Automaton() *automaton.Automaton { return l.a }

func (l *Leaf) NumStates() VState      { return VState(l.a.NumStates()) }
func (l *Leaf) InitialState() VState   { return VState(l.a.InitialState()) }
func (l *Leaf) Events() event.Set      { return l.a.Events() }
func (l *Leaf) AlphabetSize() int      { return l.a.AlphabetSize() }
func (l *Leaf) IsMarked(q VState) bool { return l.a.IsMarked(automaton.StateID(conv.Uint64ToUint32(uint64(q)))) }

func (l *Leaf) MarkedStates() []VState {
	ms := l.a.MarkedStates()
	out := make([]VState, len(ms))
	for i, m := range ms {
		out[i] = VState(m)
	}
	return out
}

func (l *Leaf) Enabled(q VState) event.Set {
	return l.a.Enabled(automaton.StateID(conv.Uint64ToUint32(uint64(q))))
}

func (l *Leaf) InvEnabled(q VState) event.Set {
	return l.a.InvEnabled(automaton.StateID(conv.Uint64ToUint32(uint64(q))))
}

func (l *Leaf) ContainsTrans(q VState, e event.Event) bool {
	return l.a.ContainsTrans(automaton.StateID(conv.Uint64ToUint32(uint64(q))), e)
}

func (l *Leaf) Trans(q VState, e event.Event) (VState, bool) {
	to, ok := l.a.Trans(automaton.StateID(conv.Uint64ToUint32(uint64(q))), e)
	if !ok {
		return 0, false
	}
	return VState(to), true
}

func (l *Leaf) ContainsInvTrans(q VState, e event.Event) bool {
	return l.a.ContainsInvTrans(automaton.StateID(conv.Uint64ToUint32(uint64(q))), e)
}

func (l *Leaf) InvTrans(q VState, e event.Event) []VState {
	preds := l.a.InvTrans(automaton.StateID(conv.Uint64ToUint32(uint64(q))), e)
	out := make([]VState, len(preds))
	for i, p := range preds {
		out[i] = VState(p)
	}
	return out
}

func (l *Leaf) AllocateInverted() { l.a.AllocateInverted() }
func (l *Leaf) ClearInverted()    { l.a.ClearInverted() }
