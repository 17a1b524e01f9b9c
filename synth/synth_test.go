package synth

import (
	"testing"

	"github.com/coregx/cldes/automaton"
	"github.com/coregx/cldes/event"
	"github.com/coregx/cldes/product"
)

func mustAutomaton(t *testing.T, n uint32, q0 automaton.StateID, marked []automaton.StateID, alpha int) *automaton.Automaton {
	t.Helper()
	a, err := automaton.New(n, q0, marked, alpha)
	if err != nil {
		t.Fatalf("automaton.New() error = %v", err)
	}
	return a
}

// Scenario A (spec.md §8): identical single-event self-loop plant and spec,
// no uncontrollable events. Supervisor should equal the plant.
func TestSynthesize_ScenarioA_SelfLoop(t *testing.T) {
	p := mustAutomaton(t, 1, 0, []automaton.StateID{0}, 1)
	p.SetTransition(0, 0, 0)
	s := mustAutomaton(t, 1, 0, []automaton.StateID{0}, 1)
	s.SetTransition(0, 0, 0)

	var uc event.Set
	out, stats, err := Synthesize(product.NewLeaf(p), product.NewLeaf(s), uc, DefaultConfig())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if stats.Empty {
		t.Fatal("expected a non-empty supervisor")
	}
	if out.NumStates() != 1 {
		t.Fatalf("NumStates() = %d, want 1", out.NumStates())
	}
	if !out.IsMarked(0) {
		t.Error("expected state 0 to be marked")
	}
	if next, ok := out.Trans(0, 0); !ok || next != 0 {
		t.Errorf("Trans(0,0) = (%d,%v), want (0,true)", next, ok)
	}
}

// Scenario B (spec.md §8): the spec disables an uncontrollable event at the
// initial state, so the initial state is bad and the supervisor is empty.
func TestSynthesize_ScenarioB_UncontrollableBlockedAtInit(t *testing.T) {
	p := mustAutomaton(t, 2, 0, []automaton.StateID{0}, 1)
	p.SetTransition(0, 1, 0) // event 0 = "u"

	// s registers event 0 in its alphabet via an isolated self-loop on an
	// unreachable state 1, so u is a shared event of the product — but s
	// has no transition on u out of its initial state, so u is disabled
	// exactly where the plant would need it.
	s := mustAutomaton(t, 2, 0, []automaton.StateID{0}, 1)
	s.SetTransition(1, 1, 0)

	var uc event.Set
	uc.Set(0)

	out, stats, err := Synthesize(product.NewLeaf(p), product.NewLeaf(s), uc, DefaultConfig())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !stats.Empty {
		t.Fatal("expected an empty supervisor")
	}
	if out.NumStates() != 0 {
		t.Fatalf("NumStates() = %d, want 0", out.NumStates())
	}
}

// Scenario C (spec.md §8): a controllable event can be pruned without
// triggering the uncontrollable backward closure past it.
func TestSynthesize_ScenarioC_ControllablePrunable(t *testing.T) {
	p := mustAutomaton(t, 2, 0, []automaton.StateID{0}, 2)
	p.SetTransition(0, 1, 0) // event 0 = "c", controllable
	p.SetTransition(1, 0, 1) // event 1 = "u", uncontrollable

	// s registers event 1 ("u") in its alphabet via an isolated self-loop
	// on an unreachable state 2, so u is a shared event of the product —
	// but s has no transition on u out of state 1, so u is locally
	// disabled exactly where the plant would need it.
	s := mustAutomaton(t, 3, 0, []automaton.StateID{0}, 2)
	s.SetTransition(0, 1, 0)
	s.SetTransition(2, 2, 1)

	var uc event.Set
	uc.Set(1)

	out, stats, err := Synthesize(product.NewLeaf(p), product.NewLeaf(s), uc, DefaultConfig())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if stats.Empty {
		t.Fatal("expected a non-empty supervisor")
	}
	if out.NumStates() != 1 {
		t.Fatalf("NumStates() = %d, want 1 (state (1,1) is bad, its predecessor via controllable c survives)", out.NumStates())
	}
	if !out.IsMarked(0) {
		t.Error("expected the surviving state to be marked")
	}
	if out.Enabled(0).Popcount() != 0 {
		t.Errorf("expected no surviving transitions out of state 0, got %v", out.Enabled(0))
	}
}

// Invariant 6 (spec.md §8): every uncontrollable plant event enabled at a
// kept virtual state's plant component is also enabled in the supervisor.
func TestSynthesize_Invariant_Controllability(t *testing.T) {
	p := mustAutomaton(t, 3, 0, []automaton.StateID{0, 2}, 2)
	p.SetTransition(0, 1, 0) // c
	p.SetTransition(1, 2, 1) // u
	p.SetTransition(2, 0, 1) // u

	s := mustAutomaton(t, 3, 0, []automaton.StateID{0, 2}, 2)
	s.SetTransition(0, 1, 0)
	s.SetTransition(1, 2, 1)
	s.SetTransition(2, 0, 1)

	var uc event.Set
	uc.Set(1)

	out, _, err := Synthesize(product.NewLeaf(p), product.NewLeaf(s), uc, DefaultConfig())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	for q := automaton.StateID(0); uint32(q) < out.NumStates(); q++ {
		if p.Enabled(q).Test(1) && !out.Enabled(q).Test(1) {
			t.Errorf("state %d: plant enables uncontrollable event 1 but supervisor does not", q)
		}
	}
}

// Invariant 9 (spec.md §8): every state of the supervisor is coaccessible.
func TestSynthesize_Invariant_Nonblocking(t *testing.T) {
	p := mustAutomaton(t, 3, 0, []automaton.StateID{2}, 1)
	p.SetTransition(0, 1, 0)
	p.SetTransition(1, 2, 0)
	s := mustAutomaton(t, 3, 0, []automaton.StateID{2}, 1)
	s.SetTransition(0, 1, 0)
	s.SetTransition(1, 2, 0)

	var uc event.Set
	out, _, err := Synthesize(product.NewLeaf(p), product.NewLeaf(s), uc, DefaultConfig())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	coacc := out.CoaccessiblePart()
	for q := automaton.StateID(0); uint32(q) < out.NumStates(); q++ {
		if _, ok := coacc[q]; !ok {
			t.Errorf("state %d is not coaccessible in the trimmed supervisor", q)
		}
	}
}

// Invariant 10 (spec.md §8): two runs on identical inputs produce identical
// state/transition enumeration.
func TestSynthesize_Invariant_Determinism(t *testing.T) {
	build := func() (*automaton.Automaton, *automaton.Automaton) {
		p := mustAutomaton(t, 3, 0, []automaton.StateID{0, 2}, 2)
		p.SetTransition(0, 1, 0)
		p.SetTransition(1, 2, 1)
		s := mustAutomaton(t, 3, 0, []automaton.StateID{0, 2}, 2)
		s.SetTransition(0, 1, 0)
		s.SetTransition(1, 2, 1)
		return p, s
	}

	var uc event.Set
	uc.Set(1)

	p1, s1 := build()
	out1, _, err := Synthesize(product.NewLeaf(p1), product.NewLeaf(s1), uc, DefaultConfig())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	p2, s2 := build()
	out2, _, err := Synthesize(product.NewLeaf(p2), product.NewLeaf(s2), uc, DefaultConfig())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if out1.NumStates() != out2.NumStates() {
		t.Fatalf("state counts differ: %d vs %d", out1.NumStates(), out2.NumStates())
	}
	for q := automaton.StateID(0); uint32(q) < out1.NumStates(); q++ {
		if out1.IsMarked(q) != out2.IsMarked(q) {
			t.Errorf("state %d: marking differs between runs", q)
		}
		if !out1.Enabled(q).Equal(out2.Enabled(q)) {
			t.Errorf("state %d: enabled events differ between runs", q)
		}
	}
}

func TestSynthesizeMany_FoldsThenSynthesizes(t *testing.T) {
	newLoop := func(nEvents int, e event.Event) *automaton.Automaton {
		a := mustAutomaton(t, 1, 0, []automaton.StateID{0}, nEvents)
		a.SetTransition(0, 0, e)
		return a
	}
	plants := []*automaton.Automaton{newLoop(2, 0), newLoop(2, 1)}
	specs := []*automaton.Automaton{newLoop(2, 0), newLoop(2, 1)}

	var uc event.Set
	out, stats, err := SynthesizeMany(plants, specs, uc, DefaultConfig())
	if err != nil {
		t.Fatalf("SynthesizeMany() error = %v", err)
	}
	if stats.Empty {
		t.Fatal("expected a non-empty supervisor")
	}
	if out.NumStates() != 1 {
		t.Fatalf("NumStates() = %d, want 1", out.NumStates())
	}
}

func TestConfig_ValidateRejectsAbortWithoutInterval(t *testing.T) {
	cfg := DefaultConfig().WithAbort(func() bool { return false })
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error: Abort set without a positive AbortEvery")
	}
}
