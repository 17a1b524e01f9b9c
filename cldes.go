// Package cldes computes the monolithic supervisor of a discrete-event
// plant with respect to a specification, using a lazily evaluated
// synchronous product: the product's states are derived from the operand
// states on demand (q = qy*n0 + qx) instead of being materialized into a
// standalone transition table before synthesis runs.
//
// Basic usage:
//
//	plant, _ := automaton.New(3, 0, []automaton.StateID{0}, 2)
//	spec, _ := automaton.New(2, 0, []automaton.StateID{0}, 2)
//	var uncontrollable event.Set
//	uncontrollable.Set(1)
//
//	sup, stats, err := cldes.Synthesize(plant, spec, uncontrollable, cldes.DefaultConfig())
//
// For more than two plants or specs, SynthesizeMany folds the vector into a
// balanced composition tree before running the same algorithm.
package cldes

import (
	"github.com/coregx/cldes/automaton"
	"github.com/coregx/cldes/event"
	"github.com/coregx/cldes/product"
	"github.com/coregx/cldes/synth"
)

// Config controls synthesis behaviour: abort polling and an allocation hint
// for the materialized result.
type Config = synth.Config

// Stats is a snapshot of what one Synthesize or SynthesizeMany call did.
type Stats = synth.Stats

// DefaultConfig returns a Config with no abort polling and no allocation
// hint.
func DefaultConfig() Config {
	return synth.DefaultConfig()
}

// Synthesize computes the monolithic supervisor of plant with respect to
// spec over the given uncontrollable event set.
func Synthesize(plant, spec *automaton.Automaton, uncontrollable event.Set, cfg Config) (*automaton.Automaton, Stats, error) {
	return synth.Synthesize(product.NewLeaf(plant), product.NewLeaf(spec), uncontrollable, cfg)
}

// SynthesizeMany folds plants and specs into balanced composition trees and
// computes the monolithic supervisor of the result.
func SynthesizeMany(plants, specs []*automaton.Automaton, uncontrollable event.Set, cfg Config) (*automaton.Automaton, Stats, error) {
	return synth.SynthesizeMany(plants, specs, uncontrollable, cfg)
}
