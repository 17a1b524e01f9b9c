// Package fixtures loads named automaton definitions — states, transitions,
// marked set, uncontrollable set — from YAML, the way
// comalice/statechartx's internal/production.Persister loads and saves
// machine snapshots: os.ReadFile followed by yaml.Unmarshal, no schema
// validation library, no embed.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coregx/cldes/automaton"
	"github.com/coregx/cldes/event"
)

// TransitionDef is one row of an AutomatonDef's transition table.
type TransitionDef struct {
	From  uint32 `yaml:"from"`
	To    uint32 `yaml:"to"`
	Event uint16 `yaml:"event"`
}

// AutomatonDef is the YAML-serialisable form of an automaton.Automaton.
type AutomatonDef struct {
	Name        string          `yaml:"name"`
	States      uint32          `yaml:"states"`
	Initial     uint32          `yaml:"initial"`
	Marked      []uint32        `yaml:"marked"`
	Alphabet    int             `yaml:"alphabet"`
	Transitions []TransitionDef `yaml:"transitions"`
}

// Build constructs an *automaton.Automaton from d.
func (d AutomatonDef) Build() (*automaton.Automaton, error) {
	marked := make([]automaton.StateID, len(d.Marked))
	for i, m := range d.Marked {
		marked[i] = automaton.StateID(m)
	}

	a, err := automaton.New(d.States, automaton.StateID(d.Initial), marked, d.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("fixtures: building %q: %w", d.Name, err)
	}
	for _, tr := range d.Transitions {
		a.SetTransition(automaton.StateID(tr.From), automaton.StateID(tr.To), event.Event(tr.Event))
	}
	return a, nil
}

// FMS is the YAML document shape for the flexible-manufacturing-system
// regression fixture (spec.md §8 Scenario D): a vector of plants, a vector
// of specs and the uncontrollable event set shared by both.
type FMS struct {
	Plants         []AutomatonDef `yaml:"plants"`
	Specs          []AutomatonDef `yaml:"specs"`
	Uncontrollable []uint16       `yaml:"uncontrollable"`
}

func buildAll(defs []AutomatonDef) ([]*automaton.Automaton, error) {
	out := make([]*automaton.Automaton, len(defs))
	for i, d := range defs {
		a, err := d.Build()
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// LoadFMS reads and parses the FMS fixture at path, returning its plants,
// its specs, and its uncontrollable event set.
func LoadFMS(path string) (plants, specs []*automaton.Automaton, uncontrollable event.Set, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, event.Set{}, fmt.Errorf("fixtures: reading %s: %w", path, err)
	}

	var fms FMS
	if err := yaml.Unmarshal(data, &fms); err != nil {
		return nil, nil, event.Set{}, fmt.Errorf("fixtures: parsing %s: %w", path, err)
	}

	plants, err = buildAll(fms.Plants)
	if err != nil {
		return nil, nil, event.Set{}, err
	}
	specs, err = buildAll(fms.Specs)
	if err != nil {
		return nil, nil, event.Set{}, err
	}

	var uc event.Set
	for _, e := range fms.Uncontrollable {
		uc.Set(event.Event(e))
	}
	return plants, specs, uc, nil
}
