package fixtures

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/coregx/cldes/event"
)

func TestLoadFMS(t *testing.T) {
	plants, specs, uc, err := LoadFMS("testdata/fms.yaml")
	if err != nil {
		t.Fatalf("LoadFMS() error = %v", err)
	}
	if len(plants) != 8 {
		t.Fatalf("len(plants) = %d, want 8", len(plants))
	}
	if len(specs) != 8 {
		t.Fatalf("len(specs) = %d, want 8", len(specs))
	}
	for _, e := range []uint16{1, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 30, 31} {
		if !uc.Test(event.Event(e)) {
			t.Errorf("uncontrollable set missing event %d", e)
		}
	}
	if uc.Popcount() != 15 {
		t.Errorf("uncontrollable set has %d events, want 15", uc.Popcount())
	}

	// AutomatonDef.Build discards Name when constructing the automaton, so
	// names are only available on the raw document, read here separately.
	data, err := os.ReadFile("testdata/fms.yaml")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var fms FMS
	if err := yaml.Unmarshal(data, &fms); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	robot := fms.Plants[5]
	if robot.Name != "robot" {
		t.Fatalf("fms.Plants[5].Name = %q, want %q", robot.Name, "robot")
	}
}

func TestAutomatonDef_Build(t *testing.T) {
	d := AutomatonDef{
		Name:     "test",
		States:   2,
		Initial:  0,
		Marked:   []uint32{0},
		Alphabet: 1,
		Transitions: []TransitionDef{
			{From: 0, To: 1, Event: 0},
		},
	}
	a, err := d.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if a.NumStates() != 2 {
		t.Errorf("NumStates() = %d, want 2", a.NumStates())
	}
	if !a.ContainsTrans(0, 0) {
		t.Error("expected transition 0->1 on event 0")
	}
}
