package common

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/zeu5/goal-qlearner/core"
)

func TestGoalList(t *testing.T) {
	var goals GoalList
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(&goals, "goal", "")

	if err := fs.Parse([]string{"--goal", "2,3", "--goal", "[0, 1]"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(goals) != 2 || goals[0] != (core.Goal{2, 3}) || goals[1] != (core.Goal{0, 1}) {
		t.Errorf("unexpected goals %v", goals)
	}
	if goals.String() != "[2, 3] [0, 1]" {
		t.Errorf("unexpected string %q", goals.String())
	}

	if err := goals.Set("2"); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestStateList(t *testing.T) {
	var states StateList
	if err := states.Set("1,2,5,9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(states) != 1 || !states[0].Equal(core.State{1, 2, 5, 9}) {
		t.Errorf("unexpected states %v", states)
	}
	if states.Type() != "state" {
		t.Errorf("unexpected type %q", states.Type())
	}
}

func TestFlags(t *testing.T) {
	f := DefaultFlags()
	p := f.TrainParams(core.Goal{2, 3})
	if err := p.Validate(); err != nil {
		t.Fatalf("expected default flags to be valid: %v", err)
	}
	if p.Goal != (core.Goal{2, 3}) || p.Episodes != f.Episodes {
		t.Errorf("unexpected params %+v", p)
	}

	other := DefaultFlags()
	other.Alpha = 0.1
	if f.Fingerprint() == other.Fingerprint() {
		t.Error("expected different fingerprints for different flags")
	}
}
