package core

import (
	"errors"
	"testing"
)

func gridStates(levels int) []State {
	out := make([]State, 0, levels*levels)
	for i := 0; i < levels; i++ {
		for j := 0; j < levels; j++ {
			out = append(out, State{i, j})
		}
	}
	return out
}

func TestStateSpace_RowMajorIndex(t *testing.T) {
	space, err := NewStateSpace(gridStates(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space.Size() != 16 {
		t.Fatalf("expected 16 states, got %d", space.Size())
	}

	i, err := space.IndexOf(State{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i != 10 {
		t.Errorf("expected (2,2) at 10, got %d", i)
	}

	s, err := space.Describe(11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Equal(State{2, 3}) {
		t.Errorf("expected [2, 3], got %v", s)
	}
}

func TestStateSpace_IndexDescribeRoundTrip(t *testing.T) {
	space, _ := NewStateSpace(gridStates(3))
	for i := 0; i < space.Size(); i++ {
		s, err := space.Describe(i)
		if err != nil {
			t.Fatalf("describe %d: %v", i, err)
		}
		j, err := space.IndexOf(s)
		if err != nil {
			t.Fatalf("index of %v: %v", s, err)
		}
		if i != j {
			t.Errorf("expected %d, got %d", i, j)
		}
	}
}

func TestStateSpace_UnknownState(t *testing.T) {
	space, _ := NewStateSpace(gridStates(4))

	cases := []State{{4, 0}, {2, 2, 1}, {2}}
	for _, s := range cases {
		if _, err := space.IndexOf(s); !errors.Is(err, ErrUnknownState) {
			t.Errorf("%v: expected ErrUnknownState, got %v", s, err)
		}
	}
	if _, err := space.Describe(16); !errors.Is(err, ErrUnknownState) {
		t.Errorf("expected ErrUnknownState for index 16, got %v", err)
	}
	if _, err := space.Describe(-1); !errors.Is(err, ErrUnknownState) {
		t.Errorf("expected ErrUnknownState for index -1, got %v", err)
	}
}

func TestStateSpace_DescribeReturnsCopy(t *testing.T) {
	space, _ := NewStateSpace(gridStates(2))
	s, _ := space.Describe(0)
	s[0] = 9
	again, _ := space.Describe(0)
	if again[0] != 0 {
		t.Error("expected state space to be immutable through Describe")
	}
}

func TestStateSpace_Invalid(t *testing.T) {
	if _, err := NewStateSpace(nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for empty space, got %v", err)
	}
	if _, err := NewStateSpace([]State{{1, 2}, {3}}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for short state, got %v", err)
	}
}

func TestStateSpace_Goals(t *testing.T) {
	space, _ := NewStateSpace([]State{{0, 0, 1}, {0, 0, 2}, {1, 0, 1}})
	goals := space.Goals()
	if len(goals) != 2 {
		t.Fatalf("expected 2 distinct goals, got %v", goals)
	}
	if goals[0] != (Goal{0, 0}) || goals[1] != (Goal{1, 0}) {
		t.Errorf("unexpected goals %v", goals)
	}
	if !space.HasGoal(Goal{1, 0}) {
		t.Error("expected (1,0) to be reachable")
	}
	if space.HasGoal(Goal{1, 1}) {
		t.Error("expected (1,1) to be unreachable")
	}
}

func TestActionCatalog(t *testing.T) {
	actions := []Action{
		{Tag: "lower", PayloadTags: []string{"Z1Level"}, Payload: []interface{}{-1}},
		{Tag: "raise", PayloadTags: []string{"Z1Level"}, Payload: []interface{}{1}},
	}
	c, err := NewActionCatalog(actions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	actions[0].Tag = "mutated"

	a, err := c.Action(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Tag != "lower" {
		t.Errorf("expected catalog to copy actions, got tag %q", a.Tag)
	}
	if c.Size() != 2 {
		t.Errorf("expected 2 actions, got %d", c.Size())
	}
	if tags := c.Tags(); tags[1] != "raise" {
		t.Errorf("unexpected tags %v", tags)
	}
	if _, err := c.Action(2); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if _, err := NewActionCatalog(nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for empty catalog, got %v", err)
	}
}
