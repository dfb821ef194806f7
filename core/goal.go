package core

import (
	"fmt"
	"strconv"
	"strings"
)

// RelevantArity is the number of leading state components a goal is
// expressed over (the zone levels the lab can control).
const RelevantArity = 2

// Goal is a target over the relevant components of a state.
type Goal [RelevantArity]int

// Key is the canonical registry key of the goal, e.g. "[2, 3]".
func (g Goal) Key() string {
	return "[" + joinInts(g[:], ", ") + "]"
}

func (g Goal) String() string {
	return g.Key()
}

// ParseGoal reads a goal from "2,3", "[2, 3]" or "2 3".
func ParseGoal(s string) (Goal, error) {
	vals, err := parseInts(s)
	if err != nil {
		return Goal{}, err
	}
	if len(vals) != RelevantArity {
		return Goal{}, fmt.Errorf("%w: goal %q needs %d components, got %d", ErrConfiguration, s, RelevantArity, len(vals))
	}
	var g Goal
	copy(g[:], vals)
	return g, nil
}

// ParseState reads a state tuple in the same formats as ParseGoal.
func ParseState(s string) (State, error) {
	vals, err := parseInts(s)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: empty state %q", ErrConfiguration, s)
	}
	return State(vals), nil
}

func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	opened, closed := strings.HasPrefix(s, "["), strings.HasSuffix(s, "]")
	if opened != closed {
		return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrConfiguration, s)
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")

	var fields []string
	if strings.Contains(s, ",") {
		fields = strings.Split(s, ",")
	} else {
		fields = strings.Fields(s)
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, fmt.Errorf("%w: empty component in %q", ErrConfiguration, s)
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrConfiguration, f)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: component %d is negative", ErrConfiguration, v)
		}
		out[i] = v
	}
	return out, nil
}

// Relevant projects a state onto its first two components.
func Relevant(s State) (int, int, error) {
	if len(s) < RelevantArity {
		return 0, 0, fmt.Errorf("%w: state %v has fewer than %d components", ErrConfiguration, s, RelevantArity)
	}
	return s[0], s[1], nil
}

// IsGoalAchieved reports whether the relevant part of s equals g exactly.
// States too short to project never achieve a goal.
func IsGoalAchieved(s State, g Goal) bool {
	z1, z2, err := Relevant(s)
	if err != nil {
		return false
	}
	return z1 == g[0] && z2 == g[1]
}
