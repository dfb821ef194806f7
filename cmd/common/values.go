package common

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/zeu5/goal-qlearner/core"
)

// GoalList is a repeatable --goal flag, e.g. --goal 2,3 --goal 0,1.
type GoalList []core.Goal

var _ pflag.Value = &GoalList{}

func (g *GoalList) String() string {
	parts := make([]string, len(*g))
	for i, goal := range *g {
		parts[i] = goal.Key()
	}
	return strings.Join(parts, " ")
}

func (g *GoalList) Set(s string) error {
	goal, err := core.ParseGoal(s)
	if err != nil {
		return err
	}
	*g = append(*g, goal)
	return nil
}

func (g *GoalList) Type() string {
	return "goal"
}

// StateList is a repeatable --from flag, e.g. --from 2,2.
type StateList []core.State

var _ pflag.Value = &StateList{}

func (s *StateList) String() string {
	parts := make([]string, len(*s))
	for i, st := range *s {
		parts[i] = st.String()
	}
	return strings.Join(parts, " ")
}

func (s *StateList) Set(str string) error {
	st, err := core.ParseState(str)
	if err != nil {
		return err
	}
	*s = append(*s, st)
	return nil
}

func (s *StateList) Type() string {
	return "state"
}
