package core

import "fmt"

// StateSpace indexes every state an environment can report. It is built
// once and never changes afterwards.
type StateSpace struct {
	states []State
	index  map[string]int
}

// NewStateSpace copies the given states in order. Duplicate tuples keep
// the first index they were seen at.
func NewStateSpace(states []State) (*StateSpace, error) {
	if len(states) == 0 {
		return nil, ErrEmptySpace
	}
	s := &StateSpace{
		states: make([]State, len(states)),
		index:  make(map[string]int, len(states)),
	}
	for i, st := range states {
		if len(st) < RelevantArity {
			return nil, fmt.Errorf("%w: state %d (%v) has fewer than %d components", ErrConfiguration, i, st, RelevantArity)
		}
		s.states[i] = st.Copy()
		hash := st.Hash()
		if _, ok := s.index[hash]; !ok {
			s.index[hash] = i
		}
	}
	return s, nil
}

// NewStateSpaceFromEnvironment enumerates env.States and checks it against
// the declared state count.
func NewStateSpaceFromEnvironment(env Environment) (*StateSpace, error) {
	states := env.States()
	if len(states) != env.StateCount() {
		return nil, fmt.Errorf("%w: environment declares %d states but enumerates %d", ErrConfiguration, env.StateCount(), len(states))
	}
	return NewStateSpace(states)
}

func (s *StateSpace) Size() int {
	return len(s.states)
}

func (s *StateSpace) IndexOf(state State) (int, error) {
	i, ok := s.index[state.Hash()]
	if !ok {
		return -1, fmt.Errorf("%w: %v", ErrUnknownState, state)
	}
	return i, nil
}

func (s *StateSpace) Describe(i int) (State, error) {
	if i < 0 || i >= len(s.states) {
		return nil, fmt.Errorf("%w: index %d outside [0, %d)", ErrUnknownState, i, len(s.states))
	}
	return s.states[i].Copy(), nil
}

// Goals returns every distinct relevant projection in first-seen order.
func (s *StateSpace) Goals() []Goal {
	seen := make(map[Goal]bool)
	out := make([]Goal, 0)
	for _, st := range s.states {
		g := Goal{st[0], st[1]}
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// HasGoal reports whether any enumerated state projects onto g.
func (s *StateSpace) HasGoal(g Goal) bool {
	for _, st := range s.states {
		if IsGoalAchieved(st, g) {
			return true
		}
	}
	return false
}

// ActionCatalog holds the actions of an environment in index order.
type ActionCatalog struct {
	actions []Action
}

func NewActionCatalog(actions []Action) (*ActionCatalog, error) {
	if len(actions) == 0 {
		return nil, ErrEmptySpace
	}
	c := &ActionCatalog{actions: make([]Action, len(actions))}
	for i, a := range actions {
		c.actions[i] = a.Copy()
	}
	return c, nil
}

// NewActionCatalogFromEnvironment enumerates env.Action for every index.
func NewActionCatalogFromEnvironment(env Environment) (*ActionCatalog, error) {
	n := env.ActionCount()
	actions := make([]Action, n)
	for i := 0; i < n; i++ {
		a, err := env.Action(i)
		if err != nil {
			return nil, fmt.Errorf("%w: reading action %d: %v", ErrConfiguration, i, err)
		}
		actions[i] = a
	}
	return NewActionCatalog(actions)
}

func (c *ActionCatalog) Size() int {
	return len(c.actions)
}

func (c *ActionCatalog) Action(i int) (Action, error) {
	if i < 0 || i >= len(c.actions) {
		return Action{}, fmt.Errorf("%w: action index %d outside [0, %d)", ErrConfiguration, i, len(c.actions))
	}
	return c.actions[i].Copy(), nil
}

// Tags returns the action tags in index order.
func (c *ActionCatalog) Tags() []string {
	out := make([]string, len(c.actions))
	for i, a := range c.actions {
		out[i] = a.Tag
	}
	return out
}
