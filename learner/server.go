package learner

import (
	"github.com/zeu5/goal-qlearner/core"
	"github.com/zeu5/goal-qlearner/policies"
)

// Recommendation is the greedy action for a state under a trained goal.
type Recommendation struct {
	Index       int
	ActionTag   string
	PayloadTags []string
	Payload     []interface{}
	Value       float64
}

// PolicyServer answers greedy action queries from trained tables. It only
// reads the registry.
type PolicyServer struct {
	space    *core.StateSpace
	catalog  *core.ActionCatalog
	registry *core.GoalRegistry
}

func NewPolicyServer(space *core.StateSpace, catalog *core.ActionCatalog, registry *core.GoalRegistry) *PolicyServer {
	return &PolicyServer{
		space:    space,
		catalog:  catalog,
		registry: registry,
	}
}

// GetActionFromState fails with core.ErrGoalNotTrained when the goal has
// no table and core.ErrUnknownState when the state was never enumerated.
func (s *PolicyServer) GetActionFromState(goal core.Goal, state core.State) (Recommendation, error) {
	qTable, err := s.registry.Lookup(goal)
	if err != nil {
		return Recommendation{}, err
	}
	stateIndex, err := s.space.IndexOf(state)
	if err != nil {
		return Recommendation{}, err
	}
	values := qTable.Row(stateIndex)
	best := policies.Greedy(values)
	action, err := s.catalog.Action(best)
	if err != nil {
		return Recommendation{}, err
	}
	return Recommendation{
		Index:       best,
		ActionTag:   action.Tag,
		PayloadTags: action.PayloadTags,
		Payload:     action.Payload,
		Value:       values[best],
	}, nil
}
