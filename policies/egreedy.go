package policies

import (
	"github.com/zeu5/goal-qlearner/core"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// EGreedy explores a uniformly random action with probability epsilon and
// otherwise exploits the first action with the highest value.
type EGreedy struct {
	epsilon float64
	rand    *rand.Rand
}

var _ core.Policy = &EGreedy{}

func NewEGreedy(epsilon float64, src rand.Source) *EGreedy {
	return &EGreedy{
		epsilon: epsilon,
		rand:    rand.New(src),
	}
}

func (e *EGreedy) Reset() {}

func (e *EGreedy) PickAction(step *core.StepContext, values []float64) int {
	if e.rand.Float64() < e.epsilon {
		i := e.rand.Intn(len(values))
		logger(step).Debug("exploring, random action", "action", i)
		return i
	}
	logger(step).Debug("exploiting, best action")
	return Greedy(values)
}

// Greedy returns the index of the largest value, preferring the lowest
// index on ties.
func Greedy(values []float64) int {
	return floats.MaxIdx(values)
}

type EGreedyConstructor struct{}

var _ core.PolicyConstructor = &EGreedyConstructor{}

func NewEGreedyConstructor() *EGreedyConstructor {
	return &EGreedyConstructor{}
}

func (c *EGreedyConstructor) NewPolicy(params *core.TrainParams, src rand.Source) core.Policy {
	return NewEGreedy(params.Epsilon, src)
}
