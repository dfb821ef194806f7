package policies

import (
	"github.com/zeu5/goal-qlearner/core"
	"golang.org/x/exp/rand"
)

// RandomPolicy ignores the table and always explores.
type RandomPolicy struct {
	rand *rand.Rand
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(src rand.Source) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(src),
	}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) PickAction(step *core.StepContext, values []float64) int {
	return r.rand.Intn(len(values))
}

type RandomPolicyConstructor struct{}

func (r *RandomPolicyConstructor) NewPolicy(_ *core.TrainParams, src rand.Source) core.Policy {
	return NewRandomPolicy(src)
}
