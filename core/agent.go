package core

import "golang.org/x/exp/rand"

// Policy picks the action to take from the current state while training.
// values are the current Q values of that state, indexed by action.
type Policy interface {
	PickAction(*StepContext, []float64) int
	Reset()
}

type PolicyConstructor interface {
	// NewPolicy builds a policy for one training call. The source is
	// owned by the trainer and shared with the warm-up action draw.
	NewPolicy(*TrainParams, rand.Source) Policy
}
