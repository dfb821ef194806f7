package core

import (
	"fmt"
	"math"
	"time"
)

// TrainParams are the arguments of a single CalculateQ call.
type TrainParams struct {
	Goal     Goal
	Episodes int
	Alpha    float64
	Gamma    float64
	Epsilon  float64
	Reward   float64

	// Temperature is only read by Boltzmann exploration.
	Temperature float64
}

// Validate rejects rates outside [0,1] instead of clamping them.
// Episodes <= 0 is valid and trains nothing.
func (p *TrainParams) Validate() error {
	rates := []struct {
		name string
		val  float64
	}{
		{"alpha", p.Alpha},
		{"gamma", p.Gamma},
		{"epsilon", p.Epsilon},
	}
	for _, r := range rates {
		if math.IsNaN(r.val) || r.val < 0 || r.val > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrConfiguration, r.name, r.val)
		}
	}
	if math.IsNaN(p.Reward) || math.IsInf(p.Reward, 0) {
		return fmt.Errorf("%w: reward must be finite, got %v", ErrConfiguration, p.Reward)
	}
	if math.IsNaN(p.Temperature) || p.Temperature < 0 {
		return fmt.Errorf("%w: temperature must be non-negative, got %v", ErrConfiguration, p.Temperature)
	}
	return nil
}

type RunConfig struct {
	// StepTimeout bounds every environment call. Zero disables it.
	StepTimeout time.Duration
	// Seed for the trainer's random source. Zero seeds from the clock.
	Seed uint64
	// MaxSteps bounds the steps of an episode. Zero means the size of the
	// state space.
	MaxSteps int
}

type TrainingResult struct {
	RunID       string
	Goal        Goal
	Params      TrainParams
	EpisodesRun int
	TotalSteps  int
	GoalReached bool
	// Episode and Step locate the goal short-circuit when GoalReached.
	Episode int
	Step    int

	StartedAt  time.Time
	FinishedAt time.Time
	Error      error
}

func (r *TrainingResult) IsError() bool {
	return r.Error != nil
}

type DataSet interface{}

type Analyzer interface {
	Analyze(*TrainingResult, *Trace)
	DataSet() DataSet
	Reset()
}

type Comparator interface {
	Compare([]string, []DataSet) error
}
