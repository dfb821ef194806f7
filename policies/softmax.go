package policies

import (
	"math"

	"github.com/zeu5/goal-qlearner/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMax picks actions with probability proportional to
// exp(value/temperature). Epsilon is ignored.
type SoftMax struct {
	Temperature float64

	rand erand.Source
}

func NewSoftMax(temperature float64, src erand.Source) *SoftMax {
	return &SoftMax{
		Temperature: temperature,
		rand:        src,
	}
}

// Checking interface compatibility
var _ core.Policy = &SoftMax{}

func (s *SoftMax) Reset() {}

func (s *SoftMax) PickAction(step *core.StepContext, values []float64) int {
	if s.Temperature <= 0 {
		return Greedy(values)
	}
	largest := values[0]
	for _, v := range values {
		if v > largest {
			largest = v
		}
	}

	// Shift by the largest value so exp never overflows
	weights := make([]float64, len(values))
	sum := float64(0)
	for i, v := range values {
		weights[i] = math.Exp((v - largest) / s.Temperature)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] = weights[i] / sum
	}

	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return Greedy(values)
	}
	logger(step).Debug("sampled action", "action", i, "probability", weights[i])
	return i
}

type SoftMaxConstructor struct{}

var _ core.PolicyConstructor = &SoftMaxConstructor{}

func NewSoftMaxConstructor() *SoftMaxConstructor {
	return &SoftMaxConstructor{}
}

func (s *SoftMaxConstructor) NewPolicy(params *core.TrainParams, src erand.Source) core.Policy {
	return NewSoftMax(params.Temperature, src)
}
