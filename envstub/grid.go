package envstub

import (
	"fmt"

	"github.com/zeu5/goal-qlearner/core"
)

// GridStates enumerates every (z1, z2) pair with levels per zone in
// row-major order, so (i, j) has index i*levels+j.
func GridStates(levels int) []core.State {
	out := make([]core.State, 0, levels*levels)
	for i := 0; i < levels; i++ {
		for j := 0; j < levels; j++ {
			out = append(out, core.State{i, j})
		}
	}
	return out
}

// GridActions are, in order: lower zone 1, raise zone 1, lower zone 2,
// raise zone 2.
func GridActions() []core.Action {
	mk := func(zone int, delta int) core.Action {
		verb := "raise"
		if delta < 0 {
			verb = "lower"
		}
		return core.Action{
			Tag:         fmt.Sprintf("%sZ%dLevel", verb, zone),
			PayloadTags: []string{fmt.Sprintf("Z%dLevel", zone)},
			Payload:     []interface{}{delta},
		}
	}
	return []core.Action{mk(1, -1), mk(1, 1), mk(2, -1), mk(2, 1)}
}

// GridTransition moves one zone level up or down, saturating at the edges.
func GridTransition(levels int) TransitionFunc {
	return func(state, action int) int {
		z1, z2 := state/levels, state%levels
		switch action {
		case 0:
			z1--
		case 1:
			z1++
		case 2:
			z2--
		case 3:
			z2++
		}
		z1 = clamp(z1, levels)
		z2 = clamp(z2, levels)
		return z1*levels + z2
	}
}

// NewGrid returns a levels x levels light lab starting at (0, 0).
func NewGrid(levels int) *Lab {
	return New(GridStates(levels), GridActions(), GridTransition(levels), 0)
}

func clamp(v, levels int) int {
	if v < 0 {
		return 0
	}
	if v >= levels {
		return levels - 1
	}
	return v
}

// Constructor resolves descriptors of the form "grid:<levels>".
type Constructor struct{}

var _ core.EnvironmentConstructor = &Constructor{}

func (c *Constructor) NewEnvironment(descriptor string) (core.Environment, error) {
	var levels int
	if _, err := fmt.Sscanf(descriptor, "grid:%d", &levels); err != nil || levels <= 0 {
		return nil, fmt.Errorf("%w: unsupported environment descriptor %q", core.ErrConfiguration, descriptor)
	}
	return NewGrid(levels), nil
}
