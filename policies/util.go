package policies

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/zeu5/goal-qlearner/core"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func logger(step *core.StepContext) *slog.Logger {
	if step == nil || step.EpisodeContext == nil || step.Logger == nil {
		return discard
	}
	return step.Logger.With("episode", step.Episode, "step", step.Step, "state", step.State)
}

// ByName resolves an exploration policy: "egreedy", "softmax" or "random".
func ByName(name string) (core.PolicyConstructor, error) {
	switch name {
	case "", "egreedy":
		return NewEGreedyConstructor(), nil
	case "softmax":
		return NewSoftMaxConstructor(), nil
	case "random":
		return &RandomPolicyConstructor{}, nil
	}
	return nil, fmt.Errorf("%w: unknown exploration policy %q", core.ErrConfiguration, name)
}
