package common

import (
	"path"
	"time"

	"github.com/zeu5/goal-qlearner/core"
	"github.com/zeu5/goal-qlearner/util"
)

type Flags struct {
	Environment string
	SavePath    string
	TrainFlags
	RunFlags
	Journal  string
	Charts   bool
	LogLevel string
}

type TrainFlags struct {
	Episodes    int
	Alpha       float64
	Gamma       float64
	Epsilon     float64
	Reward      float64
	Temperature float64
	Policy      string
}

type RunFlags struct {
	Seed        uint64
	StepTimeout time.Duration
	MaxSteps    int
}

func DefaultFlags() *Flags {
	return &Flags{
		Environment: "grid:4",
		SavePath:    "results",
		TrainFlags: TrainFlags{
			Episodes:    100,
			Alpha:       0.5,
			Gamma:       0.9,
			Epsilon:     0.4,
			Reward:      100,
			Temperature: 1,
			Policy:      "egreedy",
		},
		RunFlags: RunFlags{
			Seed:        0,
			StepTimeout: 10 * time.Second,
			MaxSteps:    0,
		},
		Journal:  "",
		Charts:   false,
		LogLevel: "warn",
	}
}

// TrainParams builds the parameters of one CalculateQ call for goal.
func (f *Flags) TrainParams(goal core.Goal) core.TrainParams {
	return core.TrainParams{
		Goal:        goal,
		Episodes:    f.Episodes,
		Alpha:       f.Alpha,
		Gamma:       f.Gamma,
		Epsilon:     f.Epsilon,
		Reward:      f.Reward,
		Temperature: f.Temperature,
	}
}

func (f *Flags) RunConfig() *core.RunConfig {
	return &core.RunConfig{
		StepTimeout: f.StepTimeout,
		Seed:        f.Seed,
		MaxSteps:    f.MaxSteps,
	}
}

// Fingerprint identifies the configuration in logs.
func (f *Flags) Fingerprint() string {
	return util.JsonHash(f)[:12]
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
