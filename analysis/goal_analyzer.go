package analysis

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/zeu5/goal-qlearner/core"
	"gonum.org/v1/gonum/stat"
)

// GoalStats summarizes how training calls reached their goals.
type GoalStats struct {
	Runs         int
	Reached      int
	MeanSteps    float64
	StdDevSteps  float64
	StepsToReach []float64
}

// GoalAnalyzer collects steps-to-goal per goal key. With a save path it
// also writes the trace of every run that reached its goal.
type GoalAnalyzer struct {
	savePath string
	runs     map[string]int
	steps    map[string][]float64
	logger   *slog.Logger
}

var _ core.Analyzer = &GoalAnalyzer{}

func NewGoalAnalyzer(savePath string) *GoalAnalyzer {
	if savePath != "" {
		savePath = path.Join(savePath, "traces")
	}
	return &GoalAnalyzer{
		savePath: savePath,
		runs:     make(map[string]int),
		steps:    make(map[string][]float64),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger receives warnings about trace files that could not be saved.
func (g *GoalAnalyzer) SetLogger(l *slog.Logger) {
	if l != nil {
		g.logger = l
	}
}

func (g *GoalAnalyzer) Analyze(result *core.TrainingResult, trace *core.Trace) {
	key := result.Goal.Key()
	g.runs[key]++
	if !result.GoalReached {
		return
	}
	g.steps[key] = append(g.steps[key], float64(result.TotalSteps))

	if g.savePath == "" {
		return
	}
	if err := os.MkdirAll(g.savePath, 0755); err != nil {
		g.logger.Warn("could not create trace directory", "path", g.savePath, "err", err)
		return
	}
	fileName := path.Join(g.savePath, fmt.Sprintf("%s_trace.txt", result.RunID))
	if err := os.WriteFile(fileName, []byte(traceToString(trace)), 0644); err != nil {
		g.logger.Warn("could not save trace", "run", result.RunID, "err", err)
	}
}

func (g *GoalAnalyzer) DataSet() core.DataSet {
	out := make(map[string]*GoalStats)
	for key, runs := range g.runs {
		steps := append([]float64(nil), g.steps[key]...)
		s := &GoalStats{
			Runs:         runs,
			Reached:      len(steps),
			StepsToReach: steps,
		}
		if len(steps) > 0 {
			s.MeanSteps, s.StdDevSteps = stat.MeanStdDev(steps, nil)
		}
		out[key] = s
	}
	return out
}

func (g *GoalAnalyzer) Reset() {
	g.runs = make(map[string]int)
	g.steps = make(map[string][]float64)
}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		if step.WarmUp {
			buf.WriteString(fmt.Sprintf("Episode %d warm-up: action %d -> state %d\n", step.Episode, step.Action, step.NextState))
			continue
		}
		buf.WriteString(fmt.Sprintf("Episode %d: state %d, action %d -> state %d, reward %.2f\n",
			step.Episode, step.State, step.Action, step.NextState, step.Reward))
	}
	return buf.String()
}
