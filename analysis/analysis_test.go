package analysis

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeu5/goal-qlearner/core"
)

func traceOf(steps ...*core.Step) *core.Trace {
	trace := core.NewTrace()
	for _, s := range steps {
		trace.AddStep(s)
	}
	return trace
}

func TestCoverageAnalyzer(t *testing.T) {
	c := NewCoverageAnalyzer()

	c.Analyze(&core.TrainingResult{Goal: core.Goal{2, 3}}, traceOf(
		&core.Step{State: -1, NextState: 4, WarmUp: true},
		&core.Step{State: 4, NextState: 5},
		&core.Step{State: 5, NextState: 4},
	))
	c.Analyze(&core.TrainingResult{Goal: core.Goal{1, 1}}, traceOf(
		&core.Step{State: -1, NextState: 5, WarmUp: true},
		&core.Step{State: 5, NextState: 9},
	))

	if c.UniqueStates() != 3 {
		t.Errorf("expected 3 unique states, got %d", c.UniqueStates())
	}
	ds := c.DataSet().(*coverageDataset)
	if len(ds.Timesteps) != 2 || ds.Timesteps[0] != 3 || ds.Timesteps[1] != 5 {
		t.Errorf("unexpected timesteps %v", ds.Timesteps)
	}
	if ds.UniqueStates[0] != 2 || ds.UniqueStates[1] != 3 {
		t.Errorf("unexpected unique states %v", ds.UniqueStates)
	}
	if ds.Goals[1] != "[1, 1]" {
		t.Errorf("unexpected goals %v", ds.Goals)
	}

	ds.Timesteps[0] = 100
	if c.DataSet().(*coverageDataset).Timesteps[0] != 3 {
		t.Error("expected DataSet to return a copy")
	}
}

func TestGoalAnalyzer(t *testing.T) {
	dir := t.TempDir()
	g := NewGoalAnalyzer(dir)

	reached := &core.TrainingResult{RunID: "r1", Goal: core.Goal{2, 3}, GoalReached: true, TotalSteps: 4}
	g.Analyze(reached, traceOf(
		&core.Step{Episode: 0, State: -1, Action: 2, NextState: 10, WarmUp: true},
		&core.Step{Episode: 0, State: 10, Action: 3, NextState: 11, Reward: 100},
	))
	g.Analyze(&core.TrainingResult{RunID: "r2", Goal: core.Goal{2, 3}, GoalReached: true, TotalSteps: 8}, traceOf())
	g.Analyze(&core.TrainingResult{RunID: "r3", Goal: core.Goal{2, 3}}, traceOf())
	g.Analyze(&core.TrainingResult{RunID: "r4", Goal: core.Goal{0, 0}}, traceOf())

	stats := g.DataSet().(map[string]*GoalStats)
	s := stats["[2, 3]"]
	if s == nil || s.Runs != 3 || s.Reached != 2 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.MeanSteps != 6 {
		t.Errorf("expected mean 6, got %v", s.MeanSteps)
	}
	if s.StdDevSteps <= 0 {
		t.Errorf("expected a positive spread, got %v", s.StdDevSteps)
	}
	if other := stats["[0, 0]"]; other == nil || other.Reached != 0 || other.MeanSteps != 0 {
		t.Errorf("unexpected stats for unreached goal %+v", other)
	}

	bs, err := os.ReadFile(filepath.Join(dir, "traces", "r1_trace.txt"))
	if err != nil {
		t.Fatalf("expected a trace file: %v", err)
	}
	if !strings.Contains(string(bs), "warm-up: action 2 -> state 10") ||
		!strings.Contains(string(bs), "state 10, action 3 -> state 11, reward 100.00") {
		t.Errorf("unexpected trace %q", string(bs))
	}
	if _, err := os.Stat(filepath.Join(dir, "traces", "r3_trace.txt")); !os.IsNotExist(err) {
		t.Error("expected no trace for an unreached goal")
	}

	g.Reset()
	if len(g.DataSet().(map[string]*GoalStats)) != 0 {
		t.Error("expected Reset to clear stats")
	}
}

func TestComparators(t *testing.T) {
	dir := t.TempDir()
	c := NewCoverageAnalyzer()
	c.Analyze(&core.TrainingResult{Goal: core.Goal{2, 3}}, traceOf(&core.Step{NextState: 1}))

	names := []string{"coverage"}
	datasets := []core.DataSet{c.DataSet()}

	if err := NewNoOpComparator().Compare(names, datasets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewCoverageComparator(dir).Compare(names, datasets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bs, err := os.ReadFile(filepath.Join(dir, "coverage.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(bs), `"UniqueStates"`) {
		t.Errorf("unexpected coverage json %s", bs)
	}

	q, _ := core.NewQTable(2, 2)
	q.Set(1, 1, 5)
	chart := NewChartComparator(dir)
	chart.AddQTable("[2, 3]", q, []string{"[0, 0]", "[0, 1]"}, []string{"lower", "raise"})
	if err := chart.Compare(names, datasets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html, err := os.ReadFile(filepath.Join(dir, "charts.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(html), "echarts") {
		t.Error("expected an echarts page")
	}
}

func TestGoalAnalyzer_WarnsWhenTraceCannotBeSaved(t *testing.T) {
	// a regular file where the save directory should be
	blocker := filepath.Join(t.TempDir(), "results")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := new(bytes.Buffer)
	g := NewGoalAnalyzer(blocker)
	g.SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	g.Analyze(&core.TrainingResult{RunID: "r1", Goal: core.Goal{2, 3}, GoalReached: true, TotalSteps: 1}, traceOf())

	if !strings.Contains(buf.String(), "could not create trace directory") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
	if stats := g.DataSet().(map[string]*GoalStats); stats["[2, 3]"].Reached != 1 {
		t.Error("expected stats to be kept when the trace is not saved")
	}
}
