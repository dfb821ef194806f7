package analysis

import (
	"path"

	"github.com/zeu5/goal-qlearner/core"
	"github.com/zeu5/goal-qlearner/util"
)

type coverageDataset struct {
	Goals        []string
	Timesteps    []int
	UniqueStates []int
}

func (c *coverageDataset) Copy() *coverageDataset {
	goals := make([]string, len(c.Goals))
	copy(goals, c.Goals)
	return &coverageDataset{
		Goals:        goals,
		Timesteps:    util.CopyIntSlice(c.Timesteps),
		UniqueStates: util.CopyIntSlice(c.UniqueStates),
	}
}

// CoverageAnalyzer counts the distinct states reached across training
// calls. Warm-up transitions count as visits.
type CoverageAnalyzer struct {
	states  map[int]bool
	dataset *coverageDataset
}

var _ core.Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{
		states: make(map[int]bool),
		dataset: &coverageDataset{
			Goals:        make([]string, 0),
			Timesteps:    make([]int, 0),
			UniqueStates: make([]int, 0),
		},
	}
}

func (c *CoverageAnalyzer) Reset() {
	c.states = make(map[int]bool)
}

func (c *CoverageAnalyzer) Analyze(result *core.TrainingResult, trace *core.Trace) {
	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		c.states[step.NextState] = true
	}
	lastTimeStep := 0
	if len(c.dataset.Timesteps) > 0 {
		lastTimeStep = c.dataset.Timesteps[len(c.dataset.Timesteps)-1]
	}
	c.dataset.Goals = append(c.dataset.Goals, result.Goal.Key())
	c.dataset.Timesteps = append(c.dataset.Timesteps, lastTimeStep+trace.Len())
	c.dataset.UniqueStates = append(c.dataset.UniqueStates, len(c.states))
}

func (c *CoverageAnalyzer) DataSet() core.DataSet {
	return c.dataset.Copy()
}

// UniqueStates returns the number of distinct states seen so far.
func (c *CoverageAnalyzer) UniqueStates() int {
	return len(c.states)
}

// CoverageComparator saves coverage datasets as JSON under savePath.
type CoverageComparator struct {
	savePath string
}

var _ core.Comparator = &CoverageComparator{}

func NewCoverageComparator(savePath string) *CoverageComparator {
	return &CoverageComparator{
		savePath: path.Join(savePath, "coverage.json"),
	}
}

func (c *CoverageComparator) Compare(names []string, datasets []core.DataSet) error {
	out := make(map[string]*coverageDataset)
	for i, name := range names {
		if ds, ok := datasets[i].(*coverageDataset); ok {
			out[name] = ds
		}
	}
	return util.SaveJson(c.savePath, out)
}
