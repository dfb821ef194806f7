package analysis

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/goal-qlearner/core"
)

type labelledTable struct {
	goal    string
	table   *core.QTable
	states  []string
	actions []string
}

// ChartComparator renders coverage datasets as line charts and trained
// tables as heatmaps into a single HTML page.
type ChartComparator struct {
	savePath string
	tables   []labelledTable
}

var _ core.Comparator = &ChartComparator{}

func NewChartComparator(savePath string) *ChartComparator {
	return &ChartComparator{
		savePath: path.Join(savePath, "charts.html"),
		tables:   make([]labelledTable, 0),
	}
}

// AddQTable queues a table to be drawn as a heatmap.
func (c *ChartComparator) AddQTable(goal string, q *core.QTable, states, actions []string) {
	c.tables = append(c.tables, labelledTable{goal: goal, table: q, states: states, actions: actions})
}

func (c *ChartComparator) Compare(names []string, datasets []core.DataSet) error {
	page := components.NewPage()
	page.PageTitle = "Q-learning"

	for i, name := range names {
		ds, ok := datasets[i].(*coverageDataset)
		if !ok || len(ds.Timesteps) == 0 {
			continue
		}
		page.AddCharts(coverageChart(name, ds))
	}

	sort.Slice(c.tables, func(i, j int) bool { return c.tables[i].goal < c.tables[j].goal })
	for _, t := range c.tables {
		page.AddCharts(qTableChart(t))
	}

	if err := os.MkdirAll(path.Dir(c.savePath), 0755); err != nil {
		return err
	}
	f, err := os.Create(c.savePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func coverageChart(name string, ds *coverageDataset) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "State coverage",
			Subtitle: name,
		}),
	)

	steps := make([]string, len(ds.Timesteps))
	items := make([]opts.LineData, len(ds.UniqueStates))
	for i := range ds.Timesteps {
		steps[i] = fmt.Sprintf("%d (%s)", ds.Timesteps[i], ds.Goals[i])
		items[i] = opts.LineData{Value: ds.UniqueStates[i]}
	}
	line.SetXAxis(steps).AddSeries("unique states", items)
	return line
}

func qTableChart(t labelledTable) *charts.HeatMap {
	rows, cols := t.table.Dims()
	items := make([]opts.HeatMapData, 0, rows*cols)
	lo, hi := 0.0, 0.0
	for s := 0; s < rows; s++ {
		for a := 0; a < cols; a++ {
			v := t.table.Get(s, a)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			items = append(items, opts.HeatMapData{Value: [3]interface{}{a, s, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Q table",
			Subtitle: "goal " + t.goal,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Data: t.actions,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: t.states,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: float32(lo),
			Max: float32(hi),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#50a3ba", "#eac736", "#d94e5d"},
			},
		}),
	)
	hm.AddSeries("q", items)
	return hm
}
