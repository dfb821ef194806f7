package core

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// QTable is a dense states x actions value matrix for a single goal.
// It is mutated only by the Trainer that created it.
type QTable struct {
	m *mat.Dense
}

// NewQTable returns a zero table. Both dimensions must be positive.
func NewQTable(states, actions int) (*QTable, error) {
	if states <= 0 || actions <= 0 {
		return nil, ErrEmptySpace
	}
	return &QTable{m: mat.NewDense(states, actions, nil)}, nil
}

func (q *QTable) Dims() (int, int) {
	return q.m.Dims()
}

func (q *QTable) Get(state, action int) float64 {
	return q.m.At(state, action)
}

func (q *QTable) Set(state, action int, val float64) {
	q.m.Set(state, action, val)
}

// Row returns a copy of the action values of a state.
func (q *QTable) Row(state int) []float64 {
	_, c := q.m.Dims()
	return mat.Row(make([]float64, c), state, q.m)
}

// Max returns the largest action value of a state.
func (q *QTable) Max(state int) float64 {
	return floats.Max(q.m.RawRowView(state))
}

// ArgMax returns the greedy action of a state. Ties resolve to the lowest
// action index.
func (q *QTable) ArgMax(state int) int {
	return floats.MaxIdx(q.m.RawRowView(state))
}

// Update applies the one-step temporal-difference rule to (state, action)
// and returns the new value.
func (q *QTable) Update(state, action, next int, reward, alpha, gamma float64) float64 {
	cur := q.Get(state, action)
	val := cur + alpha*(reward+gamma*q.Max(next)-cur)
	q.Set(state, action, val)
	return val
}

func (q *QTable) Copy() *QTable {
	return &QTable{m: mat.DenseCopyOf(q.m)}
}

func (q *QTable) Equal(other *QTable) bool {
	return mat.Equal(q.m, other.m)
}

// IsZero reports whether every entry is zero.
func (q *QTable) IsZero() bool {
	r, _ := q.m.Dims()
	for i := 0; i < r; i++ {
		for _, v := range q.m.RawRowView(i) {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// Dump writes the table one state per line. With colors enabled the
// greedy cell of every non-zero row is highlighted.
func (q *QTable) Dump(w io.Writer, colors bool) error {
	au := aurora.NewAurora(colors)
	r, c := q.m.Dims()
	if _, err := fmt.Fprintln(w, "Q matrix"); err != nil {
		return err
	}
	for i := 0; i < r; i++ {
		row := q.m.RawRowView(i)
		best := -1
		if floats.Max(row) != 0 || floats.Min(row) != 0 {
			best = floats.MaxIdx(row)
		}
		if _, err := fmt.Fprintf(w, "From state %d:  ", i); err != nil {
			return err
		}
		for j := 0; j < c; j++ {
			var cell interface{} = fmt.Sprintf("%6.2f ", row[j])
			if j == best {
				cell = au.Green(cell)
			}
			if _, err := fmt.Fprint(w, cell); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
