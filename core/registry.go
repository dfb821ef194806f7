package core

import (
	"fmt"
	"sort"
	"sync"
)

// GoalRegistry maps goal keys to trained Q tables. Tables are stored as
// private copies and handed out read-only.
type GoalRegistry struct {
	mtx    *sync.RWMutex
	tables map[string]*QTable
}

func NewGoalRegistry() *GoalRegistry {
	return &GoalRegistry{
		mtx:    new(sync.RWMutex),
		tables: make(map[string]*QTable),
	}
}

// Store inserts or overwrites the table for goal.
func (r *GoalRegistry) Store(goal Goal, q *QTable) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.tables[goal.Key()] = q.Copy()
}

// Lookup returns the table for goal. Callers must not mutate it.
func (r *GoalRegistry) Lookup(goal Goal) (*QTable, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	q, ok := r.tables[goal.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGoalNotTrained, goal.Key())
	}
	return q, nil
}

func (r *GoalRegistry) Has(goal Goal) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	_, ok := r.tables[goal.Key()]
	return ok
}

func (r *GoalRegistry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.tables)
}

// Goals returns the trained goal keys in sorted order.
func (r *GoalRegistry) Goals() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	out := make([]string, 0, len(r.tables))
	for k := range r.tables {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
