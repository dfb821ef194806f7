// Package envstub provides a scripted core.Environment. Transitions are a
// caller-supplied function of (state, action), which makes training runs
// reproducible in tests and in the CLI demo.
package envstub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zeu5/goal-qlearner/core"
)

// TransitionFunc returns the next state index for (state, action).
type TransitionFunc func(state, action int) int

type Lab struct {
	mtx        *sync.Mutex
	states     []core.State
	actions    []core.Action
	transition TransitionFunc
	initial    int
	current    int

	failures map[int]error
	delay    time.Duration

	performed []int
}

var _ core.Environment = &Lab{}

func New(states []core.State, actions []core.Action, transition TransitionFunc, initial int) *Lab {
	return &Lab{
		mtx:        new(sync.Mutex),
		states:     states,
		actions:    actions,
		transition: transition,
		initial:    initial,
		current:    initial,
		failures:   make(map[int]error),
		performed:  make([]int, 0),
	}
}

// FailOn makes every execution of action return err.
func (l *Lab) FailOn(action int, err error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.failures[action] = err
}

// SetDelay makes every environment call take d, or less if the context
// ends first.
func (l *Lab) SetDelay(d time.Duration) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.delay = d
}

// Reset returns the lab to its initial state and forgets history.
func (l *Lab) Reset() {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.current = l.initial
	l.performed = make([]int, 0)
}

// SetState forces the current state.
func (l *Lab) SetState(i int) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.current = i
}

// Performed returns the executed actions in order.
func (l *Lab) Performed() []int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	out := make([]int, len(l.performed))
	copy(out, l.performed)
	return out
}

func (l *Lab) StateCount() int {
	return len(l.states)
}

func (l *Lab) ActionCount() int {
	return len(l.actions)
}

func (l *Lab) States() []core.State {
	out := make([]core.State, len(l.states))
	for i, s := range l.states {
		out[i] = s.Copy()
	}
	return out
}

func (l *Lab) Action(i int) (core.Action, error) {
	if i < 0 || i >= len(l.actions) {
		return core.Action{}, fmt.Errorf("no action %d", i)
	}
	return l.actions[i].Copy(), nil
}

func (l *Lab) PerformAction(ctx context.Context, action int) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if action < 0 || action >= len(l.actions) {
		return fmt.Errorf("no action %d", action)
	}
	if err, ok := l.failures[action]; ok {
		return err
	}
	l.performed = append(l.performed, action)
	l.current = l.transition(l.current, action)
	return nil
}

func (l *Lab) ReadCurrentState(ctx context.Context) (int, error) {
	if err := l.wait(ctx); err != nil {
		return -1, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.current, nil
}

func (l *Lab) wait(ctx context.Context) error {
	l.mtx.Lock()
	d := l.delay
	l.mtx.Unlock()
	if d == 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
