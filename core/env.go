package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Environment is the lab being learnt. Every call is synchronous and may
// carry real-world latency, so implementations should honour ctx.
type Environment interface {
	StateCount() int
	ActionCount() int
	PerformAction(ctx context.Context, action int) error
	ReadCurrentState(ctx context.Context) (int, error)
	Action(action int) (Action, error)
	// States returns every state tuple in index order. The order must not
	// change for the lifetime of the environment.
	States() []State
}

type EnvironmentConstructor interface {
	// NewEnvironment resolves the environment named by the descriptor
	// (for example a thing description URL).
	NewEnvironment(descriptor string) (Environment, error)
}

// EnvironmentConstructorFunc adapts a function to EnvironmentConstructor.
type EnvironmentConstructorFunc func(string) (Environment, error)

func (f EnvironmentConstructorFunc) NewEnvironment(descriptor string) (Environment, error) {
	return f(descriptor)
}

// State is a discretized observation, e.g. per-zone light levels.
type State []int

func (s State) Hash() string {
	return joinInts(s, ",")
}

func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s State) Copy() State {
	out := make(State, len(s))
	copy(out, s)
	return out
}

func (s State) String() string {
	return "[" + joinInts(s, ", ") + "]"
}

// Action is an executable operation understood by the environment.
type Action struct {
	Tag         string
	PayloadTags []string
	Payload     []interface{}
}

func (a Action) Hash() string {
	return a.Tag + "(" + strings.Join(a.PayloadTags, ",") + ")=" + fmt.Sprint(a.Payload...)
}

func (a Action) Copy() Action {
	out := Action{
		Tag:         a.Tag,
		PayloadTags: make([]string, len(a.PayloadTags)),
		Payload:     make([]interface{}, len(a.Payload)),
	}
	copy(out.PayloadTags, a.PayloadTags)
	copy(out.Payload, a.Payload)
	return out
}

func joinInts(vals []int, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

type EpisodeContext struct {
	Context context.Context
	RunID   string
	Goal    Goal
	Episode int
	Horizon int

	Trace  *Trace
	Logger *slog.Logger
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type StepContext struct {
	Step  int
	State int
	*EpisodeContext
}
