package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// Progress receives a one-line status while training runs.
type Progress interface {
	Set(string)
}

// Trainer learns one Q table per CalculateQ call and stores it in the
// registry. It drives a shared environment and must not be used by two
// goroutines at once.
type Trainer struct {
	env      Environment
	space    *StateSpace
	catalog  *ActionCatalog
	registry *GoalRegistry
	policy   PolicyConstructor
	config   *RunConfig

	logger    *slog.Logger
	progress  Progress
	dump      io.Writer
	colors    bool
	analyzers map[string]Analyzer
}

func NewTrainer(env Environment, space *StateSpace, catalog *ActionCatalog, registry *GoalRegistry, policy PolicyConstructor, config *RunConfig) *Trainer {
	if config == nil {
		config = &RunConfig{}
	}
	return &Trainer{
		env:       env,
		space:     space,
		catalog:   catalog,
		registry:  registry,
		policy:    policy,
		config:    config,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		analyzers: make(map[string]Analyzer),
	}
}

func (t *Trainer) SetLogger(l *slog.Logger) {
	if l != nil {
		t.logger = l
	}
}

func (t *Trainer) SetProgress(p Progress) {
	t.progress = p
}

// SetDump makes the trainer write every stored table to w.
func (t *Trainer) SetDump(w io.Writer, colors bool) {
	t.dump = w
	t.colors = colors
}

func (t *Trainer) AddAnalyzer(name string, a Analyzer) {
	t.analyzers[name] = a
}

func (t *Trainer) Analyzers() map[string]Analyzer {
	return t.analyzers
}

// CalculateQ trains a fresh table against params.Goal. Training stops
// when the episode budget is spent or, for the whole call, as soon as the
// goal is reached; either way the table is stored. On error nothing is
// stored and the registry keeps whatever it had for the goal.
func (t *Trainer) CalculateQ(ctx context.Context, params TrainParams) (*TrainingResult, error) {
	result := &TrainingResult{
		RunID:     uuid.NewString(),
		Goal:      params.Goal,
		Params:    params,
		StartedAt: time.Now().UTC(),
	}
	fail := func(err error) (*TrainingResult, error) {
		result.Error = err
		result.FinishedAt = time.Now().UTC()
		t.logger.Error("training aborted", "run", result.RunID, "goal", params.Goal.Key(), "err", err)
		return result, err
	}

	if err := params.Validate(); err != nil {
		return fail(err)
	}
	if !t.space.HasGoal(params.Goal) {
		return fail(fmt.Errorf("%w: goal %s matches no state", ErrConfiguration, params.Goal.Key()))
	}

	qTable, err := NewQTable(t.space.Size(), t.catalog.Size())
	if err != nil {
		return fail(err)
	}

	src := t.newSource()
	rnd := rand.New(src)
	policy := t.policy.NewPolicy(&params, src)
	policy.Reset()

	horizon := t.space.Size()
	if t.config.MaxSteps > 0 {
		horizon = t.config.MaxSteps
	}
	trace := NewTrace()
	actions := t.catalog.Size()

	t.logger.Info("training started",
		"run", result.RunID, "goal", params.Goal.Key(), "episodes", params.Episodes,
		"alpha", params.Alpha, "gamma", params.Gamma, "epsilon", params.Epsilon, "reward", params.Reward)

EpisodeLoop:
	for episode := 0; episode < params.Episodes; episode++ {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrActionExecution, err))
		}
		eCtx := NewEpisodeContext(ctx)
		eCtx.RunID = result.RunID
		eCtx.Goal = params.Goal
		eCtx.Episode = episode
		eCtx.Horizon = horizon
		eCtx.Trace = trace
		eCtx.Logger = t.logger

		// A random opening action moves the lab away from wherever the
		// previous episode ended.
		warmUp := rnd.Intn(actions)
		if err := t.performAction(ctx, warmUp); err != nil {
			return fail(err)
		}
		current, err := t.readCurrentState(ctx)
		if err != nil {
			return fail(err)
		}
		trace.AddStep(&Step{Episode: episode, State: -1, Action: warmUp, NextState: current, WarmUp: true})
		result.EpisodesRun++

		for step := 0; step < horizon; step++ {
			sCtx := &StepContext{Step: step, State: current, EpisodeContext: eCtx}
			action := policy.PickAction(sCtx, qTable.Row(current))

			if err := t.performAction(ctx, action); err != nil {
				return fail(err)
			}
			next, err := t.readCurrentState(ctx)
			if err != nil {
				return fail(err)
			}
			nextState, _ := t.space.Describe(next)

			reached := IsGoalAchieved(nextState, params.Goal)
			reward := 0.0
			if reached {
				reward = params.Reward
			}
			qTable.Update(current, action, next, reward, params.Alpha, params.Gamma)
			trace.AddStep(&Step{Episode: episode, State: current, Action: action, NextState: next, Reward: reward})
			result.TotalSteps++
			current = next

			t.logger.Debug("current state", "run", result.RunID, "state", nextState.String())
			if t.progress != nil {
				t.progress.Set(fmt.Sprintf(
					"Goal: %s, Episode: %d/%d, Step: %d/%d, State: %s",
					params.Goal.Key(), episode+1, params.Episodes, step+1, horizon, nextState,
				))
			}

			if reached {
				result.GoalReached = true
				result.Episode = episode
				result.Step = step
				t.logger.Info("goal state achieved", "run", result.RunID, "goal", params.Goal.Key(), "episode", episode, "iteration", step)
				break EpisodeLoop
			}
		}
	}

	t.registry.Store(params.Goal, qTable)
	result.FinishedAt = time.Now().UTC()
	t.logger.Info("training finished",
		"run", result.RunID, "goal", params.Goal.Key(), "episodes_run", result.EpisodesRun,
		"steps", result.TotalSteps, "goal_reached", result.GoalReached)

	if t.dump != nil {
		if err := qTable.Dump(t.dump, t.colors); err != nil {
			t.logger.Warn("q table dump failed", "err", err)
		}
	}
	for _, a := range t.analyzers {
		a.Analyze(result, trace)
	}
	return result, nil
}

// CurrentState reads the environment's state and describes it.
func (t *Trainer) CurrentState(ctx context.Context) (State, error) {
	i, err := t.readCurrentState(ctx)
	if err != nil {
		return nil, err
	}
	return t.space.Describe(i)
}

func (t *Trainer) newSource() rand.Source {
	seed := t.config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewSource(seed)
}

func (t *Trainer) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.config.StepTimeout > 0 {
		return context.WithTimeout(ctx, t.config.StepTimeout)
	}
	return context.WithCancel(ctx)
}

func (t *Trainer) performAction(ctx context.Context, action int) error {
	cCtx, cancel := t.callContext(ctx)
	defer cancel()
	if err := t.env.PerformAction(cCtx, action); err != nil {
		return fmt.Errorf("%w: action %d: %w", ErrActionExecution, action, err)
	}
	return nil
}

func (t *Trainer) readCurrentState(ctx context.Context) (int, error) {
	cCtx, cancel := t.callContext(ctx)
	defer cancel()
	i, err := t.env.ReadCurrentState(cCtx)
	if err != nil {
		return -1, fmt.Errorf("%w: reading state: %w", ErrActionExecution, err)
	}
	if i < 0 || i >= t.space.Size() {
		return -1, fmt.Errorf("%w: environment reported state index %d outside [0, %d)", ErrUnknownState, i, t.space.Size())
	}
	return i, nil
}
