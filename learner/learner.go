// Package learner is the typed call boundary around the Q-learning core.
// A Learner owns the state space, action catalog and goal registry of one
// environment, trains goals one at a time and answers greedy action
// queries for trained goals.
package learner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/zeu5/goal-qlearner/core"
	"github.com/zeu5/goal-qlearner/policies"
)

// DefaultGoal is the goal IsGoalStateAchieved checks against. It is
// independent of the goals passed to CalculateQ.
var DefaultGoal = core.Goal{2, 3}

// Journal records the outcome of every training call.
type Journal interface {
	Record(context.Context, *core.TrainingResult) error
}

type options struct {
	logger      *slog.Logger
	runConfig   *core.RunConfig
	policy      core.PolicyConstructor
	defaultGoal core.Goal
	dump        io.Writer
	colors      bool
	progress    core.Progress
	journal     Journal
	analyzers   map[string]core.Analyzer
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithRunConfig(c *core.RunConfig) Option {
	return func(o *options) { o.runConfig = c }
}

// WithPolicy replaces epsilon-greedy exploration.
func WithPolicy(p core.PolicyConstructor) Option {
	return func(o *options) { o.policy = p }
}

func WithDefaultGoal(g core.Goal) Option {
	return func(o *options) { o.defaultGoal = g }
}

// WithDump writes every trained table to w.
func WithDump(w io.Writer, colors bool) Option {
	return func(o *options) {
		o.dump = w
		o.colors = colors
	}
}

func WithProgress(p core.Progress) Option {
	return func(o *options) { o.progress = p }
}

func WithJournal(j Journal) Option {
	return func(o *options) { o.journal = j }
}

func WithAnalyzer(name string, a core.Analyzer) Option {
	return func(o *options) { o.analyzers[name] = a }
}

type Learner struct {
	// serializes training calls, the environment is shared state
	trainMtx *sync.Mutex

	env      core.Environment
	space    *core.StateSpace
	catalog  *core.ActionCatalog
	registry *core.GoalRegistry
	trainer  *core.Trainer
	server   *PolicyServer

	defaultGoal core.Goal
	journal     Journal
	logger      *slog.Logger
}

// Init resolves the environment for descriptor and builds a Learner on it.
func Init(constructor core.EnvironmentConstructor, descriptor string, opts ...Option) (*Learner, error) {
	env, err := constructor.NewEnvironment(descriptor)
	if err != nil {
		return nil, fmt.Errorf("init %q: %w", descriptor, err)
	}
	return New(env, opts...)
}

// New enumerates the state and action spaces of env once. They stay
// fixed for the lifetime of the Learner.
func New(env core.Environment, opts ...Option) (*Learner, error) {
	o := &options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		runConfig:   &core.RunConfig{},
		policy:      policies.NewEGreedyConstructor(),
		defaultGoal: DefaultGoal,
		analyzers:   make(map[string]core.Analyzer),
	}
	for _, opt := range opts {
		opt(o)
	}

	space, err := core.NewStateSpaceFromEnvironment(env)
	if err != nil {
		return nil, err
	}
	o.logger.Info("initialized state space", "n", space.Size())

	catalog, err := core.NewActionCatalogFromEnvironment(env)
	if err != nil {
		return nil, err
	}
	o.logger.Info("initialized action space", "m", catalog.Size())

	registry := core.NewGoalRegistry()
	trainer := core.NewTrainer(env, space, catalog, registry, o.policy, o.runConfig)
	trainer.SetLogger(o.logger)
	trainer.SetProgress(o.progress)
	if o.dump != nil {
		trainer.SetDump(o.dump, o.colors)
	}
	for name, a := range o.analyzers {
		trainer.AddAnalyzer(name, a)
	}

	return &Learner{
		trainMtx:    new(sync.Mutex),
		env:         env,
		space:       space,
		catalog:     catalog,
		registry:    registry,
		trainer:     trainer,
		server:      NewPolicyServer(space, catalog, registry),
		defaultGoal: o.defaultGoal,
		journal:     o.journal,
		logger:      o.logger,
	}, nil
}

// CalculateQ trains params.Goal and stores the table in the registry,
// overwriting any previous table for the same goal. Calls are serialized.
func (l *Learner) CalculateQ(ctx context.Context, params core.TrainParams) (*core.TrainingResult, error) {
	l.trainMtx.Lock()
	defer l.trainMtx.Unlock()

	result, err := l.trainer.CalculateQ(ctx, params)
	if l.journal != nil && result != nil {
		// a cancelled call is still journaled
		if jErr := l.journal.Record(context.WithoutCancel(ctx), result); jErr != nil {
			l.logger.Warn("journal record failed", "run", result.RunID, "err", jErr)
		}
	}
	return result, err
}

func (l *Learner) GetActionFromState(goal core.Goal, state core.State) (Recommendation, error) {
	return l.server.GetActionFromState(goal, state)
}

// GetCurrentLabState reads the environment's state and describes it.
func (l *Learner) GetCurrentLabState(ctx context.Context) (core.State, error) {
	return l.trainer.CurrentState(ctx)
}

func (l *Learner) GetRelevantElementsFromState(state core.State) (int, int, error) {
	return core.Relevant(state)
}

// IsGoalStateAchieved checks state against the learner's default goal,
// never against a goal passed to CalculateQ.
func (l *Learner) IsGoalStateAchieved(state core.State) bool {
	return core.IsGoalAchieved(state, l.defaultGoal)
}

func (l *Learner) DefaultGoal() core.Goal {
	return l.defaultGoal
}

func (l *Learner) Registry() *core.GoalRegistry {
	return l.registry
}

func (l *Learner) StateSpace() *core.StateSpace {
	return l.space
}

func (l *Learner) Catalog() *core.ActionCatalog {
	return l.catalog
}

func (l *Learner) Analyzers() map[string]core.Analyzer {
	return l.trainer.Analyzers()
}
