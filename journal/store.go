// Package journal keeps a SQLite log of training runs: parameters,
// outcome and timing. Q values are never written.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zeu5/goal-qlearner/core"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
	run_id        TEXT PRIMARY KEY,
	goal_key      TEXT NOT NULL,
	episodes      INTEGER NOT NULL,
	alpha         REAL NOT NULL,
	gamma         REAL NOT NULL,
	epsilon       REAL NOT NULL,
	reward        REAL NOT NULL,
	episodes_run  INTEGER NOT NULL,
	total_steps   INTEGER NOT NULL,
	goal_reached  INTEGER NOT NULL,
	goal_episode  INTEGER,
	goal_step     INTEGER,
	error         TEXT,
	started_at    TEXT NOT NULL,
	finished_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_training_runs_goal ON training_runs(goal_key);
`

// fixed width so timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one journaled training run.
type Entry struct {
	RunID       string
	GoalKey     string
	Episodes    int
	Alpha       float64
	Gamma       float64
	Epsilon     float64
	Reward      float64
	EpisodesRun int
	TotalSteps  int
	GoalReached bool
	GoalEpisode sql.NullInt64
	GoalStep    sql.NullInt64
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Store manages the training journal in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Record writes a training result. Failed runs are recorded too.
func (s *Store) Record(ctx context.Context, r *core.TrainingResult) error {
	var goalEpisode, goalStep interface{}
	if r.GoalReached {
		goalEpisode = r.Episode
		goalStep = r.Step
	}
	var errText interface{}
	if r.Error != nil {
		errText = r.Error.Error()
	}
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO training_runs (run_id, goal_key, episodes, alpha, gamma, epsilon, reward,
			episodes_run, total_steps, goal_reached, goal_episode, goal_step, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.Goal.Key(),
		r.Params.Episodes,
		r.Params.Alpha,
		r.Params.Gamma,
		r.Params.Epsilon,
		r.Params.Reward,
		r.EpisodesRun,
		r.TotalSteps,
		boolToInt(r.GoalReached),
		goalEpisode,
		goalStep,
		errText,
		r.StartedAt.UTC().Format(timeLayout),
		finished.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx,
		`SELECT `+columns+` FROM training_runs ORDER BY started_at DESC LIMIT ?`, limit)
}

// ForGoal returns every run for a goal, oldest first.
func (s *Store) ForGoal(ctx context.Context, goal core.Goal) ([]Entry, error) {
	return s.query(ctx,
		`SELECT `+columns+` FROM training_runs WHERE goal_key = ? ORDER BY started_at ASC`, goal.Key())
}

const columns = `run_id, goal_key, episodes, alpha, gamma, epsilon, reward, episodes_run,
	total_steps, goal_reached, goal_episode, goal_step, error, started_at, finished_at`

func (s *Store) query(ctx context.Context, q string, args ...interface{}) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var reached int
		var errText sql.NullString
		var started, finished string
		if err := rows.Scan(&e.RunID, &e.GoalKey, &e.Episodes, &e.Alpha, &e.Gamma, &e.Epsilon, &e.Reward,
			&e.EpisodesRun, &e.TotalSteps, &reached, &e.GoalEpisode, &e.GoalStep, &errText, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.GoalReached = reached != 0
		e.Error = errText.String
		if e.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if e.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
