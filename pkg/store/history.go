package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/bendable/pkg/score"
)

const (
	listLimitDefault = 100

	insertScoreSQL = `INSERT INTO score (run, hard_levels, soft_levels, init_score, feasible, value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	selectRunShapeSQL = `SELECT hard_levels, soft_levels FROM score WHERE run = ? LIMIT 1`

	selectRunScoresSQL = `SELECT id, run, value, feasible, created_at
		FROM score
		WHERE run = ?
		ORDER BY id
	`

	selectFeasibleRunScoresSQL = `SELECT id, run, value, feasible, created_at
		FROM score
		WHERE run = ? AND feasible = ?
		ORDER BY id
	`

	selectRecentScoresSQL = `SELECT id, run, value, feasible, created_at
		FROM score
		WHERE run = ?
		ORDER BY id DESC
		LIMIT ?
	`

	selectRunsSQL = `SELECT run, COUNT(*), MAX(hard_levels), MAX(soft_levels)
		FROM score
		GROUP BY run
		ORDER BY run
	`

	deleteRunSQL = `DELETE FROM score WHERE run = ?`
)

// Entry is one recorded score.
type Entry struct {
	ID        int64          `json:"id" yaml:"id"`
	Run       string         `json:"run" yaml:"run"`
	Score     score.Bendable `json:"score" yaml:"score"`
	Feasible  bool           `json:"feasible" yaml:"feasible"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// RunSummary describes the recorded history of one run.
type RunSummary struct {
	Run        string `json:"run" yaml:"run"`
	Count      int64  `json:"count" yaml:"count"`
	HardLevels int    `json:"hard_levels" yaml:"hard_levels"`
	SoftLevels int    `json:"soft_levels" yaml:"soft_levels"`
}

// Record appends sc to the run history. All scores of a run must be compatible.
func (s *Store) Record(ctx context.Context, run string, sc score.Bendable) (*Entry, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}
	if run == "" {
		return nil, errors.New("run required")
	}

	var hard, soft int
	err := s.db.QueryRowContext(ctx, s.rebind(selectRunShapeSQL), run).Scan(&hard, &soft)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to read shape of run %s: %w", run, err)
	default:
		if err := score.ValidateCompatible(score.Zero(hard, soft), sc); err != nil {
			return nil, fmt.Errorf("run %s: %w", run, err)
		}
	}

	e := &Entry{
		Run:       run,
		Score:     sc,
		Feasible:  sc.IsFeasible(),
		CreatedAt: time.Now().UTC(),
	}
	err = s.db.QueryRowContext(ctx, s.rebind(insertScoreSQL),
		run, sc.HardLevelsCount(), sc.SoftLevelsCount(), sc.InitScore(), e.Feasible, sc, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert score: %w", err)
	}

	slog.Debug("score recorded", "run", run, "id", e.ID, "score", sc.ShortString())
	return e, nil
}

// Best returns the highest score recorded for the run.
func (s *Store) Best(ctx context.Context, run string, feasibleOnly bool) (*Entry, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}

	var rows *sql.Rows
	var err error
	if feasibleOnly {
		rows, err = s.db.QueryContext(ctx, s.rebind(selectFeasibleRunScoresSQL), run, true)
	} else {
		rows, err = s.db.QueryContext(ctx, s.rebind(selectRunScoresSQL), run)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scores of run %s: %w", run, err)
	}
	defer rows.Close()

	var best *Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if best == nil {
			best = e
			continue
		}
		c, err := e.Score.Compare(best.Score)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", run, err)
		}
		if c > 0 {
			best = e
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	if best == nil {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, run)
	}
	return best, nil
}

// List returns the most recent scores of the run, newest first.
func (s *Store) List(ctx context.Context, run string, limit int) ([]*Entry, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = listLimitDefault
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(selectRecentScoresSQL), run, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores of run %s: %w", run, err)
	}
	defer rows.Close()

	list := make([]*Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	return list, nil
}

// Runs summarizes every run in the store.
func (s *Store) Runs(ctx context.Context) ([]*RunSummary, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	list := make([]*RunSummary, 0)
	for rows.Next() {
		r := &RunSummary{}
		if err := rows.Scan(&r.Run, &r.Count, &r.HardLevels, &r.SoftLevels); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return list, nil
}

// Reset deletes the history of the run and returns the number of deleted scores.
func (s *Store) Reset(ctx context.Context, run string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errDBNotInitialized
	}
	if run == "" {
		return 0, errors.New("run required")
	}

	res, err := s.db.ExecContext(ctx, s.rebind(deleteRunSQL), run)
	if err != nil {
		return 0, fmt.Errorf("failed to delete run %s: %w", run, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	slog.Debug("run reset", "run", run, "deleted", n)
	return n, nil
}

func scanEntry(rows *sql.Rows) (*Entry, error) {
	e := &Entry{}
	if err := rows.Scan(&e.ID, &e.Run, &e.Score, &e.Feasible, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan score: %w", err)
	}
	return e, nil
}
