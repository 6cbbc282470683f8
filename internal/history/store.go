package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acoustix/devctl/internal/pipeline"
)

// Outcome values stored per run.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RunRecord is one pipeline invocation as stored in the history database.
type RunRecord struct {
	ID               string       `json:"id"`
	Pipeline         string       `json:"pipeline"`
	Outcome          string       `json:"outcome"`
	RequirementsHash string       `json:"requirements_hash,omitempty"`
	Started          time.Time    `json:"started"`
	Finished         time.Time    `json:"finished"`
	Steps            []StepRecord `json:"steps"`
}

// StepRecord is one step outcome within a run.
type StepRecord struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ms"`
}

// NewRecord converts an executed pipeline result into a storable record.
func NewRecord(res *pipeline.Result, requirementsHash string) RunRecord {
	rec := RunRecord{
		ID:               uuid.NewString(),
		Pipeline:         res.Pipeline,
		Outcome:          OutcomeSuccess,
		RequirementsHash: requirementsHash,
		Started:          res.Started,
		Finished:         res.Finished,
	}
	if res.Failed() {
		rec.Outcome = OutcomeFailure
	}
	for _, s := range res.Steps {
		sr := StepRecord{
			Name:     s.Name,
			Status:   string(s.Status),
			Duration: s.Duration,
		}
		if s.Err != nil {
			sr.Error = s.Err.Error()
		}
		rec.Steps = append(rec.Steps, sr)
	}
	return rec
}

// Store reads and writes run records.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an open history database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record persists a run and its step outcomes in one transaction.
func (s *Store) Record(ctx context.Context, rec RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, pipeline, outcome, requirements_hash, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Pipeline, rec.Outcome, rec.RequirementsHash,
		rec.Started.UTC().Format(time.RFC3339Nano),
		rec.Finished.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, step := range rec.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_steps (run_id, position, name, status, error, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, i, step.Name, step.Status, step.Error, step.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert step %s: %w", step.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first, with their steps.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pipeline, outcome, requirements_hash, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var hash sql.NullString
		var started, finished string
		if err := rows.Scan(&rec.ID, &rec.Pipeline, &rec.Outcome, &hash, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.RequirementsHash = hash.String
		rec.Started, _ = time.Parse(time.RFC3339Nano, started)
		rec.Finished, _ = time.Parse(time.RFC3339Nano, finished)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range recs {
		steps, err := s.loadSteps(ctx, recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].Steps = steps
	}
	return recs, nil
}

// LastFingerprint returns the requirements fingerprint of the most recent
// successful run of the named pipeline, or "" when there is none.
func (s *Store) LastFingerprint(ctx context.Context, pipelineName string) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT requirements_hash FROM runs
		 WHERE pipeline = ? AND outcome = ?
		 ORDER BY started_at DESC LIMIT 1`,
		pipelineName, OutcomeSuccess,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last fingerprint: %w", err)
	}
	return hash.String, nil
}

func (s *Store) loadSteps(ctx context.Context, runID string) ([]StepRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, status, error, duration_ms FROM run_steps
		 WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var step StepRecord
		var errMsg sql.NullString
		var durationMS int64
		if err := rows.Scan(&step.Name, &step.Status, &errMsg, &durationMS); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		step.Error = errMsg.String
		step.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, step)
	}
	return steps, rows.Err()
}
