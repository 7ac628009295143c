package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"diet-planner/internal/shared"
)

// ExecutionMetric is one recorded pipeline stage execution.
type ExecutionMetric struct {
	ID               int64
	Stage            string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMs        int64
	Timestamp        time.Time
}

// DailyUsage aggregates token consumption per model over a day.
type DailyUsage struct {
	Model            string
	Calls            int
	PromptTokens     int
	CompletionTokens int
}

// Store records pipeline execution metrics to the database.
type Store struct {
	db *sql.DB
}

// NewStore creates a new metrics Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts a single metric row.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO execution_metrics (stage, model, prompt_tokens, completion_tokens, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Stage, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMs, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record metric for stage %s: %w", m.Stage, err)
	}
	return nil
}

// RecordMeta records the metric carried by a generation result.
func (s *Store) RecordMeta(ctx context.Context, meta shared.GenerationMeta) error {
	return s.Record(ctx, ExecutionMetric{
		Stage:            meta.Stage,
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMs:        meta.Latency.Milliseconds(),
	})
}

// GetDailyUsage returns per-model token usage for the given day (UTC).
func (s *Store) GetDailyUsage(ctx context.Context, day time.Time) ([]DailyUsage, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	rows, err := s.db.QueryContext(ctx,
		`SELECT model, COUNT(*), COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(completion_tokens), 0)
		 FROM execution_metrics
		 WHERE timestamp >= ? AND timestamp < ? AND model != ''
		 GROUP BY model`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var usage []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.PromptTokens, &u.CompletionTokens); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// Cleanup deletes metric rows older than the retention window.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM execution_metrics WHERE timestamp < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
