package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diet-planner/internal/database"
	"diet-planner/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestStoreDailyUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.RecordMeta(ctx, shared.GenerationMeta{
		Stage:   "plan",
		Usage:   shared.TokenUsage{PromptTokens: 900, CompletionTokens: 1200, Model: "gemini-2.0-flash"},
		Latency: 3 * time.Second,
	}))
	require.NoError(t, s.RecordMeta(ctx, shared.GenerationMeta{
		Stage: "recipe",
		Usage: shared.TokenUsage{PromptTokens: 300, CompletionTokens: 400, Model: "gemini-2.0-flash"},
	}))
	// Fallback runs carry no model; they must not show up in usage.
	require.NoError(t, s.RecordMeta(ctx, shared.GenerationMeta{Stage: "fallback"}))

	usage, err := s.GetDailyUsage(ctx, now)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, DailyUsage{
		Model:            "gemini-2.0-flash",
		Calls:            2,
		PromptTokens:     1200,
		CompletionTokens: 1600,
	}, usage[0])

	// A different day reports nothing.
	empty, err := s.GetDailyUsage(ctx, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStoreCleanup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, ExecutionMetric{
		Stage:     "plan",
		Model:     "gemini-2.0-flash",
		Timestamp: time.Now().UTC().AddDate(0, 0, -40),
	}))
	require.NoError(t, s.Record(ctx, ExecutionMetric{
		Stage: "plan",
		Model: "gemini-2.0-flash",
	}))

	deleted, err := s.Cleanup(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	usage, err := s.GetDailyUsage(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].Calls)
}
