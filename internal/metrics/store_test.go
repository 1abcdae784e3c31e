package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mealmind/internal/database"
	"mealmind/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func TestRecordAndDailyUsage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Record(ctx, ExecutionMetric{
		AgentName:        "RecipeGenerator",
		Model:            "gemini-2.0-flash",
		PromptTokens:     120,
		CompletionTokens: 80,
		TotalTokens:      200,
		LatencyMS:        450,
		Success:          true,
	})
	if err != nil {
		t.Fatalf("Failed to record metric: %v", err)
	}

	usage, err := store.GetDailyUsage(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get daily usage: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 day of usage, got %d", len(usage))
	}
	if usage[0].TotalPrompt != 120 || usage[0].TotalCompletion != 80 {
		t.Errorf("Expected 120/80 tokens, got %d/%d", usage[0].TotalPrompt, usage[0].TotalCompletion)
	}
	if usage[0].TotalExecution != 1 {
		t.Errorf("Expected 1 execution, got %d", usage[0].TotalExecution)
	}
}

func TestRecordMetaSkipsZeroUsage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// The deterministic fallback generator reports no token usage.
	err := store.RecordMeta(ctx, shared.AgentMeta{AgentName: "FallbackSource"})
	if err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}

	usage, err := store.GetDailyUsage(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get daily usage: %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("Expected no recorded usage, got %v", usage)
	}
}

func TestRecordMeta(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.RecordMeta(ctx, shared.AgentMeta{
		AgentName: "RecipeGenerator",
		Usage: shared.TokenUsage{
			PromptTokens:     50,
			CompletionTokens: 30,
			TotalTokens:      80,
			Model:            "llama-3.3-70b-versatile",
		},
		Latency: 300 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}

	usage, err := store.GetDailyUsage(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get daily usage: %v", err)
	}
	if len(usage) != 1 || usage[0].TotalPrompt != 50 {
		t.Errorf("Expected the meta recorded, got %v", usage)
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := ExecutionMetric{
		AgentName:    "RecipeGenerator",
		Model:        "gemini-2.0-flash",
		PromptTokens: 10,
		TotalTokens:  10,
		Success:      true,
		Timestamp:    time.Now().AddDate(0, 0, -60),
	}
	if err := store.Record(ctx, old); err != nil {
		t.Fatalf("Failed to record old metric: %v", err)
	}

	if err := store.Cleanup(ctx, 30); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	usage, err := store.GetDailyUsage(ctx, 90)
	if err != nil {
		t.Fatalf("Failed to get daily usage: %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("Expected old metrics removed, got %v", usage)
	}
}
