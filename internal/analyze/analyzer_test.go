package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JRhoadhouse/TwitterExercise/internal/emoji"
	"github.com/JRhoadhouse/TwitterExercise/internal/observability"
	"github.com/JRhoadhouse/TwitterExercise/internal/queue"
	"github.com/JRhoadhouse/TwitterExercise/internal/store"
)

var symbols = []emoji.Symbol{
	{Name: "HEAVY BLACK HEART", Unified: "2764-FE0F", NonQualified: "2764", Literal: "❤"},
}

func newAnalyzer() *Analyzer {
	return New(symbols, time.Millisecond, slog.Default(), observability.NewMetricsForTesting())
}

func rawMessage(id string, createdAt time.Time) string {
	return fmt.Sprintf(
		`{"data":{"id":%q,"text":"hello ❤ #tag","created_at":%q,"entities":{"hashtags":[{"tag":"tag"}]}}}`,
		id, createdAt.Format(time.RFC3339))
}

func waitForDrain(t *testing.T, q queue.RawQueue) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for q.Size() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("queue not drained before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAnalyzer_DrainsQueueSkippingMalformed(t *testing.T) {
	q := queue.NewMemory(slog.Default())
	ds := store.NewSync()

	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	q.Enqueue(rawMessage("1", base))
	q.Enqueue("{malformed json")
	q.Enqueue(rawMessage("2", base.Add(30*time.Minute)))
	q.Enqueue(rawMessage("3", base.Add(time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	done := newAnalyzer().Start(ctx, q, ds)

	waitForDrain(t, q)
	cancel()
	require.NoError(t, <-done)

	snap := ds.Snapshot()
	assert.Len(t, snap, 3)
	for _, rec := range snap {
		assert.Contains(t, []string{"1", "2", "3"}, rec.ID)
		assert.Equal(t, []string{"tag"}, rec.Hashtags)
		require.Len(t, rec.Emojis, 1)
		assert.Equal(t, "2764-FE0F", rec.Emojis[0].Unified)
	}
}

func TestAnalyzer_StartIsNonBlocking(t *testing.T) {
	q := queue.NewMemory(slog.Default())
	ds := store.NewSync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	began := time.Now()
	done := newAnalyzer().Start(ctx, q, ds)
	assert.Less(t, time.Since(began), 100*time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("analyzer exited prematurely: %v", err)
	default:
	}

	cancel()
	require.NoError(t, <-done)
}

func TestAnalyzer_DrainsBacklogAfterCancellation(t *testing.T) {
	q := queue.NewMemory(slog.Default())
	ds := store.NewSync()

	base := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)
	const n = 50
	for i := 0; i < n; i++ {
		q.Enqueue(rawMessage(fmt.Sprintf("%d", i), base.Add(time.Duration(i)*time.Second)))
	}

	// Cancel before the analyzer starts: every queued item must still be
	// processed before the loop exits.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := newAnalyzer().Start(ctx, q, ds)
	require.NoError(t, <-done)

	assert.Equal(t, 0, q.Size())
	assert.Len(t, ds.Snapshot(), n)
}

func TestAnalyzer_PromptExitOnCancelWithEmptyQueue(t *testing.T) {
	q := queue.NewMemory(slog.Default())
	ds := store.NewSync()

	a := New(symbols, time.Hour, slog.Default(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	done := a.Start(ctx, q, ds)

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("analyzer did not exit promptly despite hour-long poll interval")
	}
}

func TestAnalyzer_ReadyAfterFirstRecord(t *testing.T) {
	q := queue.NewMemory(slog.Default())
	ds := store.NewSync()
	a := newAnalyzer()

	assert.False(t, a.Ready())

	ctx, cancel := context.WithCancel(context.Background())
	done := a.Start(ctx, q, ds)

	q.Enqueue(rawMessage("1", time.Now().UTC()))
	waitForDrain(t, q)

	deadline := time.Now().Add(time.Second)
	for !a.Ready() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.True(t, a.Ready())

	cancel()
	require.NoError(t, <-done)
}
