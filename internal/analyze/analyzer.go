package analyze

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/JRhoadhouse/TwitterExercise/internal/backoff"
	"github.com/JRhoadhouse/TwitterExercise/internal/domain"
	"github.com/JRhoadhouse/TwitterExercise/internal/emoji"
	"github.com/JRhoadhouse/TwitterExercise/internal/observability"
	"github.com/JRhoadhouse/TwitterExercise/internal/queue"
	"github.com/JRhoadhouse/TwitterExercise/internal/store"
)

// Analyzer continuously drains the raw queue, parses each message, and
// writes one enriched record per message into the data store.
type Analyzer struct {
	symbols      []emoji.Symbol
	pollInterval time.Duration
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
}

// New creates an Analyzer over the given emoji reference set. An empty set
// is valid: the analyzer runs degraded, tagging no emoji.
func New(symbols []emoji.Symbol, pollInterval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		symbols:      symbols,
		pollInterval: pollInterval,
		logger:       logger,
		metrics:      metrics,
	}
}

// Ready reports whether the analyzer has stored at least one record.
func (a *Analyzer) Ready() bool {
	return a.ready.Load()
}

// Start launches the analysis loop on its own goroutine and returns
// immediately. The returned channel delivers Run's terminal status once.
func (a *Analyzer) Start(ctx context.Context, q queue.RawQueue, ds store.DataStore) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx, q, ds)
	}()
	return done
}

// Run executes the analysis loop until the context is cancelled and the
// queue is empty. Cancellation with a backlog drains every queued message
// before returning; a parse failure on one message never stops the loop.
func (a *Analyzer) Run(ctx context.Context, q queue.RawQueue, ds store.DataStore) error {
	a.logger.Info("analyzer started")
	a.metrics.AnalyzerRunning.Set(1)
	defer a.metrics.AnalyzerRunning.Set(0)

	drainNoticeShown := false
	for {
		depth := q.Size()
		a.metrics.QueueDepth.Set(float64(depth))

		if ctx.Err() != nil && depth == 0 {
			break
		}

		if depth == 0 {
			backoff.Sleep(ctx, a.pollInterval)
			continue
		}

		if ctx.Err() != nil && !drainNoticeShown {
			a.logger.Info("cancellation received, draining remaining queued messages", "remaining", depth)
			drainNoticeShown = true
		}

		raw := q.Dequeue()
		if raw == "" {
			continue
		}

		start := time.Now()
		rec, err := domain.AnalyzeMessage(raw, a.symbols)
		if err != nil {
			a.metrics.ParseErrors.Inc()
			a.logger.Warn("message analysis failed, skipping", "error", err, "raw", raw)
			continue
		}

		ds.Store(rec)
		a.metrics.MessagesAnalyzed.Inc()
		a.metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())
		a.ready.Store(true)
	}

	a.logger.Info("all queued messages analyzed")
	return nil
}
