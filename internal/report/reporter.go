package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JRhoadhouse/TwitterExercise/internal/backoff"
	"github.com/JRhoadhouse/TwitterExercise/internal/observability"
	"github.com/JRhoadhouse/TwitterExercise/internal/store"
)

// Reporter periodically snapshots the data store, computes aggregate
// statistics, and emits a formatted report to its sink.
type Reporter struct {
	interval     time.Duration
	topK         int
	sink         Sink
	snapshotPath string
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// New creates a Reporter emitting every interval. If snapshotPath is
// non-empty, each cycle also captures the snapshot as a JSON record array,
// the replay/test fixture format.
func New(interval time.Duration, topK int, sink Sink, snapshotPath string, logger *slog.Logger, metrics *observability.Metrics) *Reporter {
	return &Reporter{
		interval:     interval,
		topK:         topK,
		sink:         sink,
		snapshotPath: snapshotPath,
		logger:       logger,
		metrics:      metrics,
	}
}

// Start launches the reporting loop on its own goroutine and returns
// immediately. The returned channel delivers Run's terminal status once.
func (r *Reporter) Start(ctx context.Context, ds store.DataStore) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, ds)
	}()
	return done
}

// Run sleeps one warm-up interval, then reports every interval until the
// context is cancelled. Unlike the analyzer there is no final flush: the
// loop checks cancellation only between cycles, so exit latency is bounded
// by one interval.
func (r *Reporter) Run(ctx context.Context, ds store.DataStore) error {
	r.logger.Info("reporter started, waiting for initial data", "interval", r.interval)

	if !backoff.Sleep(ctx, r.interval) {
		r.logger.Info("reporting stopped")
		return nil
	}

	for ctx.Err() == nil {
		snapshot := ds.Snapshot()

		if r.snapshotPath != "" {
			if err := writeSnapshot(r.snapshotPath, snapshot); err != nil {
				// Capture is a diagnostic aid, not part of the report
				// contract: log and keep reporting.
				observability.LogErrorChain(r.logger, "report.Reporter", err)
			}
		}

		if len(snapshot) == 0 {
			r.logger.Info("no records sampled yet, skipping report")
		} else {
			stats := Compute(snapshot, r.topK)
			if err := r.sink.Emit(Format(stats)); err != nil {
				return fmt.Errorf("emit report: %w", err)
			}
			r.metrics.ReportsEmitted.Inc()
		}

		if !backoff.Sleep(ctx, r.interval) {
			break
		}
	}

	r.logger.Info("reporting stopped")
	return nil
}

// OnDemand renders the current report straight from the store, outside the
// reporter's cycle. Used by the ops server's report endpoint.
type OnDemand struct {
	DS   store.DataStore
	TopK int
}

// RenderReport computes and formats a report over the current snapshot.
// ok is false while the store is empty.
func (o OnDemand) RenderReport() (string, bool) {
	snapshot := o.DS.Snapshot()
	if len(snapshot) == 0 {
		return "", false
	}
	return Format(Compute(snapshot, o.TopK)), true
}

// Format renders the statistics as the multi-line console report.
func Format(s Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total count: %d\n", s.TotalCount)
	fmt.Fprintf(&b, "Rate by Hour: %.2f, Minute: %.2f, Second: %.2f\n", s.PerHour, s.PerMinute, s.PerSecond)

	b.WriteString("Top Emojis:\n")
	for _, e := range s.TopEmojis {
		fmt.Fprintf(&b, "     Character: %s, Name: %s, Code: %s, Tweets: %d\n",
			e.Symbol.Literal, e.Symbol.Name, e.Symbol.Unified, e.Count)
	}
	fmt.Fprintf(&b, "%s of sampled tweets have emojis.\n", percent(s.EmojiPct))

	b.WriteString("Top HashTags:\n")
	for _, h := range s.TopHashtags {
		fmt.Fprintf(&b, "     Hashtag: %s, Tweets: %d\n", h.Item, h.Count)
	}
	fmt.Fprintf(&b, "%s of sampled tweets have hashtags.\n", percent(s.HashtagPct))

	b.WriteString("Top Domains:\n")
	for _, d := range s.TopDomains {
		fmt.Fprintf(&b, "     Domain: %s, Tweets: %d\n", d.Item, d.Count)
	}
	fmt.Fprintf(&b, "%s of sampled tweets have urls.\n", percent(s.DomainPct))

	fmt.Fprintf(&b, "%d sampled tweets have a media attachment (%s of total)\n", s.MediaCount, percent(s.MediaPct))
	for _, m := range s.MediaBreakdown {
		fmt.Fprintf(&b, "%d sampled tweets have a %s attachment (%s of total)\n", m.Count, m.Item, percent(float64(m.Count)/float64(s.TotalCount)))
	}
	fmt.Fprintf(&b, "%d sampled tweets have a photo url (pic.twitter.com or instagram) (%s of total)", s.PhotoURLCount, percent(s.PhotoURLPct))

	return b.String()
}

func percent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

func writeSnapshot(path string, snapshot any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
