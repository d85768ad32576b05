// Package feed ingests the sampled public stream over a long-lived HTTP
// connection and pushes each raw line into the queue.
package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JRhoadhouse/TwitterExercise/internal/backoff"
	"github.com/JRhoadhouse/TwitterExercise/internal/config"
	"github.com/JRhoadhouse/TwitterExercise/internal/observability"
	"github.com/JRhoadhouse/TwitterExercise/internal/queue"
)

const (
	initialReconnectDelay = 200 * time.Millisecond
	maxReconnectDelay     = 30 * time.Second

	// Single tweets routinely exceed bufio's default token size once
	// entities are expanded.
	maxLineBytes = 1 << 20
)

// Client reads the sampled stream line-by-line, enqueueing each raw message.
// It owns its connection and retry logic; the rest of the pipeline sees only
// the queue.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a stream client from config. The bearer token must be
// present; callers gate construction on FeedEnabled.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Client, error) {
	if cfg.FeedBearerToken == "" {
		return nil, errors.New("feed bearer token is not set")
	}
	return &Client{
		url:   cfg.FeedURL,
		token: cfg.FeedBearerToken,
		// No overall timeout: the sample stream is a deliberately
		// long-lived response.
		httpClient: &http.Client{},
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Run connects and consumes the stream until the context is cancelled,
// reconnecting with exponential backoff after connection failures. A failed
// cycle never aborts ingestion; only cancellation ends it.
func (c *Client) Run(ctx context.Context, q queue.RawQueue) error {
	c.logger.Info("feed ingestion started", "url", c.url)

	delay := initialReconnectDelay
	for ctx.Err() == nil {
		received, err := c.streamOnce(ctx, q)
		if ctx.Err() != nil {
			break
		}

		observability.LogErrorChain(c.logger, "feed.Client", err)
		if received > 0 {
			delay = initialReconnectDelay
		}

		if !backoff.Sleep(ctx, delay) {
			break
		}
		delay = backoff.Next(delay, maxReconnectDelay)
	}

	c.logger.Info("feed ingestion stopped")
	return nil
}

// streamOnce holds one connection open, enqueueing every line until the
// stream ends or fails. It returns the number of lines received this cycle.
func (c *Client) streamOnce(ctx context.Context, q queue.RawQueue) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("connect to feed stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("feed stream returned status %d: %s", resp.StatusCode, body)
	}

	c.logger.Info("feed stream connected")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	received := 0
	for scanner.Scan() {
		line := scanner.Text()
		q.Enqueue(line)
		if strings.TrimSpace(line) != "" {
			c.metrics.MessagesEnqueued.Inc()
		}
		received++
	}

	if err := scanner.Err(); err != nil {
		return received, fmt.Errorf("read feed stream: %w", err)
	}
	return received, errors.New("feed stream ended")
}
