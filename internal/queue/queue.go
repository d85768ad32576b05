package queue

import (
	"log/slog"
	"strings"
	"sync"
)

// RawQueue decouples feed ingestion from analysis. Implementations preserve
// FIFO order and must tolerate concurrent producers and consumers.
type RawQueue interface {
	// Enqueue appends one raw message. Empty or whitespace-only input is
	// logged and dropped, never an error.
	Enqueue(data string)
	// Dequeue removes and returns the head, or "" when the queue is empty.
	// Callers treat "" as "try again later", not as failure.
	Dequeue() string
	// Size reports the current count. Safe to call from any goroutine.
	Size() int
}

// Memory is an unbounded in-memory RawQueue. No upper bound is enforced;
// sustained ingestion faster than analysis grows memory without limit, an
// accepted trade against back-pressure on the upstream feed.
type Memory struct {
	mu     sync.Mutex
	items  []string
	logger *slog.Logger
}

// NewMemory creates an empty in-memory queue.
func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{logger: logger}
}

func (q *Memory) Enqueue(data string) {
	if strings.TrimSpace(data) == "" {
		q.logger.Debug("dropped empty raw message")
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, data)
}

func (q *Memory) Dequeue() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return ""
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head
}

func (q *Memory) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
