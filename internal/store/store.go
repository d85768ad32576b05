package store

import (
	"sync"

	"github.com/JRhoadhouse/TwitterExercise/internal/domain"
)

// DataStore accumulates enriched records and serves point-in-time snapshots.
type DataStore interface {
	// Store adds one record. Never blocks on the caller's hot path.
	Store(record domain.TweetMetadata)
	// Snapshot returns a copy of all stored records, not a live view.
	Snapshot() []domain.TweetMetadata
}

// List is the append-only variant. It performs no deduplication and no
// locking: intended for a single writer with no concurrent reader, such as
// replay tooling and tests.
type List struct {
	records []domain.TweetMetadata
}

// NewList creates an empty append-only store.
func NewList() *List {
	return &List{}
}

func (s *List) Store(record domain.TweetMetadata) {
	s.records = append(s.records, record)
}

func (s *List) Snapshot() []domain.TweetMetadata {
	out := make([]domain.TweetMetadata, len(s.records))
	copy(out, s.records)
	return out
}

// Sync is the concurrency-safe variant, keyed by message id. The first
// writer for an id wins; a second record with the same id is dropped
// silently. Snapshot order is unspecified.
type Sync struct {
	mu      sync.RWMutex
	records map[string]domain.TweetMetadata
}

// NewSync creates an empty keyed store.
func NewSync() *Sync {
	return &Sync{records: make(map[string]domain.TweetMetadata)}
}

func (s *Sync) Store(record domain.TweetMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return
	}
	s.records[record.ID] = record
}

func (s *Sync) Snapshot() []domain.TweetMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TweetMetadata, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out
}
