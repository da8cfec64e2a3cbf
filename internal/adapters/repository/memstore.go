package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/astriel/siderea/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// The key space is split across shards by an FNV-1a hash of the request id
// so concurrent workers and readers contend on separate locks. Each shard
// keeps insertion order and evicts its oldest record once full.

const (
	defaultShardCount  = 8
	defaultMaxPerShard = 5_000
)

// shard holds one slice of the key space.
type shard struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string // insertion order, oldest first
}

// MemStore is a sharded in-memory implementation of Store.
type MemStore struct {
	shardCount  int
	maxPerShard int
	shards      []*shard
	total       atomic.Int64
}

// NewMemStore creates an empty store with the given options applied.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		shardCount:  defaultShardCount,
		maxPerShard: defaultMaxPerShard,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]Record)}
	}

	metrics.UpdateStoreShardCount(s.shardCount)
	metrics.UpdateStoreRecords(0)

	return s
}

func (s *MemStore) shardFor(requestID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(requestID))
	return s.shards[h.Sum32()%uint32(s.shardCount)]
}

// Put inserts or replaces the record for its request id.
func (s *MemStore) Put(_ context.Context, rec Record) error {
	if rec.RequestID == "" {
		return ErrEmptyID
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	sh := s.shardFor(rec.RequestID)
	sh.mu.Lock()
	if _, exists := sh.records[rec.RequestID]; !exists {
		sh.order = append(sh.order, rec.RequestID)
		s.total.Add(1)
	}
	sh.records[rec.RequestID] = rec
	// The order slice can hold ids that Delete already removed; skip those
	// until a live record is found to evict.
	for len(sh.records) > s.maxPerShard && len(sh.order) > 0 {
		oldest := sh.order[0]
		sh.order = sh.order[1:]
		if _, ok := sh.records[oldest]; !ok {
			continue
		}
		delete(sh.records, oldest)
		s.total.Add(-1)
		metrics.RecordStoreEviction()
	}
	sh.mu.Unlock()

	metrics.UpdateStoreRecords(int(s.total.Load()))

	return nil
}

// Get returns the record for a request id.
func (s *MemStore) Get(_ context.Context, requestID string) (Record, error) {
	if requestID == "" {
		return Record{}, ErrEmptyID
	}

	sh := s.shardFor(requestID)
	sh.mu.RLock()
	rec, ok := sh.records[requestID]
	sh.mu.RUnlock()

	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Delete removes the record for a request id, if present. Deleting an
// unknown id is a no-op. The id keeps its slot in the shard's eviction
// order; Put skips dead slots when evicting.
func (s *MemStore) Delete(_ context.Context, requestID string) error {
	if requestID == "" {
		return ErrEmptyID
	}

	sh := s.shardFor(requestID)
	sh.mu.Lock()
	if _, ok := sh.records[requestID]; ok {
		delete(sh.records, requestID)
		s.total.Add(-1)
	}
	sh.mu.Unlock()

	metrics.UpdateStoreRecords(int(s.total.Load()))

	return nil
}

// Count returns the number of records currently held.
func (s *MemStore) Count(_ context.Context) int {
	return int(s.total.Load())
}
