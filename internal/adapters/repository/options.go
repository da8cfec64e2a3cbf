package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithShardCount sets the number of shards the key space is split across.
func WithShardCount(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithMaxRecordsPerShard caps how many records one shard retains before
// evicting the oldest.
func WithMaxRecordsPerShard(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxPerShard = n
		}
	}
}
