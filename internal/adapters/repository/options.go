package repository

// Option applies a configuration option to the ShardStore.
type Option func(*ShardStore)

// WithShardCount sets the number of profile shards.
func WithShardCount(n int) Option {
	return func(s *ShardStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithPopulationCap bounds each role's percentile population; the
// oldest value is evicted once the cap is reached.
func WithPopulationCap(n int) Option {
	return func(s *ShardStore) {
		if n > 0 {
			s.populationCap = n
		}
	}
}
