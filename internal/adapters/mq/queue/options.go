package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity bounds the number of queued jobs.
func WithCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// WithBufferSize sets the underlying channel buffer.
func WithBufferSize(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.bufferSize = n
		}
	}
}
