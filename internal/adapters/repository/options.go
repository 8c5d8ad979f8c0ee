package repository

// Option applies a configuration option to the MapStore.
type Option func(*MapStore)

// WithCapacityHint pre-sizes the store for about n distinct keys.
func WithCapacityHint(n int) Option {
	return func(s *MapStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}
