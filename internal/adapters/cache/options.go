package cache

// Option applies a configuration option to the LRU cache.
type Option func(*lruCache)

// WithMaxSize sets the maximum number of evaluations to keep.
// If maxSize <= 0 the cache stores nothing.
func WithMaxSize(maxSize int) Option {
	return func(c *lruCache) {
		c.maxSize = maxSize
	}
}
