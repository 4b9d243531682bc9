// Package cache memoizes risk evaluations keyed by a fingerprint of the
// evaluated schedule and thresholds.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

const defaultMaxSize = 512

// EvaluationCache stores risk evaluations by fingerprint.
type EvaluationCache interface {
	// Get returns a copy of the cached evaluation for key.
	Get(ctx context.Context, key uint64) (types.ScheduleRiskEvaluation, bool)

	// Put stores eval under key, evicting the least recently used entry when full.
	Put(ctx context.Context, key uint64, eval types.ScheduleRiskEvaluation)

	Size() int64
}

// node is one entry in the recency list.
type node struct {
	key        uint64
	eval       types.ScheduleRiskEvaluation
	prev, next *node
}

func (n *node) reset() {
	*n = node{}
}

// lruCache keeps entries in a doubly linked list, most recently used at head.
// A maxSize of 0 or less disables caching entirely.
type lruCache struct {
	mu       sync.Mutex
	entries  map[uint64]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewLRU creates an evaluation cache with configuration options.
func NewLRU(opts ...Option) EvaluationCache {
	c := &lruCache{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[uint64]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *lruCache) Get(_ context.Context, key uint64) (types.ScheduleRiskEvaluation, bool) {
	if c.maxSize <= 0 {
		return types.ScheduleRiskEvaluation{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return types.ScheduleRiskEvaluation{}, false
	}
	c.moveToFront(n)
	return clone(n.eval), true
}

func (c *lruCache) Put(_ context.Context, key uint64, eval types.ScheduleRiskEvaluation) {
	if c.maxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.eval = clone(eval)
		c.moveToFront(n)
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.eval = clone(eval)
	c.pushFront(n)
	c.entries[key] = n
	c.size.Add(1)
}

func (c *lruCache) Size() int64 {
	return c.size.Load()
}

// Must be called with c.mu held.
func (c *lruCache) pushFront(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// Must be called with c.mu held.
func (c *lruCache) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// Must be called with c.mu held.
func (c *lruCache) moveToFront(n *node) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

// Must be called with c.mu held.
func (c *lruCache) evictOldest() {
	n := c.tail
	if n == nil {
		return
	}
	c.unlink(n)
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

// clone copies the slices so callers cannot mutate cached state.
func clone(eval types.ScheduleRiskEvaluation) types.ScheduleRiskEvaluation {
	out := eval
	if eval.Risks != nil {
		out.Risks = make([]types.ScheduleRisk, len(eval.Risks))
		for i, r := range eval.Risks {
			r.AffectedEvents = append([]types.AffectedEvent(nil), r.AffectedEvents...)
			out.Risks[i] = r
		}
	}
	if eval.Skipped != nil {
		out.Skipped = make([]types.SkippedComparison, len(eval.Skipped))
		for i, s := range eval.Skipped {
			s.EventIDs = append([]string(nil), s.EventIDs...)
			out.Skipped[i] = s
		}
	}
	return out
}
