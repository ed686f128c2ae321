// Package pool provides type-safe object pooling for stratum.
// It offers zero-allocation reuse of scratch objects in the ingestion
// path, reducing garbage collection pressure on large datasets.
//
// The package provides:
//   - Generic type-safe object pooling with Pool[T]
//   - A pre-configured global pool for string slice scratch
//   - Statistics for monitoring pool efficiency
//
// Example usage:
//
//	rowPool := pool.New(
//	    func() []string { return make([]string, 0, 16) },
//	    func(s []string) {},
//	)
//	row := rowPool.Get()
//	defer rowPool.Put(row[:0])
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset
// functionality. The pool is safe for concurrent use.
//
// Type parameter T can be any type, but pointer and slice types are
// recommended for efficiency.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
		misses    int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The new function is called when the pool is empty and a new object is
// needed. The reset function, if non-nil, is called before returning an
// object to the pool.
//
// Example:
//
//	bufPool := New(
//	    func() *Buffer { return &Buffer{data: make([]byte, 0, 1024)} },
//	    func(b *Buffer) { b.data = b.data[:0] },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
// The returned object should be handed back with Put when no longer needed.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool for reuse, calling the reset function
// first if one was provided.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics: total objects created, objects
// currently checked out, and hit/miss counts.
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits),
		atomic.LoadInt64(&p.stats.misses)
}

// StringSlicePool provides pooling for []string scratch slices used by
// the ingestion path.
var StringSlicePool = New(
	func() []string {
		return make([]string, 0, 32)
	},
	func(s []string) {
		for i := range s {
			s[i] = ""
		}
	},
)

// GetStringSlice retrieves a string slice from the global pool.
// The returned slice has zero length and capacity 32.
func GetStringSlice() []string {
	return StringSlicePool.Get()[:0]
}

// PutStringSlice returns a string slice to the global pool for reuse.
// Safe to call with nil.
func PutStringSlice(s []string) {
	if s != nil {
		StringSlicePool.Put(s)
	}
}
