// Package pool defines the thread-pool capability the parallel variants
// of MSM, multi-pairing and batch verification consume. The core never
// owns threads: callers hand in a Runner, and everything degrades to the
// serial Runner when none is supplied.
//
// Parallel bodies must be commutative and associative (sums of points,
// sums of field elements); iteration order between chunks is
// unspecified. A submitted job always runs to completion - there is no
// cancellation model - and ParallelFor does not return until every
// chunk has finished, which is the only suspension point.
package pool

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Runner executes a data-parallel loop over [0, n), handing each worker
// a contiguous [lo, hi) chunk, and blocks until all chunks are done.
type Runner interface {
	ParallelFor(n int, body func(lo, hi int))
}

// Serial runs everything inline on the calling goroutine.
type Serial struct{}

// ParallelFor invokes body(0, n) directly.
func (Serial) ParallelFor(n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	body(0, n)
}

// Threadpool fans chunks out over a bounded set of goroutines. The zero
// value uses GOMAXPROCS workers.
type Threadpool struct {
	Workers int
}

// New returns a Threadpool with the given worker count (<= 0 means
// GOMAXPROCS).
func New(workers int) *Threadpool {
	return &Threadpool{Workers: workers}
}

// ParallelFor splits [0, n) into one chunk per worker and waits for the
// whole scope to finish before returning.
func (t *Threadpool) ParallelFor(n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := t.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		body(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		lo := lo
		g.Go(func() error {
			body(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// Reduce runs a data-parallel reduction: body produces one partial per
// chunk and merge folds the partials in chunk order. merge must be
// associative; partials for empty input reduce to init.
func Reduce[T any](r Runner, n int, init T, body func(lo, hi int) T, merge func(a, b T) T) T {
	if r == nil {
		r = Serial{}
	}
	if n <= 0 {
		return init
	}
	var mu sync.Mutex
	partials := make(map[int]T)
	r.ParallelFor(n, func(lo, hi int) {
		p := body(lo, hi)
		mu.Lock()
		partials[lo] = p
		mu.Unlock()
	})
	out := init
	keys := make([]int, 0, len(partials))
	for k := range partials {
		keys = append(keys, k)
	}
	// Chunk starts are unique; fold in ascending order for determinism.
	for i := 0; i < len(keys); i++ {
		min := i
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[min] {
				min = j
			}
		}
		keys[i], keys[min] = keys[min], keys[i]
	}
	for _, k := range keys {
		out = merge(out, partials[k])
	}
	return out
}
