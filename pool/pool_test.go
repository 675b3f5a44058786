package pool

import (
	"sync/atomic"
	"testing"
)

func TestSerialCoversRange(t *testing.T) {
	var got []int
	Serial{}.ParallelFor(5, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			got = append(got, i)
		}
	})
	if len(got) != 5 {
		t.Fatalf("covered %d of 5", len(got))
	}
}

func TestThreadpoolCoversRange(t *testing.T) {
	var count int64
	New(4).ParallelFor(1000, func(lo, hi int) {
		atomic.AddInt64(&count, int64(hi-lo))
	})
	if count != 1000 {
		t.Fatalf("covered %d of 1000", count)
	}
}

func TestThreadpoolEmpty(t *testing.T) {
	called := false
	New(4).ParallelFor(0, func(lo, hi int) { called = true })
	if called {
		t.Fatal("body invoked for empty range")
	}
}

func TestReduceSum(t *testing.T) {
	sum := Reduce(New(3), 100, 0,
		func(lo, hi int) int {
			s := 0
			for i := lo; i < hi; i++ {
				s += i
			}
			return s
		},
		func(a, b int) int { return a + b },
	)
	if sum != 4950 {
		t.Fatalf("reduce sum = %d, want 4950", sum)
	}
}

func TestReduceNilRunner(t *testing.T) {
	sum := Reduce[int](nil, 10, 5,
		func(lo, hi int) int { return hi - lo },
		func(a, b int) int { return a + b },
	)
	if sum != 15 {
		t.Fatalf("reduce with nil runner = %d, want 15", sum)
	}
}
