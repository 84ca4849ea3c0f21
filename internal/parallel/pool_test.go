package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolCreate(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 4, 4},
		{"zero uses GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative uses GOMAXPROCS", -3, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.workers)
			defer p.Close()
			if p.Workers() != tt.want {
				t.Errorf("Workers() = %d, want %d", p.Workers(), tt.want)
			}
			if !p.IsRunning() {
				t.Error("pool should be running after creation")
			}
		})
	}
}

func TestPoolRunCompletesAllWork(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var counter atomic.Int64
	const n = 500
	work := make([]func(), n)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	p.Run(work)

	if counter.Load() != n {
		t.Errorf("counter = %d, want %d", counter.Load(), n)
	}
}

func TestPoolRunWritesDistinctSlots(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	out := make([]int, 64)
	work := make([]func(), len(out))
	for i := range work {
		work[i] = func() { out[i] = i * i }
	}
	p.Run(work)

	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestPoolUnevenWork(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var done atomic.Int32
	work := make([]func(), 16)
	for i := range work {
		work[i] = func() {
			if i%4 == 0 {
				time.Sleep(5 * time.Millisecond)
			}
			done.Add(1)
		}
	}
	p.Run(work)
	if done.Load() != 16 {
		t.Errorf("done = %d, want 16", done.Load())
	}
}

func TestPoolRunAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close() // idempotent

	var counter atomic.Int32
	p.Run([]func(){
		func() { counter.Add(1) },
		func() { counter.Add(1) },
	})
	if counter.Load() != 2 {
		t.Errorf("closed pool should run work inline, counter = %d", counter.Load())
	}
	if p.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
}

func TestPoolRunEmpty(t *testing.T) {
	p := NewPool(2)
	defer p.Close()
	p.Run(nil)
}

func TestPoolRunConcurrentWithClose(t *testing.T) {
	for iter := range 200 {
		p := NewPool(1)

		var counter atomic.Int32
		work := make([]func(), 64)
		for i := range work {
			work[i] = func() { counter.Add(1) }
		}

		returned := make(chan struct{})
		go func() {
			defer close(returned)
			p.Run(work)
		}()
		p.Close()

		select {
		case <-returned:
		case <-time.After(5 * time.Second):
			t.Fatalf("iteration %d: Run did not return after concurrent Close", iter)
		}
		if got := counter.Load(); got != 64 {
			t.Fatalf("iteration %d: ran %d of 64 items", iter, got)
		}
	}
}
