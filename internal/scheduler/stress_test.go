package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerStressConcurrentTrigger(t *testing.T) {
	var calls int64
	d := NewDebouncer(30*time.Millisecond, func() { atomic.AddInt64(&calls, 1) })
	defer d.Stop()

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := d.Trigger(); err != nil {
					t.Errorf("trigger failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	waitFor(t, 5*time.Second, func() bool { return !d.Pending() })
	time.Sleep(60 * time.Millisecond)

	// Triggers spread over time may legitimately split into a few windows,
	// but never one call per trigger.
	got := atomic.LoadInt64(&calls)
	if got < 1 || got >= workers*perWorker {
		t.Fatalf("unexpected call count: got=%d triggers=%d", got, workers*perWorker)
	}
	if uint64(got) != d.Fired() {
		t.Fatalf("fired counter out of sync: calls=%d fired=%d", got, d.Fired())
	}
}

func TestDebouncerStressFlushRacesTimer(t *testing.T) {
	var calls int64
	d := NewDebouncer(time.Millisecond, func() { atomic.AddInt64(&calls, 1) })
	defer d.Stop()

	for i := 0; i < 200; i++ {
		_ = d.Trigger()
		if i%2 == 0 {
			time.Sleep(time.Millisecond)
		}
		d.Flush()
	}
	waitFor(t, time.Second, func() bool { return !d.Pending() })
	if got := atomic.LoadInt64(&calls); got > 200 {
		t.Fatalf("more calls than triggers: %d", got)
	}
}
