package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	var calls int32
	d := NewDebouncer(40*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	defer d.Stop()

	for i := 0; i < 5; i++ {
		if err := d.Trigger(); err != nil {
			t.Fatalf("trigger: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected no call while triggers keep arriving, got %d", got)
	}

	waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&calls) == 1 })
	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one call, got %d", got)
	}
	if d.Pending() {
		t.Fatal("expected nothing pending after firing")
	}
}

func TestDebouncerFlushRunsImmediately(t *testing.T) {
	var calls int32
	d := NewDebouncer(time.Hour, func() { atomic.AddInt32(&calls, 1) })
	defer d.Stop()

	if d.Flush() {
		t.Fatal("flush with nothing pending should report false")
	}
	_ = d.Trigger()
	if !d.Flush() {
		t.Fatal("expected flush to run pending call")
	}
	if atomic.LoadInt32(&calls) != 1 || d.Fired() != 1 {
		t.Fatalf("unexpected calls=%d fired=%d", calls, d.Fired())
	}
}

func TestDebouncerCancelAndStop(t *testing.T) {
	var calls int32
	d := NewDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	_ = d.Trigger()
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("cancelled call ran %d times", calls)
	}

	d.Stop()
	if err := d.Trigger(); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	d.Stop()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
