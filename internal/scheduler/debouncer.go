package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrStopped = errors.New("scheduler: debouncer stopped")

// Debouncer coalesces bursts of Trigger calls into a single call of fn that
// runs once delay has passed without a further Trigger. Each Trigger cancels
// the pending deadline and starts a new one.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	fn       func()
	pending  bool
	deadline time.Time
	wakeup   chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	fired    uint64
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{
		delay:  delay,
		fn:     fn,
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Trigger (re)arms the timer. The loop goroutine starts on first use.
func (d *Debouncer) Trigger() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrStopped
	}
	d.pending = true
	d.deadline = time.Now().Add(d.delay)
	if !d.started {
		d.started = true
		go d.loop()
	}
	d.signalWakeup()
	return nil
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs the pending call immediately on the caller's goroutine.
// It returns false when nothing was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	d.pending = false
	d.signalWakeup()
	d.mu.Unlock()
	d.run()
	return true
}

// Cancel drops the pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = false
	d.signalWakeup()
}

// Stop cancels any pending call and waits for the loop goroutine to exit.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.pending = false
	started := d.started
	close(d.stopCh)
	d.mu.Unlock()
	if started {
		<-d.doneCh
	}
}

// Fired counts how many times fn has run.
func (d *Debouncer) Fired() uint64 {
	return atomic.LoadUint64(&d.fired)
}

func (d *Debouncer) loop() {
	defer close(d.doneCh)

	var timer *time.Timer
	for {
		deadline, pending := d.peek()
		if !pending {
			select {
			case <-d.wakeup:
				continue
			case <-d.stopCh:
				stopTimer(timer)
				return
			}
		}

		wait := time.Until(deadline)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			if d.takeDue(time.Now()) {
				d.run()
			}
		case <-d.wakeup:
			continue
		case <-d.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (d *Debouncer) run() {
	atomic.AddUint64(&d.fired, 1)
	if d.fn != nil {
		d.fn()
	}
}

func (d *Debouncer) signalWakeup() {
	select {
	case d.wakeup <- struct{}{}:
	default:
	}
}

func (d *Debouncer) peek() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deadline, d.pending
}

func (d *Debouncer) takeDue(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending || now.Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
