package events

import "sync/atomic"

// Bridge forwards bus events into a buffered channel so a consumer running
// its own loop (the bubbletea program) can receive them as messages. Sends
// never block; events that do not fit are counted and dropped.
type Bridge struct {
	out     chan Event
	cancel  func()
	dropped uint64
}

func NewBridge(bus *Bus, bufferSize int) *Bridge {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	br := &Bridge{out: make(chan Event, bufferSize)}
	br.cancel = bus.Subscribe(br.forward)
	return br
}

func (b *Bridge) C() <-chan Event {
	return b.out
}

func (b *Bridge) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}

// Close detaches the bridge from the bus. The channel is left open so a
// pending receive does not observe a spurious zero event.
func (b *Bridge) Close() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *Bridge) forward(ev Event) {
	select {
	case b.out <- ev:
	default:
		atomic.AddUint64(&b.dropped, 1)
	}
}
