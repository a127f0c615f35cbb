package events

import "sync"

type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus delivers events synchronously on the publisher's goroutine, in
// subscription order. The zero value is ready to use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every event and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	return func() { b.unsubscribe(id) }
}

// Listen subscribes fn to events of type T only.
func Listen[T Event](b *Bus, fn func(T)) func() {
	return b.Subscribe(func(ev Event) {
		if typed, ok := ev.(T); ok {
			fn(typed)
		}
	})
}

// Publish calls every current subscriber. Handlers may publish or
// (un)subscribe re-entrantly; changes apply from the next Publish.
func (b *Bus) Publish(ev Event) {
	if b == nil || ev == nil {
		return
	}
	b.mu.Lock()
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()
	for _, s := range snapshot {
		s.fn(ev)
	}
}

func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}
