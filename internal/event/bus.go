// Package event
package event

import (
	"sync"

	"netspeed-monitor/internal/domain"
)

const defaultBuffer = 64

// Bus fans events out to channel subscribers. Publish never blocks: a
// subscriber whose buffer is full misses that event.
type Bus struct {
	subscribers map[chan Event]struct{}
	mu          sync.RWMutex
	buffer      int
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[chan Event]struct{}),
		buffer:      defaultBuffer,
	}
}

func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	b.subscribers[ch] = struct{}{}
	return ch
}

func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for s := range b.subscribers {
		if (<-chan Event)(s) == ch {
			delete(b.subscribers, s)
			close(s)
			break
		}
	}
}

func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Bus) PublishSpeed(s domain.SpeedSnapshot)      { b.Publish(Speed(s)) }
func (b *Bus) PublishInfo(s domain.NetworkInfoSnapshot) { b.Publish(Info(s)) }
func (b *Bus) PublishProcesses(r domain.ProcessReport)  { b.Publish(Processes(r)) }

// Attach delivers events to sub from a dedicated goroutine, in publish order,
// until the returned detach func is called.
func (b *Bus) Attach(sub domain.Subscriber) (detach func()) {
	ch := b.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range ch {
			Dispatch(sub, ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.Unsubscribe(ch)
			<-done
		})
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}
