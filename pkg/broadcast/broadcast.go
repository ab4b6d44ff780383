// Package broadcast fans out the latest value of an observable state to any
// number of subscribers without ever blocking the publisher.
//
// Each subscriber owns a one-slot buffer. When a subscriber falls behind,
// the value waiting in its slot is replaced by the newer one, so a reader
// always converges on the latest value even if it skips intermediate ones.
package broadcast

import (
	"context"
	"sync"
)

// Broadcaster holds the latest value of type T and delivers every published
// value to all active subscriptions. All methods are safe for concurrent use.
type Broadcaster[T any] struct {
	mu          sync.Mutex
	latest      T
	subscribers map[*Subscription[T]]struct{}
	closed      bool
	cleanupWg   sync.WaitGroup
}

// New creates a broadcaster whose latest value is initial.
func New[T any](initial T) *Broadcaster[T] {
	return &Broadcaster[T]{
		latest:      initial,
		subscribers: make(map[*Subscription[T]]struct{}),
	}
}

// Subscription receives values from a Broadcaster.
type Subscription[T any] struct {
	b    *Broadcaster[T]
	ch   chan T
	done chan struct{}
	once sync.Once
}

// C returns the channel values are delivered on. It is closed when the
// subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close ends the subscription. It is safe to call Close multiple times.
func (s *Subscription[T]) Close() {
	s.b.unsubscribe(s)
}

// close releases the channels. The caller must hold b.mu.
func (s *Subscription[T]) close() {
	s.once.Do(func() {
		close(s.done)
		close(s.ch)
	})
}

// offer places v in the subscriber's slot, replacing an undelivered value.
// The caller must hold b.mu, which makes the publisher the only sender.
func (s *Subscription[T]) offer(v T) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
}

// Subscribe registers a subscription that immediately holds the latest
// value. The subscription ends when ctx is done, when Close is called on it
// or when the broadcaster is closed. Subscribing to a closed broadcaster
// returns an already closed subscription.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) *Subscription[T] {
	sub := &Subscription[T]{
		b:    b,
		ch:   make(chan T, 1),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.close()
		return sub
	}
	sub.ch <- b.latest
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				b.unsubscribe(sub)
			case <-sub.done:
			}
		}()
	}
	return sub
}

// Publish records v as the latest value and delivers it to every
// subscription. It never blocks on a slow subscriber.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = v
	if b.closed {
		return
	}
	for sub := range b.subscribers {
		sub.offer(v)
	}
}

// Latest returns the most recently published value.
func (b *Broadcaster[T]) Latest() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// Close ends every subscription. Later Publish calls only update Latest.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for sub := range b.subscribers {
		sub.close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.cleanupWg.Wait()
}

func (b *Broadcaster[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, sub)
	sub.close()
}
