package core

import (
	"context"
	"encoding/json"
	"sync"
)

// Message is one delivered notification: a host-assigned sequence id and a
// payload. The id is unique enough to correlate but is not guaranteed
// contiguous or monotonic from the frontend's perspective.
type Message[T any] struct {
	ID      uint64 `json:"id"`
	Message T      `json:"message"`
}

// Channel is a host-addressable inbox for asynchronous notifications. It is
// created frontend-side with a process-unique identifier; the host learns of
// it when the identifier is embedded (as a ChannelRef) in a creation
// request. Messages arrive in host emission order and queue without bound.
//
// A channel never closes itself — it lives as long as the owning proxy.
// Close unregisters it locally; the current host protocol has no matching
// unsubscribe call.
type Channel[T any] struct {
	id  uint32
	reg *Registry

	mu     sync.Mutex
	queue  []Message[T]
	closed bool
	wake   chan struct{}
}

// NewChannel allocates a channel registered with the default registry.
func NewChannel[T any]() *Channel[T] {
	return NewChannelOn[T](DefaultRegistry())
}

// NewChannelOn allocates a channel registered with reg.
func NewChannelOn[T any](reg *Registry) *Channel[T] {
	c := &Channel[T]{
		reg:  reg,
		wake: make(chan struct{}, 1),
	}
	c.id = reg.register(func(payload []byte) error {
		var msg Message[T]
		if err := json.Unmarshal(payload, &msg); err != nil {
			return err
		}
		c.enqueue(msg)
		return nil
	})
	return c
}

// ID returns the channel's numeric identifier.
func (c *Channel[T]) ID() uint32 {
	return c.id
}

// Ref returns the serializable marker embedded in creation requests so the
// transport recognizes this value as a live channel reference.
func (c *Channel[T]) Ref() ChannelRef {
	return ChannelRef{id: c.id}
}

// Next blocks until a message is available and returns it, preserving
// arrival order. It returns ctx.Err() if the context is done first, and
// ErrChannelClosed once the channel is closed and drained.
func (c *Channel[T]) Next(ctx context.Context) (Message[T], error) {
	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			msg := c.queue[0]
			c.queue = c.queue[1:]
			c.mu.Unlock()
			return msg, nil
		}
		if c.closed {
			c.mu.Unlock()
			var zero Message[T]
			return zero, ErrChannelClosed
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			var zero Message[T]
			return zero, ctx.Err()
		case <-c.wake:
		}
	}
}

// TryNext returns the next queued message without blocking.
func (c *Channel[T]) TryNext() (Message[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		var zero Message[T]
		return zero, false
	}
	msg := c.queue[0]
	c.queue = c.queue[1:]
	return msg, true
}

// Len returns the number of queued messages.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Close unregisters the channel. Queued messages remain readable; once
// drained, Next returns ErrChannelClosed. Close is idempotent.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.reg.unregister(c.id)
	c.signal()
}

func (c *Channel[T]) enqueue(msg Message[T]) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, msg)
	c.mu.Unlock()
	c.signal()
}

func (c *Channel[T]) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
