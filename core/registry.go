package core

import (
	"fmt"
	"sync"
)

// sink consumes one raw event envelope addressed to a channel.
type sink func(payload []byte) error

// Registry maps channel identifiers to their inboxes. Channels register
// themselves at allocation time; transports call Deliver when an event
// frame arrives from the host.
//
// A channel id only becomes meaningful to the host once it has been
// embedded in a successful creation request — Deliver to an id the host
// was never told about and Deliver to a genuinely unknown id are
// indistinguishable, so both report an error and the event is dropped.
type Registry struct {
	mu     sync.Mutex
	nextID uint32
	sinks  map[uint32]sink
}

// NewRegistry creates an empty channel registry.
func NewRegistry() *Registry {
	return &Registry{sinks: make(map[uint32]sink)}
}

// register allocates a fresh process-unique channel id for s.
func (r *Registry) register(s sink) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.sinks[id] = s
	return id
}

// unregister removes a channel. Subsequent Deliver calls for id fail.
func (r *Registry) unregister(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, id)
}

// Deliver routes one raw event envelope to the channel registered under id.
// Envelopes for the same id are delivered in call order.
func (r *Registry) Deliver(id uint32, payload []byte) error {
	r.mu.Lock()
	s, ok := r.sinks[id]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("no channel registered under id %d", id)
	}
	return s(payload)
}

// Global registry singleton for production use.
// Initialized lazily on first access.
var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide channel registry. Channels
// created with NewChannel register here; a Transport that receives host
// events delivers into it.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		if defaultRegistry == nil {
			defaultRegistry = NewRegistry()
		}
	})
	return defaultRegistry
}

// ResetDefaultRegistry replaces the default registry (for testing only).
func ResetDefaultRegistry() {
	defaultRegistry = nil
	defaultRegistryOnce = sync.Once{}
}
