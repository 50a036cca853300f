package core

import "context"

// ResourceID is an opaque handle identifying a host-side object instance.
// The host issues it on creation and never reuses it while the object is
// alive; the frontend holds it as a non-owning reference used to address
// subsequent operations.
type ResourceID uint64

// Transport is the black-box request/response primitive every proxy call
// goes through. Invoke sends exactly one request for the named operation
// (e.g. "plugin:menu|new") with a JSON-encoded payload and awaits exactly
// one response.
//
// Implementations must return ErrHostRejected when the host refuses a
// fallible operation, and any other error for transport-level failures.
// Asynchronous host events are out of band: a Transport delivers them to
// the channel registry, not through Invoke.
type Transport interface {
	Invoke(ctx context.Context, operation string, payload []byte) ([]byte, error)
}
