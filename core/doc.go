// Package core provides the invoke client and event channel primitives that
// entity proxies are built on: a Transport abstraction for request/response
// calls to the host, typed Invoke/InvokeResult helpers with structural JSON
// argument encoding, and numbered Channels that receive asynchronous
// Message envelopes routed through a process-wide Registry.
//
// The two failure tiers are ErrHostRejected (the host refused a fallible
// operation; no further detail crosses the wire) and TransportError (the
// call never completed or its response could not be decoded).
package core
