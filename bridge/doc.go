// Package bridge provides the concrete transport for talking to a resource
// host over a byte stream: length-prefixed CBOR frames with integer keys, a
// HELLO handshake that negotiates limits and exchanges the operation
// manifest, UUID-correlated request/response invokes, and ordered delivery
// of host events into the core channel registry.
package bridge
