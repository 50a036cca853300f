package core

import (
	"errors"
	"fmt"
)

// ErrHostRejected is returned by fallible operations when the host refuses
// the request. The host's error payload is deliberately collapsed to this
// single sentinel: the wire contract carries no reason the caller could act
// on. Transports may log the raw host error before returning it.
var ErrHostRejected = errors.New("host rejected operation")

// ErrChannelClosed is returned by Channel.Next once the channel has been
// closed and its inbox drained.
var ErrChannelClosed = errors.New("channel closed")

// TransportError reports a failed invoke: the host was unreachable, the
// request could not be encoded, or the response could not be decoded into
// the expected shape. These failures are fatal to the calling operation and
// are never retried.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %s", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// newTransportError wraps err for operation, preserving an existing
// TransportError's identity instead of double-wrapping.
func newTransportError(operation string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Operation: operation, Err: err}
}
