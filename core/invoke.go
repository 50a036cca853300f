package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Invoke sends a named operation with structurally serialized arguments and
// decodes the response into R. Arguments marshal field-for-field as JSON;
// nil args encode as null. Exactly one request is sent and one response
// awaited — there are no retries.
//
// Any failure (unreachable host, undecodable response) surfaces as a
// *TransportError. Use InvokeResult for operations the host may reject.
func Invoke[R any](ctx context.Context, t Transport, operation string, args any) (R, error) {
	var result R

	payload, err := json.Marshal(args)
	if err != nil {
		return result, newTransportError(operation, fmt.Errorf("encoding arguments: %w", err))
	}

	response, err := t.Invoke(ctx, operation, payload)
	if err != nil {
		return result, newTransportError(operation, err)
	}

	if err := json.Unmarshal(response, &result); err != nil {
		return result, newTransportError(operation, fmt.Errorf("decoding response: %w", err))
	}
	return result, nil
}

// InvokeResult sends a fallible operation whose only outcome is success or
// host rejection. A rejection surfaces as the bare ErrHostRejected sentinel;
// transport failures wrap into *TransportError. The response payload, if
// any, is discarded.
func InvokeResult(ctx context.Context, t Transport, operation string, args any) error {
	payload, err := json.Marshal(args)
	if err != nil {
		return newTransportError(operation, fmt.Errorf("encoding arguments: %w", err))
	}

	if _, err := t.Invoke(ctx, operation, payload); err != nil {
		if errors.Is(err, ErrHostRejected) {
			return ErrHostRejected
		}
		return newTransportError(operation, err)
	}
	return nil
}
