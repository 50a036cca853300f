package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/Hodkinson/tauri-sys/core"
)

// ErrClosed is returned by Invoke once the bridge has shut down.
var ErrClosed = errors.New("bridge is closed")

// Config configures a Bridge connection.
type Config struct {
	// Registry receives host events. If nil, core.DefaultRegistry() is used.
	Registry *core.Registry
}

// Bridge is a core.Transport that speaks the length-prefixed CBOR frame
// protocol over a byte stream pair (stdio, pipe, socket). It performs the
// HELLO handshake, correlates invoke calls by UUID, validates arguments
// against the host's advertised schemas, and delivers host events to the
// channel registry in emission order.
type Bridge struct {
	registry *core.Registry
	manifest *Manifest
	schemas  *schemaSet
	limits   Limits

	writerCh chan *Frame
	done     chan struct{}

	mu      sync.Mutex
	pending map[string]chan *Frame
	reorder map[uint32]*reorderBuffer
	closed  bool
}

// Connect establishes a bridge over the given streams. It blocks for the
// handshake: the host's HELLO supplies the negotiated limits and the
// operation manifest. The caller retains ownership of r and w and must
// close them (after Close) to release the reader goroutine.
func Connect(r io.Reader, w io.Writer, config Config) (*Bridge, error) {
	reader := NewFrameReader(r)
	writer := NewFrameWriter(w)

	manifestBytes, limits, err := HandshakeInitiate(reader, writer)
	if err != nil {
		return nil, fmt.Errorf("handshake failed: %w", err)
	}
	reader.SetLimits(limits)
	writer.SetLimits(limits)

	manifest, err := ParseManifest(manifestBytes)
	if err != nil {
		return nil, err
	}
	schemas, err := newSchemaSet(manifest)
	if err != nil {
		return nil, err
	}

	registry := config.Registry
	if registry == nil {
		registry = core.DefaultRegistry()
	}

	b := &Bridge{
		registry: registry,
		manifest: manifest,
		schemas:  schemas,
		limits:   limits,
		writerCh: make(chan *Frame, 64),
		done:     make(chan struct{}),
		pending:  make(map[string]chan *Frame),
		reorder:  make(map[uint32]*reorderBuffer),
	}

	go b.writerLoop(writer)
	go b.readerLoop(reader)

	return b, nil
}

// Manifest returns the host's operation manifest from the handshake.
func (b *Bridge) Manifest() *Manifest {
	return b.manifest
}

// Limits returns the negotiated protocol limits.
func (b *Bridge) Limits() Limits {
	return b.limits
}

// Invoke implements core.Transport. It sends exactly one INVOKE frame and
// awaits the matching RESULT or ERROR. A host ERROR is logged with its raw
// code and message, then collapsed to core.ErrHostRejected — the wire
// contract carries no actionable detail to the caller.
//
// Cancelling ctx abandons the call: the eventual response is discarded
// silently. No cancellation reaches the host.
func (b *Bridge) Invoke(ctx context.Context, operation string, payload []byte) ([]byte, error) {
	if len(b.manifest.Operations) > 0 {
		if _, ok := b.manifest.Operation(operation); !ok {
			return nil, fmt.Errorf("host does not advertise operation %s", operation)
		}
	}
	if err := b.schemas.validate(operation, payload); err != nil {
		return nil, err
	}

	id := NewMessageIdRandom()
	respCh := make(chan *Frame, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.pending[id.ToString()] = respCh
	b.mu.Unlock()

	select {
	case b.writerCh <- NewInvoke(id, operation, payload):
	case <-b.done:
		b.removePending(id)
		return nil, ErrClosed
	case <-ctx.Done():
		b.removePending(id)
		return nil, ctx.Err()
	}

	select {
	case response := <-respCh:
		if response == nil {
			return nil, ErrClosed
		}
		if response.FrameType == FrameTypeError {
			Logger().Warn("host rejected operation",
				zap.String("operation", operation),
				zap.String("code", response.ErrorCode()),
				zap.String("message", response.ErrorMessage()))
			return nil, core.ErrHostRejected
		}
		return response.Payload, nil
	case <-b.done:
		return nil, ErrClosed
	case <-ctx.Done():
		b.removePending(id)
		return nil, ctx.Err()
	}
}

// Close shuts the bridge down. Pending calls fail with ErrClosed; no
// release is attempted host-side. Close is idempotent.
func (b *Bridge) Close() error {
	b.shutdown()
	return nil
}

func (b *Bridge) writerLoop(writer *FrameWriter) {
	for {
		select {
		case frame := <-b.writerCh:
			if err := writer.WriteFrame(frame); err != nil {
				Logger().Warn("bridge write failed", zap.Error(err))
				b.shutdown()
				return
			}
		case <-b.done:
			return
		}
	}
}

func (b *Bridge) readerLoop(reader *FrameReader) {
	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			if err != io.EOF {
				Logger().Warn("bridge read failed", zap.Error(err))
			}
			b.shutdown()
			return
		}

		switch frame.FrameType {
		case FrameTypeResult, FrameTypeError:
			b.resolvePending(frame)

		case FrameTypeEvent:
			b.handleEvent(frame)

		case FrameTypeHeartbeat:
			select {
			case b.writerCh <- NewHeartbeat(frame.Id):
			default:
				// Writer backed up — heartbeat dropped
			}

		case FrameTypeHello:
			Logger().Warn("unexpected HELLO after handshake")

		case FrameTypeInvoke:
			Logger().Warn("unexpected INVOKE from host", zap.String("id", frame.Id.ToString()))
		}
	}
}

// resolvePending routes a RESULT/ERROR frame to the waiting call.
// Responses to abandoned calls are dropped.
func (b *Bridge) resolvePending(frame *Frame) {
	idKey := frame.Id.ToString()

	b.mu.Lock()
	respCh, ok := b.pending[idKey]
	if ok {
		delete(b.pending, idKey)
	}
	b.mu.Unlock()

	if !ok {
		Logger().Debug("response for unknown request", zap.String("id", idKey))
		return
	}
	respCh <- frame
}

// handleEvent runs an EVENT frame through the channel's reorder buffer and
// delivers whatever became contiguous to the registry.
func (b *Bridge) handleEvent(frame *Frame) {
	channel := *frame.Channel

	b.mu.Lock()
	buffer, ok := b.reorder[channel]
	if !ok {
		buffer = newReorderBuffer(b.limits.MaxEventBuffer)
		b.reorder[channel] = buffer
	}
	deliverable, err := buffer.offer(*frame.Seq, frame.Payload)
	b.mu.Unlock()

	if err != nil {
		Logger().Warn("event ordering violation", zap.Uint32("channel", channel), zap.Error(err))
		return
	}

	for _, payload := range deliverable {
		if err := b.registry.Deliver(channel, payload); err != nil {
			// The id may simply be unregistered — indistinguishable from
			// a channel the host was never told about.
			Logger().Debug("dropped event", zap.Uint32("channel", channel), zap.Error(err))
		}
	}
}

func (b *Bridge) removePending(id MessageId) {
	b.mu.Lock()
	delete(b.pending, id.ToString())
	b.mu.Unlock()
}

// shutdown marks the bridge closed and fails every pending call.
func (b *Bridge) shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	pending := b.pending
	b.pending = make(map[string]chan *Frame)
	b.mu.Unlock()

	close(b.done)
	for _, respCh := range pending {
		close(respCh)
	}
}
