package bridge

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hodkinson/tauri-sys/core"
)

// startBridge wires a Bridge to a scripted host over in-memory pipes. The
// host side runs the accept handshake with the given manifest and then
// hands its frame streams to hostFn.
func startBridge(t *testing.T, manifest *Manifest, registry *core.Registry, hostFn func(r *FrameReader, w *FrameWriter)) *Bridge {
	t.Helper()

	frontendIn, hostOut := io.Pipe()
	hostIn, frontendOut := io.Pipe()

	var manifestBytes []byte
	if manifest != nil {
		var err error
		manifestBytes, err = manifest.Encode()
		require.NoError(t, err)
	}

	go func() {
		reader := NewFrameReader(hostIn)
		writer := NewFrameWriter(hostOut)
		if _, err := HandshakeAccept(reader, writer, manifestBytes); err != nil {
			return
		}
		if hostFn != nil {
			hostFn(reader, writer)
		}
	}()

	bridge, err := Connect(frontendIn, frontendOut, Config{Registry: registry})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bridge.Close()
		frontendIn.Close()
		frontendOut.Close()
		hostIn.Close()
		hostOut.Close()
	})
	return bridge
}

func menuManifest(t *testing.T) *Manifest {
	t.Helper()
	return &Manifest{Operations: []OperationSpec{
		{Name: "plugin:menu|new"},
		{Name: "plugin:menu|append"},
		{Name: "plugin:menu|popup"},
		{Name: "plugin:menu|create_default"},
	}}
}

func TestConnectExposesHandshakeResults(t *testing.T) {
	bridge := startBridge(t, menuManifest(t), core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		_, _ = r.ReadFrame()
	})

	assert.Len(t, bridge.Manifest().Operations, 4)
	assert.Equal(t, DefaultLimits(), bridge.Limits())
}

func TestInvokeRoundtrip(t *testing.T) {
	bridge := startBridge(t, menuManifest(t), core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		frame, err := r.ReadFrame()
		if err != nil {
			return
		}
		if *frame.Op != "plugin:menu|new" {
			_ = w.WriteFrame(NewError(frame.Id, "BAD_OP", "unexpected operation"))
			return
		}
		_ = w.WriteFrame(NewResult(frame.Id, []byte(`[42,"open-item"]`)))
	})

	response, err := bridge.Invoke(context.Background(), "plugin:menu|new", []byte(`{"kind":"MenuItem"}`))
	require.NoError(t, err)
	assert.Equal(t, `[42,"open-item"]`, string(response))
}

func TestInvokeConcurrentCorrelation(t *testing.T) {
	// The host answers each request with its own payload, in reverse
	// arrival order; responses must still land on the right callers.
	bridge := startBridge(t, nil, core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		var frames []*Frame
		for i := 0; i < 3; i++ {
			frame, err := r.ReadFrame()
			if err != nil {
				return
			}
			frames = append(frames, frame)
		}
		for i := len(frames) - 1; i >= 0; i-- {
			_ = w.WriteFrame(NewResult(frames[i].Id, frames[i].Payload))
		}
	})

	results := make(chan string, 3)
	for _, arg := range []string{`"a"`, `"b"`, `"c"`} {
		go func(arg string) {
			response, err := bridge.Invoke(context.Background(), "plugin:menu|popup", []byte(arg))
			if err != nil {
				results <- "error: " + err.Error()
				return
			}
			results <- string(response)
		}(arg)
	}

	got := make(map[string]bool)
	for i := 0; i < 3; i++ {
		select {
		case r := <-results:
			got[r] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for invoke results")
		}
	}
	assert.Equal(t, map[string]bool{`"a"`: true, `"b"`: true, `"c"`: true}, got)
}

func TestInvokeHostErrorCollapses(t *testing.T) {
	bridge := startBridge(t, nil, core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		frame, err := r.ReadFrame()
		if err != nil {
			return
		}
		_ = w.WriteFrame(NewError(frame.Id, "ALREADY_ATTACHED", "item 42 already has a parent"))
	})

	_, err := bridge.Invoke(context.Background(), "plugin:menu|append", []byte(`{"rid":7}`))
	assert.ErrorIs(t, err, core.ErrHostRejected)
}

func TestInvokeRejectsUnadvertisedOperation(t *testing.T) {
	bridge := startBridge(t, menuManifest(t), core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		// Nothing should arrive.
		_, _ = r.ReadFrame()
	})

	_, err := bridge.Invoke(context.Background(), "plugin:menu|remove", []byte("null"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrHostRejected)
}

func TestInvokeSchemaRejection(t *testing.T) {
	manifest := &Manifest{Operations: []OperationSpec{{
		Name: "plugin:menu|new",
		ArgsSchema: json.RawMessage(`{
			"type": "object",
			"required": ["kind"],
			"properties": {"kind": {"type": "string"}}
		}`),
	}}}

	bridge := startBridge(t, manifest, core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		frame, err := r.ReadFrame()
		if err != nil {
			return
		}
		_ = w.WriteFrame(NewResult(frame.Id, []byte(`[1,"ok"]`)))
	})

	_, err := bridge.Invoke(context.Background(), "plugin:menu|new", []byte(`{"kind":123}`))
	require.Error(t, err)

	var sve *SchemaValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "plugin:menu|new", sve.Operation)

	// A conforming payload still goes through.
	response, err := bridge.Invoke(context.Background(), "plugin:menu|new", []byte(`{"kind":"Menu"}`))
	require.NoError(t, err)
	assert.Equal(t, `[1,"ok"]`, string(response))
}

func TestEventsDeliveredInEmissionOrder(t *testing.T) {
	registry := core.NewRegistry()
	channel := core.NewChannelOn[string](registry)
	defer channel.Close()

	envelope := func(id uint64, text string) []byte {
		payload, _ := json.Marshal(core.Message[string]{ID: id, Message: text})
		return payload
	}

	startBridge(t, nil, registry, func(r *FrameReader, w *FrameWriter) {
		// Emission order is seq 0,1,2 but the frames hit the wire 2,0,1.
		_ = w.WriteFrame(NewEvent(channel.ID(), 2, envelope(2, "third")))
		_ = w.WriteFrame(NewEvent(channel.ID(), 0, envelope(0, "first")))
		_ = w.WriteFrame(NewEvent(channel.ID(), 1, envelope(1, "second")))
		_, _ = r.ReadFrame()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, want := range []string{"first", "second", "third"} {
		msg, err := channel.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, msg.Message)
	}
}

func TestEventForUnknownChannelIsDropped(t *testing.T) {
	registry := core.NewRegistry()
	channel := core.NewChannelOn[string](registry)
	defer channel.Close()

	startBridge(t, nil, registry, func(r *FrameReader, w *FrameWriter) {
		_ = w.WriteFrame(NewEvent(9999, 0, []byte(`{"id":0,"message":"lost"}`)))
		_ = w.WriteFrame(NewEvent(channel.ID(), 0, []byte(`{"id":1,"message":"kept"}`)))
		_, _ = r.ReadFrame()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, err := channel.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", msg.Message)
}

func TestHeartbeatEchoed(t *testing.T) {
	echoed := make(chan *Frame, 1)
	startBridge(t, nil, core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		_ = w.WriteFrame(NewHeartbeat(NewMessageIdFromUint(5)))
		frame, err := r.ReadFrame()
		if err != nil {
			return
		}
		echoed <- frame
	})

	select {
	case frame := <-echoed:
		assert.Equal(t, FrameTypeHeartbeat, frame.FrameType)
		assert.True(t, frame.Id.Equals(NewMessageIdFromUint(5)))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for heartbeat echo")
	}
}

func TestInvokeContextCancelled(t *testing.T) {
	bridge := startBridge(t, nil, core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		// Swallow the request, never answer.
		_, _ = r.ReadFrame()
		_, _ = r.ReadFrame()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := bridge.Invoke(ctx, "plugin:menu|popup", []byte("null"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHostDisconnectFailsPendingCalls(t *testing.T) {
	frontendIn, hostOut := io.Pipe()
	hostIn, frontendOut := io.Pipe()
	defer frontendIn.Close()
	defer frontendOut.Close()

	go func() {
		reader := NewFrameReader(hostIn)
		writer := NewFrameWriter(hostOut)
		if _, err := HandshakeAccept(reader, writer, nil); err != nil {
			return
		}
		// Take the request, then drop the connection.
		_, _ = reader.ReadFrame()
		hostOut.Close()
		hostIn.Close()
	}()

	bridge, err := Connect(frontendIn, frontendOut, Config{Registry: core.NewRegistry()})
	require.NoError(t, err)
	defer bridge.Close()

	_, err = bridge.Invoke(context.Background(), "plugin:menu|popup", []byte("null"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInvokeAfterClose(t *testing.T) {
	bridge := startBridge(t, nil, core.NewRegistry(), func(r *FrameReader, w *FrameWriter) {
		_, _ = r.ReadFrame()
	})

	require.NoError(t, bridge.Close())
	require.NoError(t, bridge.Close(), "Close must be idempotent")

	_, err := bridge.Invoke(context.Background(), "plugin:menu|popup", []byte("null"))
	assert.ErrorIs(t, err, ErrClosed)
}
