package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// FrameReader reads length-prefixed CBOR frames from a stream.
type FrameReader struct {
	reader io.Reader
	limits Limits
}

// NewFrameReader creates a new FrameReader with default limits.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{
		reader: r,
		limits: DefaultLimits(),
	}
}

// SetLimits updates the reader's limits.
func (fr *FrameReader) SetLimits(limits Limits) {
	fr.limits = limits
}

// ReadFrame reads a single frame from the stream.
func (fr *FrameReader) ReadFrame() (*Frame, error) {
	// 4-byte big-endian length prefix
	var lengthBuf [4]byte
	if _, err := io.ReadFull(fr.reader, lengthBuf[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])

	if int(length) > fr.limits.MaxFrame {
		return nil, fmt.Errorf("frame size %d exceeds max_frame limit %d", length, fr.limits.MaxFrame)
	}
	if int(length) > MaxFrameHardLimit {
		return nil, fmt.Errorf("frame size %d exceeds hard limit %d", length, MaxFrameHardLimit)
	}

	frameBuf := make([]byte, length)
	if _, err := io.ReadFull(fr.reader, frameBuf); err != nil {
		return nil, err
	}

	return DecodeFrame(frameBuf)
}

// FrameWriter writes length-prefixed CBOR frames to a stream.
type FrameWriter struct {
	writer io.Writer
	limits Limits
}

// NewFrameWriter creates a new FrameWriter with default limits.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{
		writer: w,
		limits: DefaultLimits(),
	}
}

// SetLimits updates the writer's limits.
func (fw *FrameWriter) SetLimits(limits Limits) {
	fw.limits = limits
}

// WriteFrame writes a single frame to the stream.
func (fw *FrameWriter) WriteFrame(frame *Frame) error {
	frameBuf, err := EncodeFrame(frame)
	if err != nil {
		return err
	}

	if len(frameBuf) > fw.limits.MaxFrame {
		return fmt.Errorf("encoded frame size %d exceeds max_frame limit %d", len(frameBuf), fw.limits.MaxFrame)
	}
	if len(frameBuf) > MaxFrameHardLimit {
		return fmt.Errorf("encoded frame size %d exceeds hard limit %d", len(frameBuf), MaxFrameHardLimit)
	}

	var lengthBuf [4]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(frameBuf)))
	if _, err := fw.writer.Write(lengthBuf[:]); err != nil {
		return err
	}
	if _, err := fw.writer.Write(frameBuf); err != nil {
		return err
	}
	return nil
}

// HandshakeInitiate performs the handshake from the frontend side: send
// HELLO with our limits, read the host's HELLO carrying its limits and
// operation manifest, and negotiate limits to the minimum of both sides.
func HandshakeInitiate(reader *FrameReader, writer *FrameWriter) ([]byte, Limits, error) {
	hello := NewHello(DefaultLimits(), nil)
	if err := writer.WriteFrame(hello); err != nil {
		return nil, Limits{}, fmt.Errorf("failed to write HELLO: %w", err)
	}

	response, err := reader.ReadFrame()
	if err != nil {
		return nil, Limits{}, fmt.Errorf("failed to read HELLO response: %w", err)
	}
	if response.FrameType != FrameTypeHello {
		return nil, Limits{}, errors.New("expected HELLO response")
	}

	manifest := response.HelloManifest()
	negotiated := NegotiateLimits(DefaultLimits(), response.HelloLimits())

	return manifest, negotiated, nil
}

// HandshakeAccept performs the handshake from the host side: read the
// frontend's HELLO, reply with our limits plus the operation manifest,
// and negotiate limits to the minimum of both sides.
func HandshakeAccept(reader *FrameReader, writer *FrameWriter, manifest []byte) (Limits, error) {
	hello, err := reader.ReadFrame()
	if err != nil {
		return Limits{}, fmt.Errorf("failed to read HELLO: %w", err)
	}
	if hello.FrameType != FrameTypeHello {
		return Limits{}, errors.New("expected HELLO frame")
	}

	response := NewHello(DefaultLimits(), manifest)
	if err := writer.WriteFrame(response); err != nil {
		return Limits{}, fmt.Errorf("failed to write HELLO response: %w", err)
	}

	return NegotiateLimits(DefaultLimits(), hello.HelloLimits()), nil
}
