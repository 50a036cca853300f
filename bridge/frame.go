package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ProtocolVersion is the bridge wire protocol version.
const ProtocolVersion uint8 = 1

// FrameType represents the type of a CBOR frame.
type FrameType uint8

const (
	FrameTypeHello     FrameType = 0 // handshake: limits + host manifest
	FrameTypeInvoke    FrameType = 1 // frontend → host operation request
	FrameTypeResult    FrameType = 2 // host → frontend success response
	FrameTypeError     FrameType = 3 // host → frontend rejection
	FrameTypeEvent     FrameType = 4 // host → frontend channel delivery
	FrameTypeHeartbeat FrameType = 5
)

// String returns the frame type name.
func (ft FrameType) String() string {
	switch ft {
	case FrameTypeHello:
		return "HELLO"
	case FrameTypeInvoke:
		return "INVOKE"
	case FrameTypeResult:
		return "RESULT"
	case FrameTypeError:
		return "ERROR"
	case FrameTypeEvent:
		return "EVENT"
	case FrameTypeHeartbeat:
		return "HEARTBEAT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", ft)
	}
}

// MessageId correlates an Invoke frame with its Result or Error frame.
// It is either a 16-byte UUID (request ids) or a uint64 (handshake and
// other uncorrelated frames).
type MessageId struct {
	uuidBytes []byte
	uintValue *uint64
}

// NewMessageIdRandom creates a random UUID-based MessageId.
func NewMessageIdRandom() MessageId {
	id := uuid.New()
	bytes, _ := id.MarshalBinary()
	return MessageId{uuidBytes: bytes}
}

// NewMessageIdFromUuid creates a MessageId from 16 UUID bytes.
func NewMessageIdFromUuid(uuidBytes []byte) (MessageId, error) {
	if len(uuidBytes) != 16 {
		return MessageId{}, errors.New("UUID must be exactly 16 bytes")
	}
	return MessageId{uuidBytes: uuidBytes}, nil
}

// NewMessageIdFromUint creates a MessageId from a uint64.
func NewMessageIdFromUint(value uint64) MessageId {
	return MessageId{uintValue: &value}
}

// NewMessageIdDefault creates the default MessageId (uint 0).
func NewMessageIdDefault() MessageId {
	zero := uint64(0)
	return MessageId{uintValue: &zero}
}

// IsUuid returns true if this is a UUID-based id.
func (m MessageId) IsUuid() bool {
	return m.uuidBytes != nil
}

// ToString returns a string representation usable as a map key.
func (m MessageId) ToString() string {
	if m.uuidBytes != nil {
		if id, err := uuid.FromBytes(m.uuidBytes); err == nil {
			return id.String()
		}
	}
	if m.uintValue != nil {
		return fmt.Sprintf("%d", *m.uintValue)
	}
	return "0"
}

// AsBytes returns the id bytes for comparison.
func (m MessageId) AsBytes() []byte {
	if m.uuidBytes != nil {
		return m.uuidBytes
	}
	buf := make([]byte, 8)
	if m.uintValue != nil {
		binary.BigEndian.PutUint64(buf, *m.uintValue)
	}
	return buf
}

// Equals checks whether two MessageIds are equal. Ids of different
// variants are never equal.
func (m MessageId) Equals(other MessageId) bool {
	if m.uuidBytes != nil && other.uuidBytes != nil {
		return string(m.uuidBytes) == string(other.uuidBytes)
	}
	if m.uintValue != nil && other.uintValue != nil {
		return *m.uintValue == *other.uintValue
	}
	return false
}

// Frame is one bridge protocol unit, carried length-prefixed on the wire
// as a CBOR map with integer keys.
type Frame struct {
	Version   uint8                  // protocol version (always 1)
	FrameType FrameType              // frame type discriminator
	Id        MessageId              // correlation id (INVOKE/RESULT/ERROR)
	Op        *string                // operation key (INVOKE only)
	Payload   []byte                 // JSON argument / response / envelope bytes
	Meta      map[string]interface{} // HELLO limits+manifest, ERROR code/message
	Channel   *uint32                // target channel id (EVENT only)
	Seq       *uint64                // per-channel emission sequence (EVENT only)
}

func newFrame(frameType FrameType, id MessageId) *Frame {
	return &Frame{
		Version:   ProtocolVersion,
		FrameType: frameType,
		Id:        id,
	}
}

// NewInvoke creates an INVOKE frame for a named operation.
func NewInvoke(id MessageId, operation string, payload []byte) *Frame {
	frame := newFrame(FrameTypeInvoke, id)
	frame.Op = &operation
	frame.Payload = payload
	return frame
}

// NewResult creates a RESULT frame answering an INVOKE.
func NewResult(id MessageId, payload []byte) *Frame {
	frame := newFrame(FrameTypeResult, id)
	frame.Payload = payload
	return frame
}

// NewError creates an ERROR frame answering an INVOKE. Code and message
// are stored in the Meta map; they never reach the caller as structured
// detail, only the bridge's log.
func NewError(id MessageId, code string, message string) *Frame {
	frame := newFrame(FrameTypeError, id)
	frame.Meta = map[string]interface{}{
		"code":    code,
		"message": message,
	}
	return frame
}

// NewEvent creates an EVENT frame delivering one envelope to a channel.
// Seq must be the host's contiguous per-channel emission counter.
func NewEvent(channel uint32, seq uint64, payload []byte) *Frame {
	frame := newFrame(FrameTypeEvent, NewMessageIdDefault())
	frame.Channel = &channel
	frame.Seq = &seq
	frame.Payload = payload
	return frame
}

// NewHeartbeat creates a HEARTBEAT frame.
func NewHeartbeat(id MessageId) *Frame {
	return newFrame(FrameTypeHeartbeat, id)
}

// NewHello creates a HELLO frame for the handshake. The host side attaches
// its operation manifest; the frontend side passes nil.
func NewHello(limits Limits, manifest []byte) *Frame {
	frame := newFrame(FrameTypeHello, NewMessageIdDefault())
	frame.Meta = map[string]interface{}{
		"max_frame":        limits.MaxFrame,
		"max_event_buffer": limits.MaxEventBuffer,
		"version":          ProtocolVersion,
	}
	if manifest != nil {
		frame.Meta["manifest"] = manifest
	}
	return frame
}

// ErrorCode gets the error code from an ERROR frame's meta.
func (f *Frame) ErrorCode() string {
	if f.FrameType != FrameTypeError || f.Meta == nil {
		return ""
	}
	if code, ok := f.Meta["code"].(string); ok {
		return code
	}
	return ""
}

// ErrorMessage gets the error message from an ERROR frame's meta.
func (f *Frame) ErrorMessage() string {
	if f.FrameType != FrameTypeError || f.Meta == nil {
		return ""
	}
	if msg, ok := f.Meta["message"].(string); ok {
		return msg
	}
	return ""
}

// HelloManifest extracts the manifest bytes from HELLO metadata. Returns
// nil when absent.
func (f *Frame) HelloManifest() []byte {
	if f.FrameType != FrameTypeHello || f.Meta == nil {
		return nil
	}
	if manifest, ok := f.Meta["manifest"].([]byte); ok {
		return manifest
	}
	return nil
}

// HelloLimits extracts Limits from HELLO metadata. Missing or zero fields
// fall back to defaults.
func (f *Frame) HelloLimits() Limits {
	limits := DefaultLimits()
	if f.FrameType != FrameTypeHello || f.Meta == nil {
		return limits
	}
	if maxFrame := extractIntFromMeta(f.Meta, "max_frame"); maxFrame > 0 {
		limits.MaxFrame = maxFrame
	}
	if maxBuffer := extractIntFromMeta(f.Meta, "max_event_buffer"); maxBuffer > 0 {
		limits.MaxEventBuffer = maxBuffer
	}
	return limits
}

// extractIntFromMeta extracts an integer from a meta map, handling CBOR
// type variance: decoders may produce int, int64, uint64, or float64.
func extractIntFromMeta(meta map[string]interface{}, key string) int {
	v, ok := meta[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// SeqAssigner assigns monotonically increasing, gap-free seq numbers per
// channel, starting at 0. A host (or a test double standing in for one)
// runs every outgoing EVENT frame through it so receivers can restore
// emission order even over an unordered lower layer.
type SeqAssigner struct {
	counters map[uint32]uint64
}

// NewSeqAssigner creates a new SeqAssigner.
func NewSeqAssigner() *SeqAssigner {
	return &SeqAssigner{counters: make(map[uint32]uint64)}
}

// Assign stamps the next seq number onto an EVENT frame. Frames of any
// other type are left unchanged.
func (sa *SeqAssigner) Assign(frame *Frame) {
	if frame.FrameType != FrameTypeEvent || frame.Channel == nil {
		return
	}
	channel := *frame.Channel
	counter := sa.counters[channel]
	frame.Seq = &counter
	sa.counters[channel] = counter + 1
}

// Remove drops tracking for a channel.
func (sa *SeqAssigner) Remove(channel uint32) {
	delete(sa.counters, channel)
}
