package bridge

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBOR map keys. The wire layout uses integer keys so both ends stay
// compact and key order is irrelevant.
const (
	keyVersion   = 0 // version (u8, always 1)
	keyFrameType = 1 // frame_type (u8)
	keyId        = 2 // id (bytes[16] or uint)
	keyOp        = 3 // op (tstr, INVOKE only)
	keyPayload   = 4 // payload (bstr, optional)
	keyMeta      = 5 // meta (map, optional)
	keyChannel   = 6 // channel (u32, EVENT only)
	keySeq       = 7 // seq (u64, EVENT only)
)

// EncodeFrame encodes a Frame to CBOR bytes using integer keys.
func EncodeFrame(frame *Frame) ([]byte, error) {
	m := make(map[int]interface{})

	m[keyVersion] = uint8(ProtocolVersion)
	m[keyFrameType] = uint8(frame.FrameType)

	if frame.Id.IsUuid() {
		m[keyId] = frame.Id.uuidBytes
	} else if frame.Id.uintValue != nil {
		m[keyId] = *frame.Id.uintValue
	} else {
		m[keyId] = uint64(0)
	}

	if frame.Op != nil && *frame.Op != "" {
		m[keyOp] = *frame.Op
	}
	if frame.Payload != nil {
		m[keyPayload] = frame.Payload
	}
	if len(frame.Meta) > 0 {
		m[keyMeta] = frame.Meta
	}
	if frame.Channel != nil {
		m[keyChannel] = *frame.Channel
	}
	if frame.Seq != nil {
		m[keySeq] = *frame.Seq
	}

	return cbor.Marshal(m)
}

// DecodeFrame decodes CBOR bytes to a Frame, validating the fields each
// frame type requires.
func DecodeFrame(data []byte) (*Frame, error) {
	var m map[int]interface{}
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	frame := &Frame{}

	verVal, ok := m[keyVersion]
	if !ok {
		return nil, errors.New("missing version (key 0)")
	}
	ver, ok := verVal.(uint64)
	if !ok {
		return nil, errors.New("version must be uint")
	}
	frame.Version = uint8(ver)
	if frame.Version != ProtocolVersion {
		return nil, fmt.Errorf("invalid version %d, expected %d", frame.Version, ProtocolVersion)
	}

	ftVal, ok := m[keyFrameType]
	if !ok {
		return nil, errors.New("missing frame_type (key 1)")
	}
	ft, ok := ftVal.(uint64)
	if !ok {
		return nil, errors.New("frame_type must be uint")
	}
	frameType := FrameType(ft)
	if frameType > FrameTypeHeartbeat {
		return nil, fmt.Errorf("invalid frame_type %d", ft)
	}
	frame.FrameType = frameType

	idVal, ok := m[keyId]
	if !ok {
		return nil, errors.New("missing id (key 2)")
	}
	switch v := idVal.(type) {
	case []byte:
		if len(v) != 16 {
			return nil, errors.New("UUID id must be 16 bytes")
		}
		frame.Id = MessageId{uuidBytes: v}
	case uint64:
		frame.Id = NewMessageIdFromUint(v)
	default:
		return nil, errors.New("id must be bytes[16] or uint")
	}

	if opVal, ok := m[keyOp]; ok {
		if op, ok := opVal.(string); ok {
			frame.Op = &op
		}
	}

	if payloadVal, ok := m[keyPayload]; ok {
		if payload, ok := payloadVal.([]byte); ok {
			frame.Payload = payload
		}
	}

	if metaVal, ok := m[keyMeta]; ok {
		if meta, ok := metaVal.(map[interface{}]interface{}); ok {
			frame.Meta = make(map[string]interface{})
			for k, v := range meta {
				if ks, ok := k.(string); ok {
					frame.Meta[ks] = v
				}
			}
		}
	}

	if channelVal, ok := m[keyChannel]; ok {
		if channel, ok := channelVal.(uint64); ok {
			c := uint32(channel)
			frame.Channel = &c
		}
	}

	if seqVal, ok := m[keySeq]; ok {
		if seq, ok := seqVal.(uint64); ok {
			frame.Seq = &seq
		}
	}

	if frame.FrameType == FrameTypeInvoke && (frame.Op == nil || *frame.Op == "") {
		return nil, errors.New("INVOKE frame missing required field: op")
	}
	if frame.FrameType == FrameTypeEvent {
		if frame.Channel == nil {
			return nil, errors.New("EVENT frame missing required field: channel")
		}
		if frame.Seq == nil {
			return nil, errors.New("EVENT frame missing required field: seq")
		}
	}

	return frame, nil
}
