package core

import (
	"encoding/json"
	"fmt"
)

// ChannelMarkerKey is the reserved sentinel key that tags a serialized value
// as a live channel reference. The argument encoder emits it so the
// transport layer can distinguish "deliver future events here" from
// ordinary numeric data.
const ChannelMarkerKey = "__TAURI_CHANNEL_MARKER__"

// ChannelRef is the wire form of a channel reference: the sentinel flag
// plus the channel's numeric identifier.
type ChannelRef struct {
	id uint32
}

// ChannelRefFromID builds a reference for an already-allocated channel id.
func ChannelRefFromID(id uint32) ChannelRef {
	return ChannelRef{id: id}
}

// ID returns the referenced channel's identifier.
func (r ChannelRef) ID() uint32 {
	return r.id
}

type channelRefWire struct {
	Marker bool   `json:"__TAURI_CHANNEL_MARKER__"`
	ID     uint32 `json:"id"`
}

// MarshalJSON encodes the reference as {"__TAURI_CHANNEL_MARKER__": true,
// "id": N}.
func (r ChannelRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(channelRefWire{Marker: true, ID: r.id})
}

// UnmarshalJSON decodes a marker object. A value whose sentinel is missing
// or false is not a channel reference and is rejected.
func (r *ChannelRef) UnmarshalJSON(data []byte) error {
	var wire channelRefWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !wire.Marker {
		return fmt.Errorf("value is not a channel reference: missing %s sentinel", ChannelMarkerKey)
	}
	r.id = wire.ID
	return nil
}
