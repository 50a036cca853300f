package menu

import (
	"encoding/json"
	"fmt"

	"github.com/Hodkinson/tauri-sys/core"
	"github.com/Hodkinson/tauri-sys/window"
)

// Operation keys understood by the host's menu namespace. These are part of
// the stable wire contract and must not change.
const (
	opNew           = "plugin:menu|new"
	opCreateDefault = "plugin:menu|create_default"
	opAppend        = "plugin:menu|append"
	opPopup         = "plugin:menu|popup"
)

// createArgs is the argument shape for opNew: the kind tag resolving the
// polymorphic handle type, the creation options, and the channel marker the
// host will deliver future events to.
type createArgs struct {
	Kind    ItemKind        `json:"kind"`
	Options any             `json:"options"`
	Handler core.ChannelRef `json:"handler"`
}

// createResponse is the host's creation result, a [handle, entityId] tuple.
type createResponse struct {
	RID core.ResourceID
	ID  ID
}

func (r *createResponse) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("creation response must be a [handle, id] pair, got %d elements", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &r.RID); err != nil {
		return fmt.Errorf("decoding handle: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &r.ID); err != nil {
		return fmt.Errorf("decoding entity id: %w", err)
	}
	return nil
}

// appendArgs is the argument shape for opAppend. Items carries
// (handle, kind) pairs so the host can accept heterogeneous child types
// through a single endpoint.
type appendArgs struct {
	RID   core.ResourceID `json:"rid"`
	Kind  ItemKind        `json:"kind"`
	Items []appendEntry   `json:"items"`
}

type appendEntry struct {
	rid  core.ResourceID
	kind ItemKind
}

func (e appendEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.rid, e.kind})
}

// popupArgs is the argument shape for opPopup. Nil window targets the
// current window; nil position means the host's default location.
type popupArgs struct {
	RID    core.ResourceID  `json:"rid"`
	Kind   ItemKind         `json:"kind"`
	Window *window.Label    `json:"window"`
	At     *window.Position `json:"at"`
}
