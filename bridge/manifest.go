package bridge

import (
	"encoding/json"
	"fmt"
)

// Manifest lists the operations a host understands. The host attaches it
// to its HELLO frame during the handshake; the bridge uses it to reject
// unknown operations and to validate arguments before they ever reach the
// wire.
type Manifest struct {
	Operations []OperationSpec `json:"operations"`
}

// OperationSpec describes one host operation.
type OperationSpec struct {
	// Name is the stable operation key, e.g. "plugin:menu|new".
	Name string `json:"name"`

	// ArgsSchema is an optional JSON Schema (draft-7) for the operation's
	// argument object. When present, the bridge validates every invoke
	// payload against it client-side.
	ArgsSchema json.RawMessage `json:"args_schema,omitempty"`
}

// ParseManifest decodes a manifest from its JSON wire form. An empty or
// nil input yields a manifest with no operations, which disables both
// operation gating and argument validation.
func ParseManifest(data []byte) (*Manifest, error) {
	manifest := &Manifest{}
	if len(data) == 0 {
		return manifest, nil
	}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	for _, op := range manifest.Operations {
		if op.Name == "" {
			return nil, fmt.Errorf("manifest operation with empty name")
		}
	}
	return manifest, nil
}

// Encode serializes the manifest to its JSON wire form.
func (m *Manifest) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Operation looks up a spec by operation name.
func (m *Manifest) Operation(name string) (*OperationSpec, bool) {
	for i := range m.Operations {
		if m.Operations[i].Name == name {
			return &m.Operations[i], true
		}
	}
	return nil, false
}
