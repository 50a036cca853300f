package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	manifest, err := ParseManifest([]byte(`{"operations":[{"name":"plugin:menu|new"},{"name":"plugin:menu|popup"}]}`))
	require.NoError(t, err)
	require.Len(t, manifest.Operations, 2)

	op, ok := manifest.Operation("plugin:menu|popup")
	require.True(t, ok)
	assert.Equal(t, "plugin:menu|popup", op.Name)

	_, ok = manifest.Operation("plugin:menu|remove")
	assert.False(t, ok)
}

func TestParseManifestEmpty(t *testing.T) {
	manifest, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, manifest.Operations)
}

func TestParseManifestRejectsUnnamedOperation(t *testing.T) {
	_, err := ParseManifest([]byte(`{"operations":[{"name":""}]}`))
	assert.Error(t, err)
}

func TestParseManifestRejectsBadJSON(t *testing.T) {
	_, err := ParseManifest([]byte(`{operations}`))
	assert.Error(t, err)
}

func TestManifestEncodeRoundtrip(t *testing.T) {
	original := &Manifest{Operations: []OperationSpec{{
		Name:       "plugin:menu|new",
		ArgsSchema: json.RawMessage(`{"type":"object"}`),
	}}}

	data, err := original.Encode()
	require.NoError(t, err)

	decoded, err := ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, decoded.Operations, 1)
	assert.Equal(t, original.Operations[0].Name, decoded.Operations[0].Name)
	assert.JSONEq(t, string(original.Operations[0].ArgsSchema), string(decoded.Operations[0].ArgsSchema))
}

func TestSchemaSetValidate(t *testing.T) {
	manifest := &Manifest{Operations: []OperationSpec{
		{
			Name: "plugin:menu|new",
			ArgsSchema: json.RawMessage(`{
				"type": "object",
				"required": ["kind", "options"],
				"properties": {
					"kind": {"type": "string"},
					"options": {"type": "object"}
				}
			}`),
		},
		{Name: "plugin:menu|create_default"},
	}}

	set, err := newSchemaSet(manifest)
	require.NoError(t, err)

	assert.NoError(t, set.validate("plugin:menu|new", []byte(`{"kind":"Menu","options":{}}`)))

	err = set.validate("plugin:menu|new", []byte(`{"kind":"Menu"}`))
	require.Error(t, err)
	var sve *SchemaValidationError
	require.ErrorAs(t, err, &sve)
	assert.Contains(t, sve.Details, "options")

	// No schema advertised: anything passes.
	assert.NoError(t, set.validate("plugin:menu|create_default", []byte("null")))
	assert.NoError(t, set.validate("plugin:menu|create_default", nil))

	// Unknown operation: validation is the manifest gate's job, not ours.
	assert.NoError(t, set.validate("plugin:menu|whatever", []byte(`{}`)))
}

func TestSchemaSetRejectsInvalidSchema(t *testing.T) {
	manifest := &Manifest{Operations: []OperationSpec{{
		Name:       "plugin:menu|new",
		ArgsSchema: json.RawMessage(`{"type": 42}`),
	}}}

	_, err := newSchemaSet(manifest)
	assert.Error(t, err)
}
