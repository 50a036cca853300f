package bridge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidationError reports an invoke payload that failed validation
// against the host's advertised argument schema. The call is rejected
// client-side; nothing is sent.
type SchemaValidationError struct {
	Operation string
	Details   string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation failed for %s: %s", e.Operation, e.Details)
}

// schemaSet holds the compiled argument schemas from a host manifest,
// compiled once at handshake time.
type schemaSet struct {
	schemas map[string]*gojsonschema.Schema
}

// newSchemaSet compiles every args_schema in the manifest. Operations
// without a schema are accepted unvalidated.
func newSchemaSet(manifest *Manifest) (*schemaSet, error) {
	set := &schemaSet{schemas: make(map[string]*gojsonschema.Schema)}
	for _, op := range manifest.Operations {
		if len(op.ArgsSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(op.ArgsSchema))
		if err != nil {
			return nil, fmt.Errorf("invalid args_schema for operation %s: %w", op.Name, err)
		}
		set.schemas[op.Name] = schema
	}
	return set, nil
}

// validate checks an invoke payload against the operation's schema, if the
// host advertised one.
func (s *schemaSet) validate(operation string, payload []byte) error {
	schema, ok := s.schemas[operation]
	if !ok {
		return nil
	}

	document := payload
	if len(document) == 0 {
		document = []byte("null")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaValidationError{Operation: operation, Details: err.Error()}
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return &SchemaValidationError{Operation: operation, Details: strings.Join(details, "; ")}
	}
	return nil
}
