// Package schema provides JSON schema generation for the host-call wire types.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	return marshal(reflector.Reflect(v))
}

// RequestSchema returns a self-contained schema for entities.CallRequest.
// Nested types are inlined so the document has no references to resolve.
func RequestSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
		Anonymous:      true,
	}
	return marshal(reflector.Reflect(&entities.CallRequest{}))
}

// Document describes a host function: its signature and request schema.
type Document struct {
	Signature entities.Signature `json:"signature"`
	Request   json.RawMessage    `json:"request_schema"`
}

// Describe builds the Document for a signature.
func Describe(sig entities.Signature) (*Document, error) {
	req, err := RequestSchema()
	if err != nil {
		return nil, err
	}
	return &Document{Signature: sig, Request: req}, nil
}

func marshal(s *jsonschema.Schema) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return jsonBytes, nil
}
