// Package validation checks serialized host-call payloads against the
// request schema before they are decoded.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/application/schema"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

const requestSchemaURL = "mem://atmdensity/call-request.json"

// PayloadError is a request body that does not match the call schema.
type PayloadError struct {
	// Location is the JSON pointer of the offending value ("" for the root).
	Location string
	Message  string
}

func (e *PayloadError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("invalid request payload: %s", e.Message)
	}
	return fmt.Sprintf("invalid request payload at %s: %s", e.Location, e.Message)
}

// ToErrorDetail implements errors.DetailedError.
func (e *PayloadError) ToErrorDetail() *entities.ErrorDetail {
	detail := entities.NewErrorDetail("validation", e.Error()).WithCode("InvalidPayload")
	if e.Location != "" {
		detail.Details = map[string]any{"location": e.Location}
	}
	return detail
}

// PayloadValidator validates raw JSON against a compiled schema.
type PayloadValidator struct {
	schema *jsonschema.Schema
}

// NewPayloadValidator compiles the given schema document.
func NewPayloadValidator(url string, doc []byte) (*PayloadValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", url, err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", url, err)
	}
	return &PayloadValidator{schema: sch}, nil
}

// NewRequestValidator returns a validator for entities.CallRequest payloads.
func NewRequestValidator() (*PayloadValidator, error) {
	doc, err := schema.RequestSchema()
	if err != nil {
		return nil, err
	}
	return NewPayloadValidator(requestSchemaURL, doc)
}

// ValidatePayload checks that payload is well-formed JSON matching the schema.
func (v *PayloadValidator) ValidatePayload(payload []byte) error {
	var obj interface{}
	if err := json.Unmarshal(payload, &obj); err != nil {
		return &PayloadError{Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	err := v.schema.Validate(obj)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &PayloadError{Message: err.Error()}
	}
	leaf := deepest(ve)
	return &PayloadError{Location: leaf.InstanceLocation, Message: strings.TrimSpace(leaf.Message)}
}

// deepest follows the first cause down to the most specific failure.
func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
