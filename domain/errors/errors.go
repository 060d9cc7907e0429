// Package errors provides the typed failures of a density call.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is an interface for error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// ValidationCode identifies which rule of the call contract was violated.
type ValidationCode string

const (
	WrongInputCount ValidationCode = "WrongInputCount"
	InvalidScalar   ValidationCode = "InvalidScalar"
	InvalidText     ValidationCode = "InvalidText"
	TooManyOutputs  ValidationCode = "TooManyOutputs"
	NegativeOutputs ValidationCode = "NegativeOutputs"
)

var ordinals = [...]string{"first", "second", "third", "fourth"}

// ValidationError is a malformed call. It is always caller-fixable.
type ValidationError struct {
	Code ValidationCode

	// Index is the argument slot for InvalidScalar and InvalidText, -1 otherwise.
	Index int

	// Name is the slot name (e.g. "altitude"), if any.
	Name string

	// Got is the number of inputs or outputs the caller supplied, where relevant.
	Got int

	// Reason narrows InvalidScalar and InvalidText down.
	Reason string
}

// NewWrongInputCount reports an input count other than want.
func NewWrongInputCount(want, got int) *ValidationError {
	return &ValidationError{Code: WrongInputCount, Index: -1, Got: got, Reason: fmt.Sprintf("%d inputs are required", want)}
}

// NewInvalidScalar reports a slot that is not a real numeric scalar.
func NewInvalidScalar(index int, name, reason string) *ValidationError {
	return &ValidationError{Code: InvalidScalar, Index: index, Name: name, Reason: reason}
}

// NewInvalidText reports a slot that is not ASCII text.
func NewInvalidText(index int, name, reason string) *ValidationError {
	return &ValidationError{Code: InvalidText, Index: index, Name: name, Reason: reason}
}

// NewNegativeOutputs reports a negative output count.
func NewNegativeOutputs(got int) *ValidationError {
	return &ValidationError{Code: NegativeOutputs, Index: -1, Got: got}
}

// NewTooManyOutputs reports a request for more than one output.
func NewTooManyOutputs(got int) *ValidationError {
	return &ValidationError{Code: TooManyOutputs, Index: -1, Got: got}
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case WrongInputCount:
		return fmt.Sprintf("Four inputs are required (got %d).", e.Got)
	case InvalidScalar:
		msg := fmt.Sprintf("The %s input (%s) must be a real scalar", ordinal(e.Index), e.Name)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		return msg + "."
	case InvalidText:
		msg := fmt.Sprintf("The %s input (%s) must be an array of chars", ordinal(e.Index), e.Name)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		return msg + "."
	case NegativeOutputs:
		return fmt.Sprintf("The number of requested outputs cannot be negative (%d requested).", e.Got)
	case TooManyOutputs:
		return fmt.Sprintf("A single output is returned (%d requested).", e.Got)
	default:
		return fmt.Sprintf("invalid call: %s", e.Code)
	}
}

// ToErrorDetail implements DetailedError.
func (e *ValidationError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: string(e.Code)}
	if e.Index >= 0 {
		idx := e.Index
		detail.Index = &idx
	}
	return detail
}

func ordinal(i int) string {
	if i >= 0 && i < len(ordinals) {
		return ordinals[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

// ModelInitError means the model could not be constructed or its reference
// data could not be loaded.
type ModelInitError struct {
	Err           error
	ReferencePath string
}

func (e *ModelInitError) Error() string {
	if e.ReferencePath != "" {
		return fmt.Sprintf("atmospheric model initialization failed (reference data %s): %v", e.ReferencePath, e.Err)
	}
	return fmt.Sprintf("atmospheric model initialization failed: %v", e.Err)
}

func (e *ModelInitError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ModelInitError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "model_init", Code: "ModelInitError"}
}

// ModelEvalError is a fault reported by the model's evaluation step.
type ModelEvalError struct {
	Err error
}

func (e *ModelEvalError) Error() string {
	return fmt.Sprintf("atmospheric model evaluation failed: %v", e.Err)
}

func (e *ModelEvalError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ModelEvalError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "model_eval", Code: "ModelEvalError"}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}
