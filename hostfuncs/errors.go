package hostfuncs

import (
	"encoding/json"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
)

// ErrorResponse is the structured error a host function returns as JSON.
// Callers always get a parseable error instead of a trap or a Go error.
type ErrorResponse struct {
	// Detail carries the typed error when one is available.
	Detail *entities.ErrorDetail `json:"detail,omitempty"`

	// Error is a machine-readable error type identifier (e.g., "VALIDATION_ERROR", "INTERNAL_ERROR").
	Error string `json:"error"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Code is a numeric error code (e.g., 400, 500).
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
// Returns nil if serialization fails (which should never happen for this simple type).
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// NewValidationError creates an error response for bad input (e.g., malformed JSON).
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Code:    400,
	}
}

// NewModelInitError creates an error response for a model that could not start.
func NewModelInitError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "MODEL_INIT_ERROR",
		Message: message,
		Code:    503,
	}
}

// NewModelEvalError creates an error response for a failed model evaluation.
func NewModelEvalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "MODEL_EVAL_ERROR",
		Message: message,
		Code:    422,
	}
}

// NewNotFoundError creates an error response for unknown handler names.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{
		Error:   "NOT_FOUND",
		Message: "unknown host function: " + name,
		Code:    404,
	}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: message,
		Code:    500,
	}
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	if err, ok := panicValue.(error); ok {
		msg = err.Error()
	} else if s, ok := panicValue.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "panic: " + msg,
		Code:    500,
	}
}

// NewErrorResponse maps a domain error onto its response. The message is
// err.Error() verbatim so hosts show the same text the gateway reports.
func NewErrorResponse(err error) ErrorResponse {
	detail := domainerrors.ToErrorDetail(err)

	var resp ErrorResponse
	switch detail.Type {
	case "validation":
		resp = NewValidationError(err.Error())
	case "model_init":
		resp = NewModelInitError(err.Error())
	case "model_eval":
		resp = NewModelEvalError(err.Error())
	default:
		resp = NewInternalError(err.Error())
	}
	resp.Detail = detail
	return resp
}
