package hostfuncs

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_ToJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      ErrorResponse
		expected string
	}{
		{
			name: "validation error",
			err: ErrorResponse{
				Error:   "VALIDATION_ERROR",
				Message: "invalid JSON",
				Code:    400,
			},
			expected: `{"error":"VALIDATION_ERROR","message":"invalid JSON","code":400}`,
		},
		{
			name: "not found",
			err: ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "unknown host function: foo",
				Code:    404,
			},
			expected: `{"error":"NOT_FOUND","message":"unknown host function: foo","code":404}`,
		},
		{
			name: "internal error",
			err: ErrorResponse{
				Error:   "INTERNAL_ERROR",
				Message: "panic: oh no",
				Code:    500,
			},
			expected: `{"error":"INTERNAL_ERROR","message":"panic: oh no","code":500}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.ToJSON()
			require.NotNil(t, got)
			assert.JSONEq(t, tt.expected, string(got))
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("failed to unmarshal request")
	assert.Equal(t, "VALIDATION_ERROR", err.Error)
	assert.Equal(t, "failed to unmarshal request", err.Message)
	assert.Equal(t, 400, err.Code)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("unknown_func")
	assert.Equal(t, "NOT_FOUND", err.Error)
	assert.Equal(t, "unknown host function: unknown_func", err.Message)
	assert.Equal(t, 404, err.Code)
}

func TestNewInternalError(t *testing.T) {
	err := NewInternalError("model adapter unavailable")
	assert.Equal(t, "INTERNAL_ERROR", err.Error)
	assert.Equal(t, "model adapter unavailable", err.Message)
	assert.Equal(t, 500, err.Code)
}

func TestNewPanicError(t *testing.T) {
	tests := []struct {
		name       string
		panicValue any
		wantMsg    string
	}{
		{
			name:       "string panic",
			panicValue: "oops",
			wantMsg:    "panic: oops",
		},
		{
			name:       "error panic",
			panicValue: json.Unmarshal(nil, new(any)),
			wantMsg:    "panic: unexpected end of JSON input",
		},
		{
			name:       "other panic",
			panicValue: 42,
			wantMsg:    "panic: panic recovered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPanicError(tt.panicValue)
			assert.Equal(t, "INTERNAL_ERROR", err.Error)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, 500, err.Code)
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode int
	}{
		{"validation", domainerrors.NewWrongInputCount(4, 3), "VALIDATION_ERROR", 400},
		{"model init", &domainerrors.ModelInitError{Err: errors.New("NameRef.txt missing")}, "MODEL_INIT_ERROR", 503},
		{"model eval", fmt.Errorf("call: %w", &domainerrors.ModelEvalError{Err: errors.New("nan")}), "MODEL_EVAL_ERROR", 422},
		{"generic", errors.New("unexpected"), "INTERNAL_ERROR", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewErrorResponse(tt.err)
			assert.Equal(t, tt.wantType, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.err.Error(), resp.Message)
			require.NotNil(t, resp.Detail)
		})
	}
}

func TestNewErrorResponse_CarriesIndex(t *testing.T) {
	resp := NewErrorResponse(domainerrors.NewInvalidText(3, "epoch", "got double"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(resp.ToJSON(), &decoded))
	detail, ok := decoded["detail"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "InvalidText", detail["code"])
	assert.EqualValues(t, 3, detail["index"])
}
