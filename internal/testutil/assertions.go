// Package testutil provides common test utilities and assertions for gateway tests
package testutil

import (
	"encoding/json"
	"errors"
	"testing"

	domainerrors "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// RequireValidationError asserts that err is a ValidationError with the given code and slot index.
// Pass index -1 for errors that do not refer to a slot.
func RequireValidationError(t *testing.T, err error, code domainerrors.ValidationCode, index int) *domainerrors.ValidationError {
	t.Helper()

	var ve *domainerrors.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, code, ve.Code)
	assert.Equal(t, index, ve.Index)
	return ve
}

// AssertPlausibleDensity asserts a density in kg/m^3 is in the range expected near 20 km.
func AssertPlausibleDensity(t *testing.T, density float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.GreaterOrEqual(t, density, 0.05, msgAndArgs...)
	assert.LessOrEqual(t, density, 0.1, msgAndArgs...)
}
