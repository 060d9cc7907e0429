package hostfuncs

import (
	"context"
	"testing"
	"time"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostContext_CarriesDecodedRequest(t *testing.T) {
	hc := NewHostContext(context.Background(), DensityFunction)
	assert.Equal(t, DensityFunction, hc.FunctionName())

	_, ok := decodedRequest[entities.CallRequest](hc)
	assert.False(t, ok)

	hc.SetValue(decodedRequestKey{}, entities.CallRequest{Nargout: 1})
	req, ok := decodedRequest[entities.CallRequest](hc)
	require.True(t, ok)
	assert.Equal(t, 1, req.Nargout)

	_, ok = decodedRequest[map[string]any](hc)
	assert.False(t, ok, "a stored value of another type is ignored")

	_, ok = decodedRequest[entities.CallRequest](context.Background())
	assert.False(t, ok)
}

func TestHostContext_DeadlineFromParent(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	hc := HostContextFrom(parent, DensityFunction)
	_, hasDeadline := hc.Deadline()
	assert.True(t, hasDeadline)

	cancel()
	<-hc.Done()
	assert.ErrorIs(t, hc.Err(), context.Canceled)
}

func TestHostContextFrom_ReusesExisting(t *testing.T) {
	original := NewHostContext(context.Background(), DensityFunction)
	original.SetValue(decodedRequestKey{}, entities.CallRequest{Nargout: 0})

	returned := HostContextFrom(original, DensitySignatureFunction)

	assert.Equal(t, DensityFunction, returned.FunctionName())
	_, ok := returned.GetValue(decodedRequestKey{})
	assert.True(t, ok)
}
