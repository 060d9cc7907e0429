package hostfuncs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONHandler(t *testing.T) {
	type TestReq struct {
		Input string `json:"input"`
	}
	type TestResp struct {
		Output string `json:"output"`
	}

	echoFunc := func(ctx context.Context, req TestReq) TestResp {
		return TestResp{Output: "echo: " + req.Input}
	}

	handler := NewJSONHandler(echoFunc)

	t.Run("success", func(t *testing.T) {
		reqBytes, err := json.Marshal(TestReq{Input: "hello"})
		require.NoError(t, err)

		respBytes, err := handler(context.Background(), reqBytes)
		require.NoError(t, err)

		var resp TestResp
		require.NoError(t, json.Unmarshal(respBytes, &resp))
		assert.Equal(t, "echo: hello", resp.Output)
	})

	t.Run("invalid JSON returns ErrorResponse", func(t *testing.T) {
		respBytes, err := handler(context.Background(), []byte("{invalid-json"))
		require.NoError(t, err)
		require.NotNil(t, respBytes)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(respBytes, &errResp))
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error)
		assert.Equal(t, 400, errResp.Code)
		assert.Contains(t, errResp.Message, "unmarshal")
	})
}

func TestNewJSONHandler_WithCallRequest(t *testing.T) {
	var got entities.CallRequest
	handler := NewJSONHandler(func(ctx context.Context, req entities.CallRequest) DensityResponse {
		got = req
		return DensityResponse{Outputs: []entities.Argument{entities.ScalarArgument(0.1)}}
	})

	reqBytes, err := json.Marshal(entities.CallRequest{
		Nargout: 1,
		Inputs:  []entities.Argument{entities.ScalarArgument(20), entities.CharArgument("2019-01-25 14:30:00")},
	})
	require.NoError(t, err)

	respBytes, err := handler(context.Background(), reqBytes)
	require.NoError(t, err)
	assert.JSONEq(t, `{"outputs":[{"class":"double","real":[0.1]}]}`, string(respBytes))

	assert.Equal(t, 1, got.Nargout)
	require.Len(t, got.Inputs, 2)
	assert.Equal(t, entities.ClassChar, got.Inputs[1].Class)
}

func TestNewJSONHandler_UsesDecodedRequest(t *testing.T) {
	var got entities.CallRequest
	handler := NewJSONHandler(func(ctx context.Context, req entities.CallRequest) DensityResponse {
		got = req
		return DensityResponse{}
	})

	hc := NewHostContext(context.Background(), DensityFunction)
	hc.SetValue(decodedRequestKey{}, entities.CallRequest{Nargout: 1, Inputs: []entities.Argument{entities.ScalarArgument(20)}})

	_, err := handler(hc, []byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Nargout)
	require.Len(t, got.Inputs, 1)
}
