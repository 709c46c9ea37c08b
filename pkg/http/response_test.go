package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, 404, "User not found")

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "User not found", resp.Error)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, 200, map[string]any{"success": true, "count": 3})

	assert.Equal(t, 200, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["count"])
}

func TestCommonWriters_StatusCodes(t *testing.T) {
	tests := []struct {
		write func(w *httptest.ResponseRecorder)
		code  int
	}{
		{func(w *httptest.ResponseRecorder) { WriteBadRequest(w, "x") }, 400},
		{func(w *httptest.ResponseRecorder) { WriteUnauthorized(w, "x") }, 401},
		{func(w *httptest.ResponseRecorder) { WriteNotFound(w, "x") }, 404},
		{func(w *httptest.ResponseRecorder) { WriteConflict(w, "x") }, 409},
		{func(w *httptest.ResponseRecorder) { WriteTooManyRequests(w, "x") }, 429},
		{func(w *httptest.ResponseRecorder) { WriteInternalError(w, "x") }, 500},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		tt.write(w)
		assert.Equal(t, tt.code, w.Code)
	}
}
